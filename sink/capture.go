package sink

import "sync"

// RecordedEvent is one event a Capture sink has received.
type RecordedEvent struct {
	Name   string
	Params Params
}

// Capture records every forwarded event in memory. It exists for tests and
// for embedders that want to inspect fan-out before wiring real SDKs.
type Capture struct {
	mu     sync.Mutex
	events []RecordedEvent
}

// NewCapture returns an empty capture sink.
func NewCapture() *Capture {
	return &Capture{}
}

func (c *Capture) LogEvent(name string, params Params) {
	cp := make(Params, len(params))
	for k, v := range params {
		cp[k] = v
	}
	c.mu.Lock()
	c.events = append(c.events, RecordedEvent{Name: name, Params: cp})
	c.mu.Unlock()
}

// Events returns a copy of everything recorded so far.
func (c *Capture) Events() []RecordedEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]RecordedEvent, len(c.events))
	copy(out, c.events)
	return out
}
