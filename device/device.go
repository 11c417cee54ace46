// Package device describes the end-user device an action originates from.
// Server-side embedders usually derive it from the incoming request's
// User-Agent; mobile embedders pass it in directly.
package device

import (
	"fmt"
	"runtime"

	"github.com/avct/uasurfer"
)

// Platform names the device operating system family.
type Platform string

const (
	Android Platform = "android"
	IOS     Platform = "ios"
	Web     Platform = "web"
)

// Info identifies the device an event is attributed to.
type Info struct {
	Platform  Platform
	OSVersion string
}

// CoarseType maps the platform onto the collector's coarse device-type tag.
func (i Info) CoarseType() string {
	switch i.Platform {
	case Android:
		return "a2"
	case IOS:
		return "i2"
	default:
		return "w2"
	}
}

// Host returns the device info of the process itself, for embedders that
// run on the end-user device rather than behind a server.
func Host() Info {
	var p Platform
	switch runtime.GOOS {
	case "android":
		p = Android
	case "ios", "darwin":
		p = IOS
	default:
		p = Web
	}
	return Info{Platform: p, OSVersion: runtime.GOOS}
}

// FromUserAgent parses a raw User-Agent string into device info.
func FromUserAgent(ua string) Info {
	u := uasurfer.Parse(ua)

	var p Platform
	switch u.OS.Name {
	case uasurfer.OSAndroid:
		p = Android
	case uasurfer.OSiOS:
		p = IOS
	default:
		p = Web
	}

	v := u.OS.Version
	return Info{
		Platform:  p,
		OSVersion: fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch),
	}
}
