// Command traffic_simulator drives the client SDK against a collector,
// emitting a randomized stream of e-commerce actions. Point it at a real
// collector or at the local collector_stub.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	shopsignal "github.com/shopsignal/sdk-go"
	"github.com/shopsignal/sdk-go/device"
	"github.com/shopsignal/sdk-go/internal/observability"
	"github.com/shopsignal/sdk-go/sink"
	"github.com/shopsignal/sdk-go/storage"
)

var (
	collector string
	token     string
	visitors  int
	actions   int
	rate      float64
	debug     bool
	logSinks  bool
)

var (
	countListing  uint64
	countProduct  uint64
	countBasket   uint64
	countPurchase uint64
)

var logger *zap.Logger

var categories = []string{"shoes", "bags", "jackets", "accessories"}

var catalog = []struct {
	id       string
	category string
	price    float64
}{
	{"sku-100", "shoes", 49.99},
	{"sku-101", "shoes", 89.90},
	{"sku-200", "bags", 120.00},
	{"sku-300", "jackets", 249.50},
	{"sku-400", "accessories", 9.99},
}

var platforms = []device.Info{
	{Platform: device.Android, OSVersion: "14"},
	{Platform: device.IOS, OSVersion: "17.2"},
	{Platform: device.Web, OSVersion: "linux"},
}

func main() {
	flag.StringVar(&collector, "collector", "http://localhost:4000/api/", "collector base URL")
	flag.StringVar(&token, "token", "demo-tenant", "tenant token")
	flag.IntVar(&visitors, "visitors", 10, "number of simulated visitors")
	flag.IntVar(&actions, "actions", 100, "actions per visitor")
	flag.Float64Var(&rate, "rate", 0, "actions per second per visitor (0 for unlimited)")
	flag.BoolVar(&debug, "debug", false, "enable verbose debug logs")
	flag.BoolVar(&logSinks, "log-sinks", false, "log routed ad-platform events")
	flag.Parse()

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	var err error
	logger, err = observability.InitLoggerWithLevel(level, "traffic-simulator")
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			MaxConnsPerHost:     50,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	logger.Info("starting traffic",
		zap.String("collector", collector),
		zap.Int("visitors", visitors),
		zap.Int("actions", actions))

	start := time.Now()
	var wg sync.WaitGroup
	for v := 0; v < visitors; v++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			runVisitor(v, httpClient)
		}(v)
	}
	wg.Wait()

	logger.Info("traffic complete",
		zap.Duration("elapsed", time.Since(start)),
		zap.Uint64("listing", atomic.LoadUint64(&countListing)),
		zap.Uint64("product", atomic.LoadUint64(&countProduct)),
		zap.Uint64("basket", atomic.LoadUint64(&countBasket)),
		zap.Uint64("purchase", atomic.LoadUint64(&countPurchase)))
}

// runVisitor emits one visitor's action stream through its own client so
// each simulated install gets its own identity and score cache.
func runVisitor(v int, httpClient *http.Client) {
	opts := []shopsignal.Option{
		shopsignal.WithCollectorURL(collector),
		shopsignal.WithStore(storage.NewMemoryStore()),
		shopsignal.WithDevice(platforms[v%len(platforms)]),
		shopsignal.WithHTTPClient(httpClient),
		shopsignal.WithLogger(logger.Named(fmt.Sprintf("visitor-%d", v))),
	}
	if logSinks {
		opts = append(opts,
			shopsignal.WithFacebookSink(sink.LogSink{Logger: logger, Platform: "facebook"}),
			shopsignal.WithGoogleSink(sink.LogSink{Logger: logger, Platform: "google"}),
		)
	}
	client := shopsignal.New(token, opts...)
	defer client.Flush()

	var interval time.Duration
	if rate > 0 {
		interval = time.Duration(float64(time.Second) / rate)
	}

	for i := 0; i < actions; i++ {
		emitAction(client)
		if interval > 0 {
			time.Sleep(interval)
		}
	}
}

// emitAction picks one action with a funnel-shaped distribution: lots of
// browsing, some carts, few purchases.
func emitAction(client *shopsignal.Client) {
	p := catalog[rand.Intn(len(catalog))]
	switch r := rand.Float64(); {
	case r < 0.40:
		client.ListingPageView(categories[rand.Intn(len(categories))])
		atomic.AddUint64(&countListing, 1)
	case r < 0.80:
		client.ProductPageView(p.id, p.category, p.price)
		atomic.AddUint64(&countProduct, 1)
	case r < 0.95:
		client.AddedToCart(p.id)
		atomic.AddUint64(&countBasket, 1)
	default:
		client.Purchased(shopsignal.LineItem{ID: p.id, Quantity: 1 + rand.Intn(3), Price: p.price})
		atomic.AddUint64(&countPurchase, 1)
	}
}
