package shopsignal

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/shopsignal/sdk-go/device"
	"github.com/shopsignal/sdk-go/internal/config"
	"github.com/shopsignal/sdk-go/internal/dispatch"
	"github.com/shopsignal/sdk-go/internal/identity"
	"github.com/shopsignal/sdk-go/internal/models"
	"github.com/shopsignal/sdk-go/internal/observability"
	"github.com/shopsignal/sdk-go/internal/routing"
	"github.com/shopsignal/sdk-go/internal/score"
	"github.com/shopsignal/sdk-go/sink"
	"github.com/shopsignal/sdk-go/storage"
)

// LineItem is one purchased product reported with Purchased.
type LineItem struct {
	ID       string
	Quantity int
	Price    float64
}

// Client is the analytics client. One Client serves one device/app install
// (or, server-side, one visitor session). All methods are safe for
// concurrent use and never return errors to the caller: network and
// persistence trouble degrades to missing audience side effects.
type Client struct {
	dev     device.Info
	logger  *zap.Logger
	metrics observability.MetricsRegistry

	identity   *identity.Manager
	dispatcher *dispatch.Dispatcher
	score      *score.Cache
	router     *routing.Router

	mu     sync.RWMutex
	userID string

	// inflight tracks fire-and-forget dispatches so Flush can join them.
	inflight sync.WaitGroup
}

// New constructs a client for the given tenant token. Visitor identity
// resolution starts immediately in the background; the constructor never
// blocks on storage or network.
func New(token string, opts ...Option) *Client {
	cfg := config.Load()

	o := options{
		collectorURL: cfg.CollectorURL,
		scoreTTL:     cfg.ScoreTTL,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if !strings.HasSuffix(o.collectorURL, "/") {
		o.collectorURL += "/"
	}

	if o.store == nil {
		o.store = storage.NewMemoryStore()
	}
	if o.facebook == nil {
		o.facebook = sink.Nop{}
	}
	if o.google == nil {
		o.google = sink.Nop{}
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.dev == nil {
		host := device.Host()
		o.dev = &host
	}
	if o.httpClient == nil {
		var transport http.RoundTripper
		if cfg.TracingEnabled {
			transport = otelhttp.NewTransport(http.DefaultTransport)
		}
		o.httpClient = &http.Client{Timeout: cfg.HTTPTimeout, Transport: transport}
	}

	var metrics observability.MetricsRegistry = observability.NewNoOpRegistry()
	if o.prometheus {
		metrics = observability.NewPrometheusRegistry()
	}

	c := &Client{
		dev:     *o.dev,
		logger:  o.logger,
		metrics: metrics,
		userID:  token,
	}
	c.identity = identity.NewManager(o.store, o.logger, metrics)
	c.dispatcher = dispatch.New(o.collectorURL, o.httpClient, o.logger, metrics)
	c.score = score.NewCache(o.store, c.dispatcher, o.scoreTTL, *o.dev, o.logger, metrics)
	c.router = routing.NewRouter(o.facebook, o.google, o.logger, metrics)

	// Resolve early so the first tracked action usually finds the identity
	// already cached; Ensure still guards the slow path.
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		c.identity.Ensure(context.Background())
	}()

	return c
}

// Config reassigns the tenant token. The visitor identity is untouched.
func (c *Client) Config(token string) {
	c.mu.Lock()
	c.userID = token
	c.mu.Unlock()
}

// ListingPageView reports a category listing page view.
func (c *Client) ListingPageView(category string) {
	ctx := context.Background()
	ev := models.ListingEvent{
		Envelope:         c.envelope(ctx, models.ActionListing),
		ProductCategory1: category,
	}
	c.track(ctx, ev, dispatch.PathListings)
}

// ProductPageView reports a product detail page view.
func (c *Client) ProductPageView(productID, productCategory string, price float64) {
	ctx := context.Background()
	ev := models.ProductEvent{
		Envelope:         c.envelope(ctx, models.ActionProduct),
		ProductID:        productID,
		ProductCategory2: productCategory,
		Price:            price,
	}
	c.track(ctx, ev, dispatch.PathProducts)
}

// AddedToCart reports a product added to the cart. Basket activity is
// recorded under the purchases resource.
func (c *Client) AddedToCart(productID string) {
	ctx := context.Background()
	ev := models.BasketEvent{
		Envelope:  c.envelope(ctx, models.ActionBasket),
		ProductID: productID,
	}
	c.track(ctx, ev, dispatch.PathPurchases)
}

// Purchased reports a completed purchase. Called with no products it
// reports a single placeholder line item rather than an empty basket.
func (c *Client) Purchased(products ...LineItem) {
	ctx := context.Background()

	items := make([]models.LineItem, 0, len(products))
	for _, p := range products {
		items = append(items, models.LineItem(p))
	}
	if len(items) == 0 {
		items = append(items, models.PlaceholderLineItem)
	}

	ev := models.PurchaseEvent{
		Envelope: c.envelope(ctx, models.ActionPurchase),
		Products: items,
		BasketID: models.NewBasketID(time.Now()),
	}
	c.track(ctx, ev, dispatch.PathPurchases)
}

// Flush waits for in-flight dispatches. It exists for tests and orderly
// shutdown; tracked actions never depend on it.
func (c *Client) Flush() {
	c.inflight.Wait()
}

// envelope builds the common payload fields, resolving the visitor
// identity first so no event ever carries an empty visitor id.
func (c *Client) envelope(ctx context.Context, action models.ActionType) models.Envelope {
	visitorID := c.identity.Ensure(ctx)
	c.mu.RLock()
	userID := c.userID
	c.mu.RUnlock()
	return models.NewEnvelope(action, visitorID, userID, string(c.dev.Platform))
}

// track issues the category-specific and customer-activity dispatches as
// independent, unordered fire-and-forget calls, then runs one score cycle.
// The score cycle is sequential so routing only ever sees a fully written
// cache entry.
func (c *Client) track(ctx context.Context, ev models.ActionEvent, path string) {
	c.send(ctx, ev, path)
	c.send(ctx, ev, dispatch.PathCustomers)
	c.refreshScore(ctx)
}

// send issues one fire-and-forget POST.
func (c *Client) send(ctx context.Context, payload any, path string) {
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		c.dispatcher.Send(ctx, http.MethodPost, path, payload)
	}()
}

// refreshScore runs one score cycle. Fan-out happens only on the cycle
// that actually fetched a result over the network, so each score response
// reaches the sinks at most once and the cache rate-limits the routing.
func (c *Client) refreshScore(ctx context.Context) {
	visitorID := c.identity.Ensure(ctx)
	c.mu.RLock()
	userID := c.userID
	c.mu.RUnlock()

	raw, refreshed := c.score.Get(ctx, visitorID, userID)
	if refreshed {
		c.router.Route(raw)
	}
}
