package poller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/logrusorgru/aurora"
	"github.com/lukehollenback/cbpro/constants"
	"github.com/lukehollenback/cbpro/exchange"
	"github.com/lukehollenback/cbpro/structs/evictingqueue"
	"golang.org/x/sync/errgroup"
)

const (
	Name = "≪poller-service≫"
)

var (
	logger *log.Logger

	errAlreadyRunning = errors.New("the poller service is already running")
	errNotRunning     = errors.New("the poller service is not running")
)

func init() {
	//
	// Initialize the logger.
	//
	logger = log.New(log.Writer(), fmt.Sprintf(constants.LogPrefixFmt, Name), log.Ldate|log.Ltime|log.Lmsgprefix)
}

//
// Config holds the configuration of a Poller Service instance.
//
type Config struct {
	Product     string
	Endpoints   []Endpoint
	Interval    time.Duration
	BookLevel   exchange.BookLevel
	Granularity exchange.Granularity
	HistoryLen  int
	Concurrency int // Maximum number of in-flight requests per round. Zero means one per endpoint.
}

//
// DefaultConfig returns a configuration that polls the ticker and level two order book of the
// specified product.
//
func DefaultConfig(product string) Config {
	return Config{
		Product:     product,
		Endpoints:   []Endpoint{Ticker, Book},
		Interval:    constants.DefaultPollInterval,
		BookLevel:   exchange.LevelTwo,
		Granularity: exchange.OneMinute,
		HistoryLen:  constants.DefaultHistoryLen,
	}
}

func (o Config) validate() error {
	if o.Product == "" {
		return errors.New("a product must be configured")
	}

	if len(o.Endpoints) == 0 {
		return errors.New("at least one endpoint must be configured")
	}

	if o.Interval <= 0 {
		return fmt.Errorf("poll interval must be positive (got %s)", o.Interval)
	}

	if !o.BookLevel.Valid() {
		return fmt.Errorf("invalid order book level %d", int(o.BookLevel))
	}

	if !o.Granularity.Valid() {
		return fmt.Errorf("invalid candle granularity %d", int(o.Granularity))
	}

	return nil
}

//
// Service repeatedly polls a set of public endpoints for a single product. Each round issues its
// requests concurrently; pacing against the exchange's limits is left to the client's rate limiter.
//
type Service struct {
	mu        *sync.Mutex
	cancel    context.CancelFunc
	chStopped chan bool

	client   exchange.PublicClient
	cfg      Config
	history  *evictingqueue.EvictingQueue[*Snapshot]
	handlers []func(*Snapshot)
}

//
// New instantiates a Poller Service that will poll through the provided client.
//
func New(client exchange.PublicClient, cfg Config) (*Service, error) {
	if client == nil {
		return nil, errors.New("a client must be provided")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.HistoryLen <= 0 {
		cfg.HistoryLen = constants.DefaultHistoryLen
	}

	return &Service{
		mu:       &sync.Mutex{},
		client:   client,
		cfg:      cfg,
		history:  evictingqueue.New[*Snapshot](cfg.HistoryLen),
		handlers: make([]func(*Snapshot), 0),
	}, nil
}

//
// RegisterSnapshotHandler registers a handler to be executed whenever a polling round completes.
// Handlers are executed in registration order on the service's goroutine.
//
func (o *Service) RegisterSnapshotHandler(handler func(*Snapshot)) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.handlers = append(o.handlers, handler)
}

//
// History returns the most recent snapshots, oldest first.
//
func (o *Service) History() []*Snapshot {
	return o.history.Snapshot()
}

//
// Start implements the Service interface's described method.
//
func (o *Service) Start() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cancel != nil {
		return nil, errAlreadyRunning
	}

	//
	// (Re)initialize our instance variables.
	//
	var ctx context.Context

	ctx, o.cancel = context.WithCancel(context.Background())
	o.chStopped = make(chan bool, 1)

	//
	// Fire off a goroutine as the executor for the service.
	//
	go o.service(ctx, o.chStopped)

	chStarted := make(chan bool, 1)
	chStarted <- true

	logger.Printf(
		"Started. (Product: %s, Endpoints: %v, Interval: %s)",
		aurora.Bold(o.cfg.Product), o.cfg.Endpoints, o.cfg.Interval,
	)

	return chStarted, nil
}

//
// Stop implements the Service interface's described method. In-flight requests are cancelled.
//
func (o *Service) Stop() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cancel == nil {
		return nil, errNotRunning
	}

	logger.Printf("Stopping...")

	o.cancel()
	o.cancel = nil

	return o.chStopped, nil
}

//
// service polls immediately and then once per interval until its context is cancelled.
//
func (o *Service) service(ctx context.Context, chStopped chan<- bool) {
	ticker := time.NewTicker(o.cfg.Interval)
	defer ticker.Stop()

	for {
		snap := o.Poll(ctx)

		if ctx.Err() == nil {
			o.dispatch(snap)
		}

		select {
		case <-ctx.Done():
			chStopped <- true

			return

		case <-ticker.C:
		}
	}
}

//
// Poll runs a single polling round against every configured endpoint and records the resulting
// snapshot in the service's history. A failing endpoint never prevents the others from being
// polled.
//
func (o *Service) Poll(ctx context.Context) *Snapshot {
	snap := &Snapshot{
		RoundID: uuid.New(),
		Product: o.cfg.Product,
		Taken:   time.Now().UTC(),
		Results: make(map[Endpoint]*Result, len(o.cfg.Endpoints)),
	}

	results := make([]*Result, len(o.cfg.Endpoints))

	var g errgroup.Group

	if o.cfg.Concurrency > 0 {
		g.SetLimit(o.cfg.Concurrency)
	}

	for i, endpoint := range o.cfg.Endpoints {
		i, endpoint := i, endpoint

		g.Go(func() error {
			began := time.Now()
			resp, err := o.call(ctx, endpoint)

			results[i] = &Result{
				Endpoint: endpoint,
				Response: resp,
				Err:      err,
				Elapsed:  time.Since(began),
			}

			return nil
		})
	}

	_ = g.Wait()

	for _, r := range results {
		snap.Results[r.Endpoint] = r
	}

	o.history.Add(snap)

	//
	// Log some debug info.
	//
	if failed := snap.Failed(); len(failed) > 0 {
		for _, e := range failed {
			logger.Printf(
				"Round %s: polling %s for %s failed. (Error: %s)",
				snap.RoundID, aurora.Red(e), snap.Product, snap.Results[e].Err,
			)
		}
	} else if price, ok := snap.LastPrice(); ok {
		logger.Printf("Round %s: %s last traded at %s.", snap.RoundID, snap.Product, aurora.Bold(aurora.Yellow(price)))
	}

	return snap
}

func (o *Service) call(ctx context.Context, endpoint Endpoint) (exchange.Response, error) {
	switch endpoint {
	case Ticker:
		return o.client.ProductTicker(ctx, o.cfg.Product)
	case Book:
		return o.client.ProductOrderBook(ctx, o.cfg.Product, o.cfg.BookLevel)
	case Stats:
		return o.client.Product24hStats(ctx, o.cfg.Product)
	case Candles:
		return o.client.ProductHistoricRates(ctx, o.cfg.Product, nil, nil, &o.cfg.Granularity)
	case Trades:
		return o.client.ProductTrades(ctx, o.cfg.Product, nil)
	default:
		return nil, fmt.Errorf("unsupported endpoint %s", endpoint)
	}
}

func (o *Service) dispatch(snap *Snapshot) {
	o.mu.Lock()
	handlers := make([]func(*Snapshot), len(o.handlers))
	copy(handlers, o.handlers)
	o.mu.Unlock()

	for _, handler := range handlers {
		handler(snap)
	}
}
