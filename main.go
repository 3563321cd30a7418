package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/logrusorgru/aurora"
	"github.com/lukehollenback/cbpro/constants"
	"github.com/lukehollenback/cbpro/exchange"
	"github.com/lukehollenback/cbpro/exchange/coinbase"
	"github.com/lukehollenback/cbpro/service"
	"github.com/lukehollenback/cbpro/service/feed"
	"github.com/lukehollenback/cbpro/service/poller"
	"github.com/lukehollenback/cbpro/service/writer"
	"github.com/shopspring/decimal"

	coinbasepro "github.com/preichenberger/go-coinbasepro/v2"
)

func main() {
	//
	// Load any ".env" file so that its values can serve as flag defaults.
	//
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Failed to load the .env file. (Error: %s)", err)
	}

	//
	// Register and parse configuration flags.
	//
	var opts options

	flag.StringVar(&opts.endpoint, "endpoint", "ticker", "The endpoint to call once (time|currencies|products|product|book|ticker|trades|candles|stats).")
	flag.StringVar(&opts.product, "product", envOr("CBPRO_PRODUCT", "BTC-USD"), "The product (e.g. \"ETH-USD\") to query.")
	flag.IntVar(&opts.level, "level", int(exchange.LevelTwo), "The order book level (1, 2, or 3).")
	flag.StringVar(&opts.granularity, "granularity", "", "The candle granularity (1m|5m|15m|1h|6h|1d or seconds).")
	flag.StringVar(&opts.start, "start", "", "The RFC3339 start timestamp of a candles request.")
	flag.StringVar(&opts.end, "end", "", "The RFC3339 end timestamp of a candles request.")
	cfgAfter := flag.Uint64("after", 0, "Only return trades after this trade id.")

	cfgRange := flag.Bool("range", false, "Page through every candle between -start and -end.")
	cfgAPIURL := flag.String("api-url", envOr("CBPRO_API_URL", coinbase.BaseURL), "The base URL of the REST API.")
	cfgTimeout := flag.Duration("timeout", envDurationOr("CBPRO_TIMEOUT", coinbase.DefaultRequestTimeout), "The per-request timeout.")
	cfgRate := flag.Int("rate", envIntOr("CBPRO_RATE_LIMIT", coinbase.DefaultRateLimit), "The request rate limit (per second). Zero disables it.")
	cfgBurst := flag.Int("burst", envIntOr("CBPRO_BURST_SIZE", coinbase.DefaultBurstSize), "The request burst size.")
	cfgPoll := flag.Duration("poll", 0, "Run the poller at this interval instead of making a single request.")
	cfgEndpoints := flag.String("endpoints", "ticker,book", "The endpoints the poller should poll each round.")
	cfgFeed := flag.Bool("feed", false, "Run the websocket ticker feed.")
	cfgFeedURL := flag.String("feed-url", envOr("CBPRO_FEED_URL", feed.FeedURL), "The URL of the websocket feed.")
	cfgCSV := flag.Bool("csv", false, "Write prices out to CSV.")

	flag.Parse()

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "after" {
			opts.after = cfgAfter
		}
	})

	//
	// Build the client.
	//
	client, err := coinbase.Builder().
		APIURL(*cfgAPIURL).
		RequestTimeout(*cfgTimeout).
		RateLimit(*cfgRate).
		BurstSize(*cfgBurst).
		Build()
	if err != nil {
		log.Fatalf("Failed to build the client. (Error: %s)", err)
	}

	log.Printf("Using %s. (Rate Limit: %d/s, Burst: %d)", aurora.Bold(*cfgAPIURL), *cfgRate, *cfgBurst)

	//
	// Start the CSV writer if asked to. Whatever is running is kept in shutdown order.
	//
	var running []service.Service

	if *cfgCSV {
		if running, err = startAll([]service.Service{writer.Instance()}, running); err != nil {
			log.Fatalf("Failed to start the writer service. (Error: %s)", err)
		}
	}

	//
	// Without a long-running service requested, make the single request and exit.
	//
	if *cfgPoll <= 0 && !*cfgFeed {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)

		if *cfgRange {
			err = fetchRange(ctx, client, opts, *cfgCSV)
		} else {
			err = fetchOnce(ctx, client, opts)
		}

		cancel()
		stopAll(running)

		if err != nil {
			log.Fatalf("%s (Error: %s)", aurora.Red("The request failed."), err)
		}

		return
	}

	//
	// Register a kill signal handler with the operating system so that we can gracefully shutdown if
	// necessary.
	//
	osInterrupt := make(chan os.Signal, 1)

	signal.Notify(osInterrupt, os.Interrupt)

	//
	// Configure and start up all requested services.
	//
	var services []service.Service

	if *cfgPoll > 0 {
		svc, err := newPoller(client, opts, *cfgPoll, *cfgEndpoints, *cfgCSV)
		if err != nil {
			stopAll(running)
			log.Fatalf("Failed to configure the poller service. (Error: %s)", err)
		}

		services = append(services, svc)
	}

	if *cfgFeed {
		svc, err := newFeed(*cfgFeedURL, opts.product, *cfgCSV)
		if err != nil {
			stopAll(running)
			log.Fatalf("Failed to configure the feed service. (Error: %s)", err)
		}

		services = append(services, svc)
	}

	if running, err = startAll(services, running); err != nil {
		log.Fatalf("Failed to start a service. (Error: %s)", err)
	}

	//
	// Block until we are shut down by the operating system.
	//
	<-osInterrupt

	log.Print("An operating system interrupt has been received. Shutting down all services...")

	stopAll(running)

	//
	// Wrap everything up.
	//
	log.Print("Goodbye.")
}

//
// fetchOnce makes a single request and prints its JSON body.
//
func fetchOnce(ctx context.Context, client exchange.PublicClient, opts options) error {
	resp, err := fetch(ctx, client, opts)
	if resp != nil {
		fmt.Println(resp.String())
	}

	if err != nil {
		return err
	}

	if candles := resp.Candles(); len(candles) > 0 {
		log.Printf("Decoded %d candles.", len(candles))
	}

	return nil
}

//
// fetchRange pages through a candle range and prints one candle per line, optionally writing each
// close out to CSV.
//
func fetchRange(ctx context.Context, client *coinbase.Client, opts options, csv bool) error {
	start, end, g, err := opts.rangeParams()
	if err != nil {
		return err
	}

	candles, err := client.ProductHistoricRatesRange(ctx, opts.product, start, end, g)
	if err != nil {
		return err
	}

	for _, c := range candles {
		fmt.Println(c)

		if csv {
			if err := writer.Instance().Write(*c.EndTime(), opts.product, writer.ClosingPrice, *c.Close()); err != nil {
				return err
			}
		}
	}

	log.Printf("Retrieved %s candles of %s.", aurora.Bold(len(candles)), opts.product)

	return nil
}

func newPoller(client exchange.PublicClient, opts options, interval time.Duration, endpoints string, csv bool) (*poller.Service, error) {
	parsed, err := poller.ParseEndpoints(endpoints)
	if err != nil {
		return nil, err
	}

	cfg := poller.DefaultConfig(opts.product)
	cfg.Endpoints = parsed
	cfg.Interval = interval
	cfg.BookLevel = exchange.BookLevel(opts.level)

	if opts.granularity != "" {
		if cfg.Granularity, err = exchange.ParseGranularity(opts.granularity); err != nil {
			return nil, err
		}
	}

	svc, err := poller.New(client, cfg)
	if err != nil {
		return nil, err
	}

	if csv {
		svc.RegisterSnapshotHandler(func(snap *poller.Snapshot) {
			extractors := map[writer.Type]func() (decimal.Decimal, bool){
				writer.LastPrice: snap.LastPrice,
				writer.BestBid:   snap.BestBid,
				writer.BestAsk:   snap.BestAsk,
			}

			for _, category := range []writer.Type{writer.LastPrice, writer.BestBid, writer.BestAsk} {
				if v, ok := extractors[category](); ok {
					if err := writer.Instance().Write(snap.Taken, snap.Product, category, v); err != nil {
						log.Printf("Failed to write out the %s. (Error: %s)", category, err)
					}
				}
			}
		})
	}

	return svc, nil
}

func newFeed(url string, products string, csv bool) (*feed.Service, error) {
	svc, err := feed.New(feed.Config{URL: url, Products: strings.Split(products, ",")})
	if err != nil {
		return nil, err
	}

	svc.RegisterTickerHandler(func(msg *coinbasepro.Message) {
		price, err := decimal.NewFromString(msg.Price)
		if err != nil {
			return
		}

		log.Printf("%s traded at %s.", msg.ProductID, aurora.Bold(aurora.Yellow(price)))

		if csv {
			if err := writer.Instance().Write(msg.Time.Time(), msg.ProductID, writer.LastPrice, price); err != nil {
				log.Printf("Failed to write out the last price. (Error: %s)", err)
			}
		}
	})

	return svc, nil
}

//
// startAll starts each service in turn and returns the running services in shutdown order: the
// newly started services (most recent first) followed by those already running. If any service
// fails to start, everything running is stopped and the error is returned.
//
func startAll(services []service.Service, running []service.Service) ([]service.Service, error) {
	for _, svc := range services {
		chStarted, err := svc.Start()
		if err != nil {
			stopAll(running)

			return nil, err
		}
		<-chStarted

		running = append([]service.Service{svc}, running...)
	}

	return running, nil
}

//
// stopAll stops every service in order, waiting for each to fully shut down.
//
func stopAll(services []service.Service) {
	for _, svc := range services {
		chStopped, err := svc.Stop()
		if err != nil {
			log.Printf("Failed to stop a service. (Error: %s)", err)
			continue
		}

		select {
		case <-chStopped:
		case <-time.After(constants.ShutdownTimeout):
			log.Printf("Timed out waiting for a service to stop.")
		}
	}
}
