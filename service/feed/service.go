package feed

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/lukehollenback/cbpro/constants"

	ws "github.com/gorilla/websocket"
	coinbasepro "github.com/preichenberger/go-coinbasepro/v2"
)

const (
	Name = "≪feed-service≫"

	FeedURL = "wss://ws-feed.pro.coinbase.com"

	DefaultHandshakeTimeout = 10 * time.Second
)

var (
	logger *log.Logger
)

func init() {
	//
	// Initialize the logger.
	//
	logger = log.New(log.Writer(), fmt.Sprintf(constants.LogPrefixFmt, Name), log.Ldate|log.Ltime|log.Lmsgprefix)
}

//
// Config holds the configuration of a Feed Service instance.
//
type Config struct {
	URL              string
	Products         []string
	HandshakeTimeout time.Duration
}

//
// Service represents a websocket ticker feed service instance. It is the push-based counterpart of
// the Poller Service.
//
type Service struct {
	mu        *sync.Mutex
	chKill    chan bool
	chStopped chan bool

	cfg   Config
	state State
	err   error

	onTickerHandlers    []func(*coinbasepro.Message)
	onHeartbeatHandlers []func(*coinbasepro.Message)
}

//
// New instantiates a Feed Service that will subscribe to the specified products.
//
func New(cfg Config) (*Service, error) {
	if len(cfg.Products) == 0 {
		return nil, errors.New("at least one product must be configured")
	}

	if cfg.URL == "" {
		cfg.URL = FeedURL
	}

	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = DefaultHandshakeTimeout
	}

	return &Service{
		mu:    &sync.Mutex{},
		cfg:   cfg,
		state: Disconnected,

		onTickerHandlers:    make([]func(*coinbasepro.Message), 0),
		onHeartbeatHandlers: make([]func(*coinbasepro.Message), 0),
	}, nil
}

//
// RegisterTickerHandler registers a handler to be executed whenever a ticker message is received.
//
func (o *Service) RegisterTickerHandler(handler func(*coinbasepro.Message)) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.onTickerHandlers = append(o.onTickerHandlers, handler)
}

//
// RegisterHeartbeatHandler registers a handler to be executed whenever a heartbeat message is
// received.
//
func (o *Service) RegisterHeartbeatHandler(handler func(*coinbasepro.Message)) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.onHeartbeatHandlers = append(o.onHeartbeatHandlers, handler)
}

//
// State returns the current connection state of the service.
//
func (o *Service) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.state
}

//
// Err returns the error that caused the service to shut itself down, if any.
//
func (o *Service) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.err
}

//
// Start implements the Service interface's described method.
//
func (o *Service) Start() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	//
	// (Re)initialize our instance variables.
	//
	o.chKill = make(chan bool, 1)
	o.chStopped = make(chan bool, 1)
	o.err = nil

	//
	// Fire off a goroutine as the executor for the service.
	//
	go o.service()

	chStarted := make(chan bool, 1)
	chStarted <- true

	logger.Printf("Started. (Products: %v)", aurora.Bold(o.cfg.Products))

	return chStarted, nil
}

//
// Stop implements the Service interface's described method.
//
func (o *Service) Stop() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.chKill == nil {
		return nil, errors.New("the feed service was never started")
	}

	logger.Printf("Stopping...")

	select {
	case o.chKill <- true:
	default:
	}

	return o.chStopped, nil
}

//
// service connects to the Coinbase Pro websocket feed and relays its messages until it is told to
// shut down or the feed fails.
//
func (o *Service) service() {
	if err := o.monitor(); err != nil {
		logger.Printf("%s (Error: %s)", aurora.Red("The feed has failed."), err)

		o.mu.Lock()
		o.err = err
		o.mu.Unlock()
	}

	o.setState(Disconnected)

	//
	// Send the signal that we have shut down.
	//
	o.chStopped <- true
}

func (o *Service) monitor() error {
	//
	// Connect to the Coinbase Pro websocket feed.
	//
	dialer := ws.Dialer{HandshakeTimeout: o.cfg.HandshakeTimeout}

	o.setState(Connecting)

	conn, _, err := dialer.Dial(o.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("could not connect to the websocket feed: %w", err)
	}

	o.setState(Connected)

	defer func() {
		_ = conn.WriteMessage(ws.CloseMessage, ws.FormatCloseMessage(ws.CloseNormalClosure, ""))

		if err := conn.Close(); err != nil {
			logger.Printf("Failed to close the websocket connection. (Error: %s)", err)
		}
	}()

	//
	// Subscribe to heartbeat messages and ticker messages.
	//
	subscribe := coinbasepro.Message{
		Type: "subscribe",
		Channels: []coinbasepro.MessageChannel{
			{Name: "heartbeat", ProductIds: o.cfg.Products},
			{Name: "ticker", ProductIds: o.cfg.Products},
		},
	}

	if err := conn.WriteJSON(subscribe); err != nil {
		return fmt.Errorf("could not subscribe to the websocket feed: %w", err)
	}

	//
	// Begin monitoring and processing messages. Reads happen on their own goroutine so that a kill
	// signal is never stuck behind a blocking read.
	//
	chMsg := make(chan *coinbasepro.Message)
	chErr := make(chan error, 1)
	chDone := make(chan struct{})

	defer close(chDone)

	go readMessages(conn, chMsg, chErr, chDone)

	for {
		select {
		case <-o.chKill:
			return nil

		case err := <-chErr:
			return fmt.Errorf("could not read the next message from the websocket feed: %w", err)

		case msg := <-chMsg:
			if err := o.handleMessage(msg); err != nil {
				return err
			}
		}
	}
}

func readMessages(conn *ws.Conn, chMsg chan<- *coinbasepro.Message, chErr chan<- error, chDone <-chan struct{}) {
	for {
		msg := &coinbasepro.Message{}

		if err := conn.ReadJSON(msg); err != nil {
			chErr <- err

			return
		}

		select {
		case chMsg <- msg:
		case <-chDone:
			return
		}
	}
}

func (o *Service) handleMessage(msg *coinbasepro.Message) error {
	switch msg.Type {
	case "error":
		return fmt.Errorf("the websocket feed returned an error (message: %s, reason: %s)", msg.Message, msg.Reason)

	case "subscriptions":
		if o.State() == Connected {
			o.setState(Subscribed)

			logger.Printf("Successfully subscribed to the websocket feed. (Products: %v)", o.cfg.Products)
		}

	case "heartbeat":
		o.dispatch(&o.onHeartbeatHandlers, msg)

	case "ticker":
		o.dispatch(&o.onTickerHandlers, msg)
	}

	return nil
}

func (o *Service) dispatch(handlers *[]func(*coinbasepro.Message), msg *coinbasepro.Message) {
	o.mu.Lock()
	copied := make([]func(*coinbasepro.Message), len(*handlers))
	copy(copied, *handlers)
	o.mu.Unlock()

	for _, handler := range copied {
		handler(msg)
	}
}

func (o *Service) setState(s State) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.state = s
}
