package writer

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lukehollenback/cbpro/constants"
	"github.com/shopspring/decimal"
)

const (
	Name         = "≪writer-service≫"
	FileName     = "cbpro.csv"
	TimestampKey = "Timestamp"
	ProductKey   = "Product"
	CategoryKey  = "Category"
	ValueKey     = "Value"
)

var (
	o      *Service
	once   sync.Once
	logger *log.Logger

	errNotStarted = errors.New("the writer service has not been started")

	cfgOutputDir *string
)

func init() {
	//
	// Initialize the logger.
	//
	logger = log.New(log.Writer(), fmt.Sprintf(constants.LogPrefixFmt, Name), log.Ldate|log.Ltime|log.Lmsgprefix)

	//
	// Determine the current working directory. If that cannot be done for some reason, we are in a
	// critical failure state.
	//
	workingDir, err := os.Getwd()
	if err != nil {
		logger.Fatalf("Failed to determine the current working directory. (Error: %s)", err)
	}

	//
	// Register configuration flags.
	//
	cfgOutputDir = flag.String(
		"writer-dir",
		workingDir,
		fmt.Sprintf("The directory the %s should output CSV files with market data to.", Name),
	)
}

//
// Service represents a CSV writer service instance.
//
type Service struct {
	mu         *sync.Mutex
	chKill     chan bool
	chStopped  chan bool
	outputDir  string
	outputFile *os.File
	writer     *csv.Writer
}

//
// Instance returns a singleton instance of the service that writes to the directory named by the
// "-writer-dir" flag.
//
func Instance() *Service {
	once.Do(func() {
		o = New(*cfgOutputDir)
	})

	return o
}

//
// New instantiates a service that writes to the specified directory.
//
func New(outputDir string) *Service {
	return &Service{
		mu:        &sync.Mutex{},
		outputDir: outputDir,
	}
}

//
// Path returns the path of the CSV file the service writes to.
//
func (o *Service) Path() string {
	return filepath.Join(o.outputDir, FileName)
}

//
// Start implements the Service interface's described method. The output file is (re)created and
// its header row is written.
//
func (o *Service) Start() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.writer != nil {
		return nil, errors.New("the writer service is already running")
	}

	//
	// Create the output CSV file.
	//
	outputFile, err := os.Create(o.Path())
	if err != nil {
		return nil, fmt.Errorf("failed to create the output file: %w", err)
	}

	logger.Printf("Outputting CSV to %s.", o.Path())

	//
	// Create the CSV writer and use it to write out the header row.
	//
	o.outputFile = outputFile
	o.writer = csv.NewWriter(o.outputFile)

	if err := o.writer.Write([]string{TimestampKey, ProductKey, CategoryKey, ValueKey}); err != nil {
		_ = o.outputFile.Close()
		o.writer = nil

		return nil, fmt.Errorf("failed to write the header row: %w", err)
	}

	//
	// (Re)initialize our instance variables and fire off a goroutine as the executor for the
	// service.
	//
	o.chKill = make(chan bool, 1)
	o.chStopped = make(chan bool, 1)

	go o.service(o.chKill, o.chStopped)

	chStarted := make(chan bool, 1)
	chStarted <- true

	logger.Printf("Started.")

	return chStarted, nil
}

//
// Stop implements the Service interface's described method.
//
func (o *Service) Stop() (<-chan bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.chKill == nil {
		return nil, errNotStarted
	}

	logger.Printf("Stopping...")

	o.chKill <- true
	o.chKill = nil

	return o.chStopped, nil
}

//
// Write writes out a single data point. Rows are buffered and flushed on shutdown.
//
func (o *Service) Write(timestamp time.Time, product string, category Type, value decimal.Decimal) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.writer == nil {
		return errNotStarted
	}

	return o.writer.Write([]string{
		timestamp.UTC().Format(time.RFC3339),
		product,
		category.String(),
		value.String(),
	})
}

//
// service yields until it is told to shut down and then flushes and closes the output file.
//
func (o *Service) service(chKill <-chan bool, chStopped chan<- bool) {
	<-chKill

	o.mu.Lock()

	//
	// Flush the CSV writer's buffer to the output file and close the handle on it.
	//
	o.writer.Flush()

	if err := o.writer.Error(); err != nil {
		logger.Printf("Failed to flush the output file. (Error: %s)", err)
	}

	if err := o.outputFile.Close(); err != nil {
		logger.Printf("Failed to close handle on output file. (Error: %s)", err)
	}

	o.writer = nil
	o.outputFile = nil

	o.mu.Unlock()

	//
	// Send the signal that we have shut down.
	//
	chStopped <- true
}
