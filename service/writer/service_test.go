package writer

import (
	"encoding/csv"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestWriteProducesCSV(t *testing.T) {
	svc := New(t.TempDir())

	if err := svc.Write(time.Now(), "BTC-USD", LastPrice, decimal.NewFromInt(1)); err == nil {
		t.Errorf("Writing before starting the service should have failed, but did not.")
	}

	if _, err := svc.Start(); err != nil {
		t.Fatalf("Starting the service should have succeeded, but instead failed. (Error: %s)", err)
	}

	if _, err := svc.Start(); err == nil {
		t.Errorf("Starting the service twice should have failed, but did not.")
	}

	ts := time.Date(2021, 3, 4, 5, 6, 0, 0, time.UTC)

	rows := []struct {
		category Type
		value    string
	}{
		{LastPrice, "50000.12"},
		{BestBid, "50000.1"},
		{BestAsk, "50000.13"},
		{ClosingPrice, "49999.99"},
	}

	for _, row := range rows {
		if err := svc.Write(ts, "BTC-USD", row.category, decimal.RequireFromString(row.value)); err != nil {
			t.Errorf("Writing a %s row should have succeeded, but instead failed. (Error: %s)", row.category, err)
		}
	}

	chStopped, err := svc.Stop()
	if err != nil {
		t.Fatalf("Stopping the service should have succeeded, but instead failed. (Error: %s)", err)
	}
	<-chStopped

	f, err := os.Open(svc.Path())
	if err != nil {
		t.Fatalf("The output file should exist. (Error: %s)", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("The output file should be valid CSV. (Error: %s)", err)
	}

	if len(records) != len(rows)+1 {
		t.Fatalf("The output file should have had %d records, but instead had %d.", len(rows)+1, len(records))
	}

	if header := records[0]; header[0] != TimestampKey || header[1] != ProductKey || header[2] != CategoryKey || header[3] != ValueKey {
		t.Errorf("Unexpected header row %v.", header)
	}

	for i, row := range rows {
		record := records[i+1]

		if record[0] != "2021-03-04T05:06:00Z" || record[1] != "BTC-USD" {
			t.Errorf("Unexpected record %v.", record)
		}

		if record[2] != row.category.String() || record[3] != row.value {
			t.Errorf("Record %v should have been a %s of %s.", record, row.category, row.value)
		}
	}

	if _, err := svc.Stop(); err == nil {
		t.Errorf("Stopping the service twice should have failed, but did not.")
	}
}

func TestStartFailsWithoutDirectory(t *testing.T) {
	svc := New(t.TempDir() + "/missing/nested")

	if _, err := svc.Start(); err == nil {
		t.Errorf("Starting the service against a missing directory should have failed, but did not.")
	}
}

func TestTypeString(t *testing.T) {
	if s := ClosingPrice.String(); s != "ClosingPrice" {
		t.Errorf("ClosingPrice should print as \"ClosingPrice\", but instead printed as %q.", s)
	}

	if s := Type(9).String(); s != "Type(9)" {
		t.Errorf("An unknown type should print as \"Type(9)\", but instead printed as %q.", s)
	}
}
