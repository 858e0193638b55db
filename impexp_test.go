package folio

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteCSV(t *testing.T) {
	p := funded(t, 1000)
	p = must(p.BuyStock("AAPL", Q(2), USD(100), jan(10)))
	p = must(p.BuyStock("MSFT", Q(1), USD(33.333), jan(11)))
	p = must(p.ApplyQuotes(Quotes{"AAPL": dec(120)}))

	var buf bytes.Buffer
	if err := WriteCSV(&buf, p); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	want := strings.Join([]string{
		"Ticker,Shares,Cost Per Share,Total Cost,Current Price,Market Value,Unrealized Gain/Loss %,Purchase Date",
		"AAPL,2.00,100.00,200.00,120.00,240.00,20.00%,2025-01-10",
		"MSFT,1.00,33.33,33.33,0.00,0.00,0.00%,2025-01-11",
		"",
		"Portfolio Summary",
		"",
		"Initial Cash,1000.00",
		"Remaining Cash,766.67",
		"Total Invested,233.33",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("WriteCSV() =\n%s\nwant\n%s", got, want)
	}
}

func TestBackup(t *testing.T) {
	p := funded(t, 1000)
	p = must(p.BuyStock("AAPL", Q(2), USD(100), jan(10)))
	p = must(p.ApplyQuotes(Quotes{"AAPL": dec(120)}))

	var buf bytes.Buffer
	if err := WriteBackup(&buf, p); err != nil {
		t.Fatalf("WriteBackup() error = %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"initialCash\": 1000,\n") {
		t.Errorf("WriteBackup() is not indented:\n%s", buf.String())
	}
	got, err := ReadBackup(&buf)
	if err != nil {
		t.Fatalf("ReadBackup() error = %v", err)
	}
	if !got.Equal(p) {
		t.Errorf("ReadBackup() = %v, want %v", got, p)
	}
}
