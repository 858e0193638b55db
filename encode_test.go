package folio

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	sold := funded(t, 1000)
	sold = must(sold.BuyStock("AAPL", Q(2), USD(100), jan(10)))
	sold = must(sold.BuyStock("MSFT", Q(0.5), USD(33.33), jan(11)))
	sold = must(sold.ApplyQuotes(Quotes{"AAPL": dec(123.45)}))
	sold = must(sold.SellStock(sold.Holdings()[0].ID, Q(1), USD(150), jan(20)))
	sold = must(sold.SetInitialCash(USD(900)))

	tests := []struct {
		name string
		p    Portfolio
	}{
		{name: "empty", p: New("USD")},
		{name: "empty euro", p: New("EUR")},
		{name: "funded", p: funded(t, 1000)},
		{name: "holdings", p: sold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := EncodeSnapshot(&buf, tt.p); err != nil {
				t.Fatalf("EncodeSnapshot() error = %v", err)
			}
			got, err := DecodeSnapshot(&buf)
			if err != nil {
				t.Fatalf("DecodeSnapshot() error = %v", err)
			}
			if !got.Equal(tt.p) {
				t.Errorf("DecodeSnapshot() = %v, want %v", got, tt.p)
			}
			// holding dates must survive too.
			for i, h := range got.Holdings() {
				if want := tt.p.Holdings()[i].PurchaseDate; h.PurchaseDate != want {
					t.Errorf("PurchaseDate = %v, want %v", h.PurchaseDate, want)
				}
			}
		})
	}
}

func TestSnapshotFieldNames(t *testing.T) {
	p := funded(t, 1000)
	p = must(p.BuyStock("AAPL", Q(1), USD(100), jan(10)))
	p = must(p.ApplyQuotes(Quotes{"AAPL": dec(120)}))

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, key := range []string{"currency", "version", "initialCash", "remainingCash", "stocks", "totalPortfolioValue", "totalUnrealizedGainLoss", "totalRealizedGainLoss", "totalPortfolioPerformance"} {
		if _, ok := got[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
	if got["totalPortfolioValue"] != 120.0 {
		t.Errorf("totalPortfolioValue = %v, want 120", got["totalPortfolioValue"])
	}
	stock := got["stocks"].([]any)[0].(map[string]any)
	if stock["purchaseDate"] != "2025-01-10" {
		t.Errorf("purchaseDate = %v, want %q", stock["purchaseDate"], "2025-01-10")
	}
	if stock["unrealizedGainLoss"] != 20.0 {
		t.Errorf("unrealizedGainLoss = %v, want 20", stock["unrealizedGainLoss"])
	}
}

// a backup saved by the browser version of the application: no currency, no
// version and timestamps as dates.
const legacyBackup = `{
  "initialCash": 1000,
  "remainingCash": 800,
  "stocks": [
    {
      "id": "1736500000000",
      "ticker": "aapl",
      "shares": 2,
      "pricePerShare": 100,
      "costBasis": 200,
      "purchaseDate": "2025-01-10T00:00:00.000Z",
      "currentPrice": 120,
      "marketValue": 999,
      "unrealizedGainLoss": 999
    },
    {
      "id": "1736500000001",
      "ticker": "MSFT",
      "shares": 1,
      "pricePerShare": 50,
      "costBasis": 50,
      "purchaseDate": "2025-01-11T00:00:00.000Z"
    }
  ],
  "totalPortfolioValue": 999,
  "totalUnrealizedGainLoss": 999,
  "totalRealizedGainLoss": 12.5,
  "totalPortfolioPerformance": 0
}`

func TestDecodeSnapshot_Legacy(t *testing.T) {
	p, err := DecodeSnapshot(strings.NewReader(legacyBackup))
	if err != nil {
		t.Fatalf("DecodeSnapshot() error = %v", err)
	}
	if p.Currency() != DefaultCurrency {
		t.Errorf("Currency() = %q, want %q", p.Currency(), DefaultCurrency)
	}
	if p.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", p.Len())
	}
	aapl, msft := p.Holdings()[0], p.Holdings()[1]
	if aapl.Ticker != "AAPL" {
		t.Errorf("Ticker = %q, want %q", aapl.Ticker, "AAPL")
	}
	if aapl.PurchaseDate != jan(10) {
		t.Errorf("PurchaseDate = %v, want %v", aapl.PurchaseDate, jan(10))
	}
	if msft.IsPriced() {
		t.Errorf("MSFT Price = %v, want unpriced", msft.Price)
	}
	// derived values are recomputed, not trusted.
	if got, want := p.TotalPortfolioValue(), USD(240); !got.Equal(want) {
		t.Errorf("TotalPortfolioValue() = %v, want %v", got, want)
	}
	if got, want := p.TotalUnrealizedGainLoss(), USD(40); !got.Equal(want) {
		t.Errorf("TotalUnrealizedGainLoss() = %v, want %v", got, want)
	}
	if got, want := p.TotalRealizedGainLoss(), USD(12.5); !got.Equal(want) {
		t.Errorf("TotalRealizedGainLoss() = %v, want %v", got, want)
	}
}

func TestDecodeSnapshot_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: `portfolio`},
		{name: "bad number", data: `{"initialCash":"lots"}`},
		{name: "bad date", data: `{"stocks":[{"id":"a","ticker":"A","shares":1,"pricePerShare":1,"costBasis":1,"purchaseDate":"yesterday"}]}`},
		{name: "negative cash", data: `{"initialCash":10,"remainingCash":-1}`},
		{name: "duplicate id", data: `{"stocks":[{"id":"a","ticker":"A","shares":1,"pricePerShare":1,"costBasis":1},{"id":"a","ticker":"B","shares":1,"pricePerShare":1,"costBasis":1}]}`},
		{name: "zero shares", data: `{"stocks":[{"id":"a","ticker":"A","shares":0,"pricePerShare":1,"costBasis":1}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeSnapshot(strings.NewReader(tt.data)); err == nil {
				t.Errorf("DecodeSnapshot(%s) succeeded, want an error", tt.data)
			}
		})
	}
}
