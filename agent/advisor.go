package agent

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/folio"
	"github.com/etnz/folio/docs"
	"github.com/etnz/folio/renderer"
	"google.golang.org/genai"
)

// Snapshotter gives access to the current portfolio, typically a *folio.Tracker.
type Snapshotter interface {
	Snapshot() folio.Portfolio
}

// NewAdvisor returns an agent whose experts are an analyst of the portfolio
// in s and a trader.
func NewAdvisor(w io.Writer, r io.Reader, s Snapshotter, model string) *Agent {
	return New(w, r, model, NewAnalyst(s, model), NewTrader(model))
}

func instruction(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: text}}}
}

// creates the facilitator
func newFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: instruction(`
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They keep context of your previous questions.

			The user holds a small stock portfolio and comes primarily to understand how it performs
			and to get news about the companies they hold. Always check the portfolio first,
			the user assumes you know their tickers.

			Never tell the user to buy or sell, describe facts and figures. Answer in markdown.
		`),
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader returns an expert of markets, grounded on Google Search.
func NewTrader(model string) *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader, aware of the latest news about companies and markets.
		Ask the Trader whenever you need recent or grounding information about a ticker.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: instruction(`
			You are an expert in trading, you can search and find about anything related to
			companies, markets and stock exchanges. Leverage Google Search to ground your
			assertions, and relate the latest news to the question you are asked.
			`),
		},
	}
}

// NewAnalyst returns an expert that reads the portfolio in s.
func NewAnalyst(s Snapshotter, model string) *Expert {
	lib := PortfolioFunctions(s)
	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst, in charge of the user's portfolio.
		Ask the Analyst about cash, holdings, cost basis, market value and gains,
		or how to record them with pcs.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: instruction(`
			You are the analyst of the user's stock portfolio. Use the Tools to read it, never guess a figure.
			Unpriced holdings have no market value yet, say so instead of computing one.
			`),
		},
		Library: NewLibrary(lib),
	}
}

// PortfolioFunctions returns the functions reading the portfolio in s.
func PortfolioFunctions(s Snapshotter) []*Func {
	return []*Func{
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "portfolio_summary",
				Description: "Returns the portfolio figures (cash, invested, market value, gains) and its holdings as markdown.",
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "A markdown report of the portfolio.",
				},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				return renderer.SummaryMarkdown(s.Snapshot()), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "holdings_of",
				Description: "Returns the holdings of a single ticker, one row per purchase.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"ticker": {
							Type:        genai.TypeString,
							Description: "The stock ticker, like AAPL.",
						},
					},
					Required: []string{"ticker"},
				},
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "A markdown table of the holdings.",
				},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				ticker, err := stringArg(args, "ticker")
				if err != nil {
					return "", err
				}
				ticker = strings.ToUpper(strings.TrimSpace(ticker))
				var hs []folio.Holding
				for _, h := range s.Snapshot().Holdings() {
					if h.Ticker == ticker {
						hs = append(hs, h)
					}
				}
				if len(hs) == 0 {
					return "", fmt.Errorf("no holding of %s in the portfolio", ticker)
				}
				return renderer.HoldingsTable(hs), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "pcs_manual",
				Description: "Returns the user manual of pcs, the command line the user records their portfolio with.",
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "The manual, as markdown.",
				},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				return docs.GetTopic("*")
			},
		},
	}
}
