package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/stocksage/internal/common"
	"github.com/bobmcallan/stocksage/internal/models"
)

// narrativeExample is one worked demonstration for the narrative prompt.
type narrativeExample struct {
	stats  string
	output string
}

var narrativeExamples = []narrativeExample{
	{
		stats: `{"ticker": "AAPL", "current_price": 228.52, "trend": "bullish", "trend_strength": 4.12, "rsi": 62.3, "macd": 2.41, "macd_signal": 1.88, "yearly_return": 26.4, "annualized_volatility": 22.1, "sector": "Technology"}`,
		output: `{"summary": "AAPL is in a bullish trend at $228.52, up 26.4% over the window with moderate conviction.", ` +
			`"technicalFactors": ["RSI at 62.3 shows healthy momentum without overbought pressure", "MACD holds above its signal line, confirming the uptrend", "Annualized volatility of 22.1% is in line with large-cap technology peers"], ` +
			`"outlook": "Momentum favors continuation while MACD stays above its signal line; a drop below the 50-day average would weaken the case."}`,
	},
	{
		stats: `{"ticker": "MSFT", "current_price": 412.10, "trend": "bearish", "trend_strength": 2.35, "rsi": 44.8, "macd": -1.02, "macd_signal": -0.61, "yearly_return": -3.2, "annualized_volatility": 19.8, "sector": "Technology"}`,
		output: `{"summary": "MSFT shows a mild bearish trend at $412.10, off 3.2% over the window with low conviction.", ` +
			`"technicalFactors": ["RSI at 44.8 sits just below neutral, showing fading momentum", "MACD below its signal line points to near-term weakness", "Volatility near 19.8% annualized suggests an orderly pullback rather than a rout"], ` +
			`"outlook": "Weakness is shallow; a MACD cross back above its signal line would flip the picture quickly."}`,
	},
}

// Narrator turns a stats bundle into structured analysis text. The
// fundamental factor lines are rendered deterministically from the
// normalized metrics rather than generated, so they never drift from the
// numbers shown to the user.
type Narrator struct {
	client Completer
	logger *common.Logger
	system string
}

// NewNarrator builds a narrator bound to a chat client.
func NewNarrator(client Completer, logger *common.Logger) *Narrator {
	return &Narrator{
		client: client,
		logger: logger,
		system: buildNarrativePrompt(),
	}
}

func buildNarrativePrompt() string {
	var b strings.Builder
	b.WriteString("You write a concise stock analysis from computed metrics.\n")
	b.WriteString("Respond with only a JSON object: {\"summary\": \"...\", \"technicalFactors\": [\"...\"], \"outlook\": \"...\"}.\n")
	b.WriteString("summary is two sentences at most. technicalFactors is exactly three short observations grounded in the metrics. ")
	b.WriteString("outlook is one forward-looking sentence. Never invent numbers not present in the metrics.\n\n")
	for _, ex := range narrativeExamples {
		fmt.Fprintf(&b, "Metrics: %s\n%s\n\n", ex.stats, ex.output)
	}
	return b.String()
}

// Narrate generates the analysis narrative for a stats bundle.
func (n *Narrator) Narrate(ctx context.Context, stats models.Stats) (models.Narrative, error) {
	payload, err := json.Marshal(stats)
	if err != nil {
		return models.Narrative{}, fmt.Errorf("marshaling stats for narrative: %w", err)
	}

	raw, err := n.client.Complete(ctx, n.system, "Metrics: "+string(payload))
	if err != nil {
		return models.Narrative{}, err
	}

	var out struct {
		Summary          string   `json:"summary"`
		TechnicalFactors []string `json:"technicalFactors"`
		Outlook          string   `json:"outlook"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &out); err != nil {
		return models.Narrative{}, fmt.Errorf("%w: unparseable narrative output: %v", common.ErrExternalService, err)
	}
	if out.Summary == "" {
		return models.Narrative{}, fmt.Errorf("%w: empty narrative summary", common.ErrExternalService)
	}

	return models.Narrative{
		Summary:            out.Summary,
		TechnicalFactors:   out.TechnicalFactors,
		FundamentalFactors: RenderFundamentalFactors(stats.Fundamental),
		Outlook:            out.Outlook,
		Timestamp:          time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// Fallback builds a deterministic narrative from the metrics alone, used
// when the chat backend is unavailable. The response still carries real
// numbers, just without generated prose.
func Fallback(stats models.Stats) models.Narrative {
	t := stats.Technical
	return models.Narrative{
		Summary: fmt.Sprintf("%s is showing a %s trend (strength %.2f) at %s, with a %s return over the selected window.",
			t.Ticker, t.Trend, t.TrendStrength, common.FormatMoney(t.CurrentPrice), common.FormatSignedPct(t.YearlyReturn)),
		TechnicalFactors: []string{
			fmt.Sprintf("RSI at %.2f against the neutral 50 line", t.RSI),
			fmt.Sprintf("MACD at %.2f versus signal %.2f", t.MACD, t.MACDSignal),
			fmt.Sprintf("Annualized volatility of %.2f%%", t.AnnualizedVolatility),
		},
		FundamentalFactors: RenderFundamentalFactors(stats.Fundamental),
		Outlook:            "Narrative generation was unavailable for this request; the metrics above are complete.",
		Timestamp:          time.Now().UTC().Format(time.RFC3339),
	}
}

// RenderFundamentalFactors formats the known fundamental metrics as display
// lines, skipping unknowns entirely.
func RenderFundamentalFactors(f models.FundamentalSummary) []string {
	factors := make([]string, 0, 8)

	if f.MarketCap != nil {
		factors = append(factors, "Market Cap: "+common.FormatMarketCap(*f.MarketCap))
	}
	if f.Sector != "" && f.Sector != "N/A" {
		factors = append(factors, "Sector: "+f.Sector)
	}
	if f.Industry != "" && f.Industry != "N/A" {
		factors = append(factors, "Industry: "+f.Industry)
	}
	if f.TrailingPE != nil && f.ForwardPE != nil {
		factors = append(factors, fmt.Sprintf("P/E (Trailing/Forward): %.2f / %.2f", *f.TrailingPE, *f.ForwardPE))
	} else if f.TrailingPE != nil {
		factors = append(factors, fmt.Sprintf("Trailing P/E: %.2f", *f.TrailingPE))
	}
	if f.PriceToBook != nil {
		factors = append(factors, fmt.Sprintf("Price to Book: %.2f", *f.PriceToBook))
	}
	if f.Beta != nil {
		factors = append(factors, fmt.Sprintf("Beta: %.2f", *f.Beta))
	}
	if f.DividendYield != nil {
		factors = append(factors, fmt.Sprintf("Dividend Yield: %.2f%%", *f.DividendYield))
	}
	if f.TrailingEPS != nil && f.ForwardEPS != nil {
		factors = append(factors, fmt.Sprintf("EPS (Trailing/Forward): %.2f / %.2f", *f.TrailingEPS, *f.ForwardEPS))
	}
	if f.ProfitMargins != nil && f.OperatingMargins != nil {
		factors = append(factors, fmt.Sprintf("Margins (Profit/Operating): %.2f%% / %.2f%%", *f.ProfitMargins, *f.OperatingMargins))
	}

	return factors
}
