package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bobmcallan/stocksage/internal/common"
	"github.com/bobmcallan/stocksage/internal/models"
)

const (
	defaultPeriod   = "1y"
	defaultInterval = "1d"
)

// extractionExample is one worked demonstration baked into the extraction
// prompt.
type extractionExample struct {
	Question string
	Symbol   string
	Period   string
	Interval string
}

var extractionExamples = []extractionExample{
	{"How has Apple stock performed over the last year?", "AAPL", "1y", "1d"},
	{"Show me Tesla's daily movement this month", "TSLA", "1mo", "1d"},
	{"NVDA hourly over the past week", "NVDA", "5d", "1h"},
	{"What's the six month trend for Microsoft?", "MSFT", "6mo", "1d"},
	{"AMD minute by minute today", "AMD", "1d", "1m"},
}

// Extractor turns a natural-language question into a structured query. The
// few-shot prompt is assembled once at construction.
type Extractor struct {
	client Completer
	logger *common.Logger
	system string
}

// NewExtractor builds an extractor bound to a chat client.
func NewExtractor(client Completer, logger *common.Logger) *Extractor {
	return &Extractor{
		client: client,
		logger: logger,
		system: buildExtractionPrompt(),
	}
}

func buildExtractionPrompt() string {
	var b strings.Builder
	b.WriteString("You extract stock query parameters from a user question.\n")
	b.WriteString("Respond with only a JSON object: {\"symbol\": \"...\", \"period\": \"...\", \"interval\": \"...\"}.\n")
	b.WriteString("symbol is the uppercase ticker. ")
	b.WriteString("period is one of 1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max. ")
	b.WriteString("interval is one of 1m, 5m, 15m, 30m, 1h, 1d, 1wk, 1mo.\n")
	b.WriteString("When the question does not state a timeframe, use period 1y and interval 1d.\n\n")
	for _, ex := range extractionExamples {
		fmt.Fprintf(&b, "Question: %s\n{\"symbol\": %q, \"period\": %q, \"interval\": %q}\n\n",
			ex.Question, ex.Symbol, ex.Period, ex.Interval)
	}
	return b.String()
}

// Extract resolves {symbol, period, interval} from a question. Invalid
// period or interval tokens in the model output are replaced by the 1y/1d
// defaults rather than failing the request; a missing symbol is an error.
func (e *Extractor) Extract(ctx context.Context, question string) (models.ExtractedQuery, error) {
	raw, err := e.client.Complete(ctx, e.system, "Question: "+question)
	if err != nil {
		return models.ExtractedQuery{}, err
	}

	var query models.ExtractedQuery
	if err := json.Unmarshal([]byte(stripFences(raw)), &query); err != nil {
		return models.ExtractedQuery{}, fmt.Errorf("%w: unparseable extraction output: %v", common.ErrExternalService, err)
	}

	query.Symbol = strings.ToUpper(strings.TrimSpace(query.Symbol))
	if query.Symbol == "" {
		return models.ExtractedQuery{}, fmt.Errorf("%w: no ticker symbol in extraction output", common.ErrExternalService)
	}

	if !models.ValidPeriods[query.Period] {
		e.logger.Debug().Str("period", query.Period).Msg("Invalid period extracted, using default")
		query.Period = defaultPeriod
	}
	if !models.ValidIntervals[query.Interval] {
		e.logger.Debug().Str("interval", query.Interval).Msg("Invalid interval extracted, using default")
		query.Interval = defaultInterval
	}

	return query, nil
}

// stripFences removes a markdown code fence if the model wrapped its JSON
// in one.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
