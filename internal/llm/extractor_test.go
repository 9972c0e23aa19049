package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bobmcallan/stocksage/internal/common"
)

// fakeCompleter returns canned output or a canned error.
type fakeCompleter struct {
	output string
	err    error

	lastSystem string
	lastUser   string
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string) (string, error) {
	f.lastSystem = system
	f.lastUser = user
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

func TestExtractParsesOutput(t *testing.T) {
	fake := &fakeCompleter{output: `{"symbol": "tsla", "period": "1mo", "interval": "1d"}`}
	e := NewExtractor(fake, common.NewSilentLogger())

	query, err := e.Extract(context.Background(), "Tesla this month")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if query.Symbol != "TSLA" {
		t.Errorf("symbol: got %q, want TSLA", query.Symbol)
	}
	if query.Period != "1mo" || query.Interval != "1d" {
		t.Errorf("window: got %s/%s, want 1mo/1d", query.Period, query.Interval)
	}
}

func TestExtractStripsCodeFence(t *testing.T) {
	fake := &fakeCompleter{output: "```json\n{\"symbol\": \"NVDA\", \"period\": \"5d\", \"interval\": \"1h\"}\n```"}
	e := NewExtractor(fake, common.NewSilentLogger())

	query, err := e.Extract(context.Background(), "NVDA hourly this week")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if query.Symbol != "NVDA" || query.Period != "5d" || query.Interval != "1h" {
		t.Errorf("got %+v", query)
	}
}

func TestExtractInvalidTokensFallBack(t *testing.T) {
	fake := &fakeCompleter{output: `{"symbol": "AAPL", "period": "fortnight", "interval": "decade"}`}
	e := NewExtractor(fake, common.NewSilentLogger())

	query, err := e.Extract(context.Background(), "Apple recently")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if query.Period != "1y" {
		t.Errorf("period fallback: got %q, want 1y", query.Period)
	}
	if query.Interval != "1d" {
		t.Errorf("interval fallback: got %q, want 1d", query.Interval)
	}
}

func TestExtractMissingSymbolFails(t *testing.T) {
	fake := &fakeCompleter{output: `{"symbol": "", "period": "1y", "interval": "1d"}`}
	e := NewExtractor(fake, common.NewSilentLogger())

	_, err := e.Extract(context.Background(), "what is a stock")
	if err == nil {
		t.Fatal("expected error for missing symbol")
	}
	if !errors.Is(err, common.ErrExternalService) {
		t.Errorf("expected ErrExternalService, got %v", err)
	}
}

func TestExtractUnparseableOutputFails(t *testing.T) {
	fake := &fakeCompleter{output: "I cannot help with that."}
	e := NewExtractor(fake, common.NewSilentLogger())

	_, err := e.Extract(context.Background(), "Apple")
	if !errors.Is(err, common.ErrExternalService) {
		t.Errorf("expected ErrExternalService, got %v", err)
	}
}

func TestExtractPromptCarriesExamples(t *testing.T) {
	fake := &fakeCompleter{output: `{"symbol": "AAPL", "period": "1y", "interval": "1d"}`}
	e := NewExtractor(fake, common.NewSilentLogger())

	if _, err := e.Extract(context.Background(), "Apple"); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	for _, symbol := range []string{"AAPL", "TSLA", "NVDA", "MSFT", "AMD"} {
		if !strings.Contains(fake.lastSystem, symbol) {
			t.Errorf("system prompt missing few-shot example for %s", symbol)
		}
	}
}
