package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/stocksage/internal/common"
	"github.com/bobmcallan/stocksage/internal/models"
	"github.com/bobmcallan/stocksage/internal/service"
)

// stubAnalyzer is a canned StockAnalyzer for handler tests.
type stubAnalyzer struct {
	result   *service.AnalysisResult
	shareID  string
	analysis *models.Analysis
	err      error

	lastQuestion string
	lastShareID  string
}

func (s *stubAnalyzer) Analyze(_ context.Context, question string) (*service.AnalysisResult, error) {
	s.lastQuestion = question
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubAnalyzer) Share(_ context.Context, question string) (*service.AnalysisResult, string, error) {
	s.lastQuestion = question
	if s.err != nil {
		return nil, "", s.err
	}
	return s.result, s.shareID, nil
}

func (s *stubAnalyzer) GetShared(_ context.Context, id string) (*models.Analysis, error) {
	s.lastShareID = id
	if s.err != nil {
		return nil, s.err
	}
	return s.analysis, nil
}

func stubResult() *service.AnalysisResult {
	return &service.AnalysisResult{
		Query: models.ExtractedQuery{Symbol: "AAPL", Period: "1y", Interval: "1d"},
		StockData: []models.BarPoint{
			{Date: "2026-09-01", Price: 228.52, Volume: 39000000, RSI: 62.3},
		},
		Narrative: models.Narrative{
			Summary:   "AAPL looks strong.",
			Outlook:   "Up.",
			Timestamp: "2026-09-01T10:00:00Z",
		},
	}
}

func TestStockHandleDefault(t *testing.T) {
	stub := &stubAnalyzer{result: stubResult()}
	h := NewStockHandler(stub, common.NewSilentLogger())

	req := httptest.NewRequest("GET", "/stock", nil)
	rec := httptest.NewRecorder()
	h.HandleDefault(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}

	var resp struct {
		StockData    []models.BarPoint `json:"stockData"`
		AnalysisText models.Narrative  `json:"analysisText"`
		Timestamp    string            `json:"timestamp"`
		ShareID      string            `json:"shareId"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(resp.StockData) != 1 {
		t.Errorf("stockData: got %d bars", len(resp.StockData))
	}
	if resp.AnalysisText.Summary != "AAPL looks strong." {
		t.Errorf("analysisText: got %q", resp.AnalysisText.Summary)
	}
	if resp.Timestamp == "" {
		t.Error("timestamp must be set on GET")
	}
	if resp.ShareID != "" {
		t.Error("shareId must be absent on GET")
	}
	if stub.lastQuestion != "" {
		t.Errorf("default route must pass empty question, got %q", stub.lastQuestion)
	}
}

func TestStockHandleAnalyze(t *testing.T) {
	stub := &stubAnalyzer{result: stubResult(), shareID: "share-123"}
	h := NewStockHandler(stub, common.NewSilentLogger())

	body := strings.NewReader(`{"message": "How is Apple doing?"}`)
	req := httptest.NewRequest("POST", "/stock", body)
	rec := httptest.NewRecorder()
	h.HandleAnalyze(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	var resp map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	var shareID string
	json.Unmarshal(resp["shareId"], &shareID)
	if shareID != "share-123" {
		t.Errorf("shareId: got %q", shareID)
	}
	if stub.lastQuestion != "How is Apple doing?" {
		t.Errorf("question: got %q", stub.lastQuestion)
	}
}

func TestStockHandleAnalyzeValidation(t *testing.T) {
	stub := &stubAnalyzer{result: stubResult()}
	h := NewStockHandler(stub, common.NewSilentLogger())

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"invalid json", "{not json"},
		{"missing message", `{}`},
		{"blank message", `{"message": "   "}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/stock", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.HandleAnalyze(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", rec.Code)
			}
		})
	}
}

func TestStockPipelineErrorStatus(t *testing.T) {
	stub := &stubAnalyzer{err: fmt.Errorf("%w: AAPL", common.ErrNoData)}
	h := NewStockHandler(stub, common.NewSilentLogger())

	req := httptest.NewRequest("GET", "/stock", nil)
	rec := httptest.NewRecorder()
	h.HandleDefault(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "AAPL") {
		t.Errorf("error message should be descriptive, got %q", rec.Body.String())
	}
}

func TestStockHandleShared(t *testing.T) {
	stub := &stubAnalyzer{analysis: &models.Analysis{
		ID:        "share-123",
		StockData: stubResult().StockData,
		AnalysisText: models.Narrative{
			Summary: "Persisted summary.",
		},
		CreatedAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}}
	h := NewStockHandler(stub, common.NewSilentLogger())

	req := httptest.NewRequest("GET", "/stock/share/share-123", nil)
	rec := httptest.NewRecorder()
	h.HandleShared(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if stub.lastShareID != "share-123" {
		t.Errorf("share id: got %q", stub.lastShareID)
	}

	var resp struct {
		AnalysisText models.Narrative `json:"analysisText"`
		Timestamp    string           `json:"timestamp"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AnalysisText.Summary != "Persisted summary." {
		t.Errorf("analysisText: got %q", resp.AnalysisText.Summary)
	}
	if resp.Timestamp != "2026-09-01T10:00:00Z" {
		t.Errorf("timestamp: got %q", resp.Timestamp)
	}
}

func TestStockHandleSharedNotFound(t *testing.T) {
	stub := &stubAnalyzer{err: fmt.Errorf("%w: analysis nope", common.ErrNotFound)}
	h := NewStockHandler(stub, common.NewSilentLogger())

	req := httptest.NewRequest("GET", "/stock/share/nope", nil)
	rec := httptest.NewRecorder()
	h.HandleShared(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestStockHandleSharedEmptyID(t *testing.T) {
	stub := &stubAnalyzer{}
	h := NewStockHandler(stub, common.NewSilentLogger())

	req := httptest.NewRequest("GET", "/stock/share/", nil)
	rec := httptest.NewRecorder()
	h.HandleShared(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
	if stub.lastShareID != "" {
		t.Errorf("empty id must not hit storage, got %q", stub.lastShareID)
	}
}

func TestStockHandleSharedMethodNotAllowed(t *testing.T) {
	h := NewStockHandler(&stubAnalyzer{}, common.NewSilentLogger())

	req := httptest.NewRequest("POST", "/stock/share/abc", nil)
	rec := httptest.NewRecorder()
	h.HandleShared(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rec.Code)
	}
}
