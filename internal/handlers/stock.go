package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/stocksage/internal/common"
	"github.com/bobmcallan/stocksage/internal/models"
	"github.com/bobmcallan/stocksage/internal/service"
)

// StockAnalyzer is the pipeline surface the stock handler consumes.
type StockAnalyzer interface {
	Analyze(ctx context.Context, question string) (*service.AnalysisResult, error)
	Share(ctx context.Context, question string) (*service.AnalysisResult, string, error)
	GetShared(ctx context.Context, id string) (*models.Analysis, error)
}

// stockResponse is the wire shape for analysis responses. ShareID is set
// only on POST, Timestamp only on GET and share retrieval.
type stockResponse struct {
	StockData    []models.BarPoint `json:"stockData"`
	AnalysisText models.Narrative  `json:"analysisText"`
	Timestamp    string            `json:"timestamp,omitempty"`
	ShareID      string            `json:"shareId,omitempty"`
}

// stockRequest is the POST /stock body.
type stockRequest struct {
	Message string `json:"message"`
}

// StockHandler handles stock analysis requests.
type StockHandler struct {
	service StockAnalyzer
	logger  *common.Logger
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(service StockAnalyzer, logger *common.Logger) *StockHandler {
	return &StockHandler{service: service, logger: logger}
}

// HandleDefault handles GET /stock with the canned default query.
func (h *StockHandler) HandleDefault(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Analyze(r.Context(), "")
	if err != nil {
		h.logger.Error().Err(err).Msg("Default analysis failed")
		WriteError(w, ErrorStatus(err), err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, stockResponse{
		StockData:    result.StockData,
		AnalysisText: result.Narrative,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleAnalyze handles POST /stock: run the pipeline for the submitted
// message and persist the result under a fresh share ID.
func (h *StockHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		WriteError(w, http.StatusBadRequest, "message is required")
		return
	}

	h.logger.Info().Str("message", req.Message).Msg("Stock analysis requested")

	result, shareID, err := h.service.Share(r.Context(), req.Message)
	if err != nil {
		h.logger.Error().Err(err).Msg("Analysis failed")
		WriteError(w, ErrorStatus(err), err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, stockResponse{
		StockData:    result.StockData,
		AnalysisText: result.Narrative,
		ShareID:      shareID,
	})
}

// HandleShared handles GET /stock/share/{id}.
func (h *StockHandler) HandleShared(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/stock/share/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusNotFound, "share id not found")
		return
	}

	analysis, err := h.service.GetShared(r.Context(), id)
	if err != nil {
		WriteError(w, ErrorStatus(err), err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, stockResponse{
		StockData:    analysis.StockData,
		AnalysisText: analysis.AnalysisText,
		Timestamp:    analysis.CreatedAt.Format(time.RFC3339),
	})
}
