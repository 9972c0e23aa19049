// Package service orchestrates the analysis pipeline: query extraction,
// market data, indicators, trend, fundamentals, narrative, persistence.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/stocksage/internal/common"
	"github.com/bobmcallan/stocksage/internal/fundamental"
	"github.com/bobmcallan/stocksage/internal/indicator"
	"github.com/bobmcallan/stocksage/internal/interfaces"
	"github.com/bobmcallan/stocksage/internal/llm"
	"github.com/bobmcallan/stocksage/internal/models"
)

// DefaultQuestion is the canned query used when no message is supplied.
const DefaultQuestion = "Show me Apple stock"

// MarketData is the market-provider surface the pipeline consumes.
type MarketData interface {
	FetchHistory(ctx context.Context, symbol, interval string) (*models.Series, error)
	FetchFundamentals(ctx context.Context, symbol string) (map[string]interface{}, error)
}

// QueryInterpreter maps free text to a structured query.
type QueryInterpreter interface {
	Extract(ctx context.Context, question string) (models.ExtractedQuery, error)
}

// NarrativeGenerator maps computed stats to analysis text.
type NarrativeGenerator interface {
	Narrate(ctx context.Context, stats models.Stats) (models.Narrative, error)
}

// AnalysisResult is one completed pipeline run, not yet persisted.
type AnalysisResult struct {
	Query     models.ExtractedQuery
	StockData []models.BarPoint
	Stats     models.Stats
	Narrative models.Narrative
}

// StockService runs the analysis pipeline and manages shared records.
type StockService struct {
	market    MarketData
	extractor QueryInterpreter
	narrator  NarrativeGenerator
	storage   interfaces.StorageManager
	logger    *common.Logger
	now       func() time.Time
}

// NewStockService wires the pipeline dependencies.
func NewStockService(market MarketData, extractor QueryInterpreter, narrator NarrativeGenerator, storage interfaces.StorageManager, logger *common.Logger) *StockService {
	return &StockService{
		market:    market,
		extractor: extractor,
		narrator:  narrator,
		storage:   storage,
		logger:    logger,
		now:       time.Now,
	}
}

// Analyze runs the full pipeline for a free-text question.
//
// Fundamentals and narrative generation degrade gracefully: a failed
// fundamentals fetch yields an all-unknown record and a failed narrative
// call yields a deterministic metrics-only narrative. Market data and
// indicator failures abort the request.
func (s *StockService) Analyze(ctx context.Context, question string) (*AnalysisResult, error) {
	if question == "" {
		question = DefaultQuestion
	}

	query, err := s.extractor.Extract(ctx, question)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("symbol", query.Symbol).
		Str("period", query.Period).
		Str("interval", query.Interval).
		Msg("Running stock analysis")

	series, err := s.market.FetchHistory(ctx, query.Symbol, query.Interval)
	if err != nil {
		return nil, err
	}

	computed, err := indicator.Compute(series)
	if err != nil {
		return nil, err
	}
	trimmed := indicator.Trim(computed, query.Period, s.now())

	summary := indicator.Summarize(trimmed)
	verdict := indicator.Classify(summary)
	summary.Trend = verdict.Label
	summary.TrendStrength = verdict.Strength

	raw, err := s.market.FetchFundamentals(ctx, query.Symbol)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", query.Symbol).Msg("Fundamentals unavailable, continuing without")
		raw = nil
	}

	stats := models.Stats{
		Technical:   summary.Rounded(),
		Fundamental: fundamental.Normalize(raw),
	}

	narrative, err := s.narrator.Narrate(ctx, stats)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", query.Symbol).Msg("Narrative generation failed, using metrics-only fallback")
		narrative = llm.Fallback(stats)
	}

	return &AnalysisResult{
		Query:     query,
		StockData: trimmed.Points(),
		Stats:     stats,
		Narrative: narrative,
	}, nil
}

// Share runs the pipeline and persists the result under a new opaque
// identifier. The stored record is immutable.
func (s *StockService) Share(ctx context.Context, question string) (*AnalysisResult, string, error) {
	result, err := s.Analyze(ctx, question)
	if err != nil {
		return nil, "", err
	}

	analysis := &models.Analysis{
		ID:                 uuid.NewString(),
		StockData:          result.StockData,
		TechnicalMetrics:   result.Stats.Technical,
		FundamentalMetrics: result.Stats.Fundamental,
		AnalysisText:       result.Narrative,
		CreatedAt:          s.now().UTC(),
	}

	if err := s.storage.AnalysisStorage().Save(ctx, analysis); err != nil {
		return nil, "", err
	}

	s.logger.Info().Str("id", analysis.ID).Str("symbol", result.Query.Symbol).Msg("Analysis shared")
	return result, analysis.ID, nil
}

// GetShared retrieves a previously shared analysis record.
func (s *StockService) GetShared(ctx context.Context, id string) (*models.Analysis, error) {
	return s.storage.AnalysisStorage().Get(ctx, id)
}
