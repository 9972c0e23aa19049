package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/stocksage/internal/common"
	"github.com/bobmcallan/stocksage/internal/models"
)

// AnalysisStorage implements interfaces.AnalysisStorage using BadgerDB.
type AnalysisStorage struct {
	db     *BadgerDB
	logger *common.Logger
}

// NewAnalysisStorage creates analysis record storage backed by BadgerDB.
func NewAnalysisStorage(db *BadgerDB, logger *common.Logger) *AnalysisStorage {
	return &AnalysisStorage{
		db:     db,
		logger: logger,
	}
}

// Save stores an analysis record under its ID. Records are write-once;
// saving an existing ID fails rather than silently overwriting a shared
// result.
func (s *AnalysisStorage) Save(_ context.Context, analysis *models.Analysis) error {
	if analysis.ID == "" {
		return fmt.Errorf("%w: analysis record has no ID", common.ErrPersistence)
	}
	if err := s.db.Store().Insert(analysis.ID, analysis); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return fmt.Errorf("%w: analysis %s already exists", common.ErrPersistence, analysis.ID)
		}
		return fmt.Errorf("%w: saving analysis %s: %v", common.ErrPersistence, analysis.ID, err)
	}
	s.logger.Debug().Str("id", analysis.ID).Msg("Analysis record saved")
	return nil
}

// Get retrieves an analysis record by ID. Unknown IDs map to ErrNotFound.
func (s *AnalysisStorage) Get(_ context.Context, id string) (*models.Analysis, error) {
	var analysis models.Analysis
	err := s.db.Store().Get(id, &analysis)
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("%w: analysis %s", common.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: loading analysis %s: %v", common.ErrPersistence, id, err)
	}
	return &analysis, nil
}
