package interfaces

import (
	"context"

	"github.com/bobmcallan/stocksage/internal/models"
)

// StorageManager provides access to domain-specific storage interfaces.
// Implementations can be swapped (BadgerDB now, centralised DB later).
type StorageManager interface {
	AnalysisStorage() AnalysisStorage
	DB() interface{}
	Close() error
}

// AnalysisStorage persists shared analysis records. Records are immutable
// once saved; there is no update or delete surface.
type AnalysisStorage interface {
	Save(ctx context.Context, analysis *models.Analysis) error
	Get(ctx context.Context, id string) (*models.Analysis, error)
}
