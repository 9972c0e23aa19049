package badger

import (
	"github.com/bobmcallan/stocksage/internal/common"
	"github.com/bobmcallan/stocksage/internal/config"
	"github.com/bobmcallan/stocksage/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger.
type Manager struct {
	db       *BadgerDB
	analyses interfaces.AnalysisStorage
	logger   *common.Logger
}

// NewManager creates a new Badger storage manager.
func NewManager(logger *common.Logger, cfg *config.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, cfg)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:       db,
		analyses: NewAnalysisStorage(db, logger),
		logger:   logger,
	}

	logger.Debug().Msg("Badger storage manager initialized")

	return manager, nil
}

// AnalysisStorage returns the shared analysis storage interface.
func (m *Manager) AnalysisStorage() interfaces.AnalysisStorage {
	return m.analyses
}

// DB returns the underlying database connection.
func (m *Manager) DB() interface{} {
	if m.db != nil {
		return m.db.Store()
	}
	return nil
}

// Close closes the database connection.
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
