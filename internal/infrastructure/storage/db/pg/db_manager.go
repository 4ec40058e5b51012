package postgresdb

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ddleblanc/hypetrade/internal/core/domain"
	"github.com/ddleblanc/hypetrade/internal/core/ports"
)

type repoManager struct {
	db              *gorm.DB
	tradeRepository domain.TradeRepository
}

// NewRepoManager opens a postgres-backed storage backend with the given
// connection string and migrates the schema.
func NewRepoManager(connectionString string) (ports.RepoManager, error) {
	db, err := gorm.Open(postgres.Open(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening postgres db: %w", err)
	}

	if err := db.AutoMigrate(&tradeRow{}); err != nil {
		return nil, fmt.Errorf("migrating trades schema: %w", err)
	}

	return &repoManager{
		db:              db,
		tradeRepository: NewTradeRepositoryImpl(db),
	}, nil
}

func (m *repoManager) TradeRepository() domain.TradeRepository {
	return m.tradeRepository
}

func (m *repoManager) Close() error {
	sqlDb, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDb.Close()
}
