package inmemory

import (
	"sync"

	"github.com/ddleblanc/hypetrade/internal/core/domain"
	"github.com/ddleblanc/hypetrade/internal/core/ports"
)

type tradeInmemoryStore struct {
	trades         map[string]domain.Trade
	tradesByParty  map[string][]string
	insertionOrder []string
	locker         *sync.Mutex
}

type repoManager struct {
	tradeRepository domain.TradeRepository
}

// NewRepoManager returns a volatile, mutex-guarded storage backend. Useful
// for tests and local development.
func NewRepoManager() ports.RepoManager {
	store := &tradeInmemoryStore{
		trades:         map[string]domain.Trade{},
		tradesByParty:  map[string][]string{},
		insertionOrder: make([]string, 0),
		locker:         &sync.Mutex{},
	}
	return &repoManager{
		tradeRepository: NewTradeRepositoryImpl(store),
	}
}

func (m *repoManager) TradeRepository() domain.TradeRepository {
	return m.tradeRepository
}

func (m *repoManager) Close() error {
	return nil
}
