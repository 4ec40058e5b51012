package ports

import "github.com/ddleblanc/hypetrade/internal/core/domain"

// RepoManager gives access to all the repositories of a storage backend and
// owns its lifecycle.
type RepoManager interface {
	// TradeRepository returns the repository persisting trades.
	TradeRepository() domain.TradeRepository
	// Close releases the underlying store.
	Close() error
}
