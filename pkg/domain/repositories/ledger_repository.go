package repositories

import "github.com/agriplan/procure/pkg/domain/entities"

// LedgerRepository provides access to the historical price ledger
type LedgerRepository interface {
	Get(key entities.PriceLedgerKey) (*entities.PriceLedgerEntry, error)
	GetAll() ([]*entities.PriceLedgerEntry, error)

	// Upsert replaces any existing entry with the same key (most-recent-wins)
	Upsert(entry *entities.PriceLedgerEntry) error
}
