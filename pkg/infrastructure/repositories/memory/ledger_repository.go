package memory

import (
	"fmt"

	"github.com/agriplan/procure/pkg/domain/entities"
	"github.com/agriplan/procure/pkg/domain/repositories"
)

// LedgerRepository provides in-memory price ledger storage
type LedgerRepository struct {
	entries map[entities.PriceLedgerKey]*entities.PriceLedgerEntry
	order   []entities.PriceLedgerKey
}

// NewLedgerRepository creates a new in-memory ledger repository
func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{
		entries: make(map[entities.PriceLedgerKey]*entities.PriceLedgerEntry),
	}
}

// Verify interface compliance
var _ repositories.LedgerRepository = (*LedgerRepository)(nil)

// Upsert replaces any existing entry with the same key (most-recent-wins)
func (r *LedgerRepository) Upsert(entry *entities.PriceLedgerEntry) error {
	key := entry.Key()
	if _, exists := r.entries[key]; !exists {
		r.order = append(r.order, key)
	}
	stored := *entry
	r.entries[key] = &stored
	return nil
}

// Get returns the entry for a key
func (r *LedgerRepository) Get(key entities.PriceLedgerKey) (*entities.PriceLedgerEntry, error) {
	entry, exists := r.entries[key]
	if !exists {
		return nil, fmt.Errorf("price ledger entry not found for product %s vendor %s season %d",
			key.ProductID, key.VendorID, key.SeasonYear)
	}
	copied := *entry
	return &copied, nil
}

// GetAll returns all entries in first-insertion order
func (r *LedgerRepository) GetAll() ([]*entities.PriceLedgerEntry, error) {
	entries := make([]*entities.PriceLedgerEntry, 0, len(r.order))
	for _, key := range r.order {
		copied := *r.entries[key]
		entries = append(entries, &copied)
	}
	return entries, nil
}
