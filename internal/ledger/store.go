// Package ledger implements the transaction store: an insertion-ordered,
// in-memory collection of transactions backed by a persistent blob store.
// Every mutation serializes the whole sequence and overwrites the single
// stored blob; there is no partial persistence.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"tally/internal/core"
	"tally/internal/kv"
	"tally/internal/log"
)

const (
	// TransactionsKey is the blob slot holding the serialized sequence.
	TransactionsKey = "transactions"
	// CurrencyKey is the blob slot holding the active currency code.
	CurrencyKey = "currency"
)

// Store owns all transaction records exclusively. Records are only ever
// appended or removed, never reordered or edited.
type Store struct {
	mu       sync.Mutex
	blobs    kv.Store
	logger   *log.Logger
	items    []core.Transaction
	currency string
	version  uint64
}

func NewStore(blobs kv.Store) *Store {
	return &Store{
		blobs:    blobs,
		logger:   log.New(log.DefaultConfig()).WithComponent(log.ComponentLedger),
		currency: core.DefaultCurrency,
	}
}

// Load reads both persisted blobs. An absent transactions blob initializes
// an empty sequence; a malformed one is a fatal error with a diagnostic
// rather than silently discarded data. An absent currency blob falls back
// to the default code.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.blobs.Get(ctx, TransactionsKey)
	switch {
	case err == kv.ErrNotFound:
		s.items = nil
	case err != nil:
		return fmt.Errorf("read transactions blob: %w", err)
	default:
		var items []core.Transaction
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("transactions blob is corrupt (%d bytes): %w", len(raw), err)
		}
		s.items = items
	}

	cur, err := s.blobs.Get(ctx, CurrencyKey)
	switch {
	case err == kv.ErrNotFound:
		s.currency = core.DefaultCurrency
	case err != nil:
		return fmt.Errorf("read currency blob: %w", err)
	default:
		s.currency = strings.TrimSpace(string(cur))
		if s.currency == "" {
			s.currency = core.DefaultCurrency
		}
	}

	s.version++
	s.logger.InfoContext(ctx, "Ledger loaded",
		"transactions", len(s.items),
		"currency", s.currency)
	return nil
}

// Append adds a fully-constructed transaction to the end of the sequence
// and persists the full sequence.
func (s *Store) Append(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if existing.ID == tx.ID {
			return fmt.Errorf("duplicate transaction id %d", tx.ID)
		}
	}

	s.items = append(s.items, tx)
	if err := s.persistLocked(ctx); err != nil {
		// Keep the persisted blob untouched on failure; in-memory state
		// rolls back so a retry starts clean.
		s.items = s.items[:len(s.items)-1]
		return err
	}
	s.version++

	s.logger.InfoContext(ctx, "Transaction appended",
		"id", tx.ID,
		"type", tx.Type.String(),
		"amount_cents", tx.Amount.Cents,
		"category", tx.Category)
	return nil
}

// RemoveByID removes the unique record whose id matches and persists the
// sequence. A missing id is a silent no-op by design.
func (s *Store) RemoveByID(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, tx := range s.items {
		if tx.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.logger.DebugContext(ctx, "Delete of missing transaction id ignored", "id", id)
		return false, nil
	}

	removed := s.items[idx]
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	if err := s.persistLocked(ctx); err != nil {
		rest := append([]core.Transaction{}, s.items[idx:]...)
		s.items = append(append(s.items[:idx], removed), rest...)
		return false, err
	}
	s.version++

	s.logger.InfoContext(ctx, "Transaction removed", "id", id, "remaining", len(s.items))
	return true, nil
}

// All returns a copy of the ordered sequence. Callers must treat it as a
// read-only view of the store.
func (s *Store) All() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of stored transactions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Version increments on every successful load or mutation. The HTTP layer
// keys its caches on it.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Currency returns the active currency code.
func (s *Store) Currency() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currency
}

// SetCurrency replaces the active currency code and persists it. Unknown
// codes are rejected.
func (s *Store) SetCurrency(ctx context.Context, code string) error {
	if !core.ValidCurrency(code) {
		return fmt.Errorf("set currency %q: %w", code, core.ErrUnknownCurrency)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.currency
	s.currency = code
	if err := s.blobs.Set(ctx, CurrencyKey, []byte(code)); err != nil {
		s.currency = prev
		return fmt.Errorf("persist currency: %w", err)
	}
	s.version++

	s.logger.InfoContext(ctx, "Currency changed", "from", prev, "to", code)
	return nil
}

func (s *Store) persistLocked(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []core.Transaction{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal transactions: %w", err)
	}
	if err := s.blobs.Set(ctx, TransactionsKey, raw); err != nil {
		return fmt.Errorf("persist transactions: %w", err)
	}
	return nil
}
