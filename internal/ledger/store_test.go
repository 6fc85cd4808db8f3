package ledger

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"tally/internal/core"
	"tally/internal/kv"
	"tally/internal/kv/memory"
)

func testTx(id int64, tt core.TransactionType, cents int64, category string) core.Transaction {
	return core.Transaction{
		ID:          id,
		Description: "test",
		Amount:      core.Money{Cents: cents},
		Type:        tt,
		Category:    category,
		Date:        time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}.Normalize()
}

// failingStore wraps a real store and fails writes on demand.
type failingStore struct {
	kv.Store
	failSet bool
}

func (f *failingStore) Set(ctx context.Context, key string, value []byte) error {
	if f.failSet {
		return errors.New("disk full")
	}
	return f.Store.Set(ctx, key, value)
}

func TestLoadEmpty(t *testing.T) {
	s := NewStore(memory.New())
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty ledger, got %d", s.Len())
	}
	if s.Currency() != core.DefaultCurrency {
		t.Fatalf("currency = %q", s.Currency())
	}
}

func TestPersistLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	blobs := memory.New()

	s := NewStore(blobs)
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	txs := []core.Transaction{
		testTx(1, core.Income, 10000, "Salary"),
		testTx(2, core.Expense, 4000, "Food"),
		testTx(3, core.Refund, 1000, "Food"),
	}
	for _, tx := range txs {
		if err := s.Append(ctx, tx); err != nil {
			t.Fatalf("append %d: %v", tx.ID, err)
		}
	}
	if err := s.SetCurrency(ctx, "EUR"); err != nil {
		t.Fatalf("set currency: %v", err)
	}

	// A fresh store over the same blobs sees identical state.
	reloaded := NewStore(blobs)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reflect.DeepEqual(reloaded.All(), txs) {
		t.Fatalf("reloaded = %+v\nwant %+v", reloaded.All(), txs)
	}
	if reloaded.Currency() != "EUR" {
		t.Fatalf("currency = %q", reloaded.Currency())
	}
	// Refund magnitude was forced negative before storage.
	if got := reloaded.All()[2].Amount.Cents; got != -1000 {
		t.Fatalf("stored refund = %d", got)
	}
}

func TestCorruptBlobFailsLoad(t *testing.T) {
	ctx := context.Background()
	blobs := memory.New()
	if err := blobs.Set(ctx, TransactionsKey, []byte("{not json")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	s := NewStore(blobs)
	if err := s.Load(ctx); err == nil {
		t.Fatalf("expected error for corrupt blob")
	}
}

func TestAppendDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := NewStore(memory.New())
	if err := s.Append(ctx, testTx(7, core.Income, 100, "a")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Append(ctx, testTx(7, core.Expense, 200, "b")); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if s.Len() != 1 {
		t.Fatalf("len = %d", s.Len())
	}
}

func TestAppendRollbackOnPersistFailure(t *testing.T) {
	ctx := context.Background()
	fs := &failingStore{Store: memory.New()}
	s := NewStore(fs)
	if err := s.Append(ctx, testTx(1, core.Income, 100, "a")); err != nil {
		t.Fatalf("append: %v", err)
	}

	fs.failSet = true
	if err := s.Append(ctx, testTx(2, core.Expense, 200, "b")); err == nil {
		t.Fatalf("expected persist failure")
	}
	if s.Len() != 1 {
		t.Fatalf("in-memory state not rolled back: len = %d", s.Len())
	}
	version := s.Version()

	fs.failSet = false
	if err := s.Append(ctx, testTx(2, core.Expense, 200, "b")); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if s.Version() != version+1 {
		t.Fatalf("version = %d, want %d", s.Version(), version+1)
	}
}

func TestRemoveByID(t *testing.T) {
	ctx := context.Background()
	blobs := memory.New()
	s := NewStore(blobs)
	for _, tx := range []core.Transaction{
		testTx(1, core.Income, 100, "a"),
		testTx(2, core.Expense, 200, "b"),
		testTx(3, core.Income, 300, "c"),
	} {
		if err := s.Append(ctx, tx); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	removed, err := s.RemoveByID(ctx, 2)
	if err != nil || !removed {
		t.Fatalf("remove = %v, %v", removed, err)
	}
	ids := func() []int64 {
		var out []int64
		for _, tx := range s.All() {
			out = append(out, tx.ID)
		}
		return out
	}
	if got := ids(); !reflect.DeepEqual(got, []int64{1, 3}) {
		t.Fatalf("ids after remove = %v", got)
	}

	// Missing id is a silent no-op.
	version := s.Version()
	removed, err = s.RemoveByID(ctx, 99)
	if err != nil || removed {
		t.Fatalf("missing id: removed=%v err=%v", removed, err)
	}
	if s.Version() != version {
		t.Fatalf("no-op must not bump the version")
	}

	// Removal survives a reload.
	reloaded := NewStore(blobs)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Len() != 2 {
		t.Fatalf("reloaded len = %d", reloaded.Len())
	}
}

func TestAppendThenRemoveRestoresState(t *testing.T) {
	ctx := context.Background()
	blobs := memory.New()
	s := NewStore(blobs)
	if err := s.Append(ctx, testTx(1, core.Income, 100, "a")); err != nil {
		t.Fatalf("append: %v", err)
	}
	before := s.All()
	blobBefore, _ := blobs.Get(ctx, TransactionsKey)

	if err := s.Append(ctx, testTx(2, core.Expense, 200, "b")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := s.RemoveByID(ctx, 2); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if !reflect.DeepEqual(s.All(), before) {
		t.Fatalf("sequence changed: %+v", s.All())
	}
	blobAfter, _ := blobs.Get(ctx, TransactionsKey)
	if string(blobBefore) != string(blobAfter) {
		t.Fatalf("persisted blob changed:\n%s\n%s", blobBefore, blobAfter)
	}
}

func TestRemoveRollbackOnPersistFailure(t *testing.T) {
	ctx := context.Background()
	fs := &failingStore{Store: memory.New()}
	s := NewStore(fs)
	for _, tx := range []core.Transaction{
		testTx(1, core.Income, 100, "a"),
		testTx(2, core.Expense, 200, "b"),
		testTx(3, core.Income, 300, "c"),
	} {
		if err := s.Append(ctx, tx); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	before := s.All()

	fs.failSet = true
	removed, err := s.RemoveByID(ctx, 2)
	if err == nil || removed {
		t.Fatalf("expected persist failure, got removed=%v err=%v", removed, err)
	}
	if !reflect.DeepEqual(s.All(), before) {
		t.Fatalf("state not restored: %+v", s.All())
	}
}

func TestSetCurrencyUnknown(t *testing.T) {
	s := NewStore(memory.New())
	err := s.SetCurrency(context.Background(), "BTC")
	if !errors.Is(err, core.ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}
	if s.Currency() != core.DefaultCurrency {
		t.Fatalf("currency changed on rejection: %q", s.Currency())
	}
}

func TestCurrencyBlobWhitespace(t *testing.T) {
	ctx := context.Background()
	blobs := memory.New()
	if err := blobs.Set(ctx, CurrencyKey, []byte(" EUR\n")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	s := NewStore(blobs)
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Currency() != "EUR" {
		t.Fatalf("currency = %q", s.Currency())
	}
}
