// Package audit maintains an append-only trail of ledger mutations. The
// worker feeds it from the event queue, so the trail survives even if the
// serving process is replaced.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"tally/internal/events"
	"tally/internal/kv"
	"tally/internal/log"
)

// AuditKey is the blob slot holding the serialized trail.
const AuditKey = "audit"

// Record is one entry of the trail.
type Record struct {
	Action      string    `json:"action"`
	ID          int64     `json:"id"`
	Type        string    `json:"type,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Category    string    `json:"category,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// Recorder appends event records to the audit blob. Like the ledger, every
// write rewrites the whole blob.
type Recorder struct {
	mu     sync.Mutex
	blobs  kv.Store
	logger *log.Logger
	loaded bool
	trail  []Record
}

func NewRecorder(blobs kv.Store, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Recorder{blobs: blobs, logger: logger.WithComponent(log.ComponentAudit)}
}

// Record appends one event to the trail and persists it.
func (r *Recorder) Record(ctx context.Context, event *events.TransactionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.loadLocked(ctx); err != nil {
		return err
	}

	r.trail = append(r.trail, Record{
		Action:      event.Action,
		ID:          event.ID,
		Type:        event.Type,
		AmountCents: event.AmountCents,
		Category:    event.Category,
		OccurredAt:  event.Timestamp,
		RecordedAt:  time.Now().UTC(),
	})

	raw, err := json.Marshal(r.trail)
	if err != nil {
		r.trail = r.trail[:len(r.trail)-1]
		return fmt.Errorf("marshal audit trail: %w", err)
	}
	if err := r.blobs.Set(ctx, AuditKey, raw); err != nil {
		r.trail = r.trail[:len(r.trail)-1]
		return fmt.Errorf("persist audit trail: %w", err)
	}

	r.logger.InfoContext(ctx, "Audit record written",
		"action", event.Action,
		log.FieldTxID, event.ID,
		"trail_len", len(r.trail))
	return nil
}

// Trail returns a copy of the recorded trail.
func (r *Recorder) Trail(ctx context.Context) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.loadLocked(ctx); err != nil {
		return nil, err
	}
	out := make([]Record, len(r.trail))
	copy(out, r.trail)
	return out, nil
}

func (r *Recorder) loadLocked(ctx context.Context) error {
	if r.loaded {
		return nil
	}
	raw, err := r.blobs.Get(ctx, AuditKey)
	switch {
	case err == kv.ErrNotFound:
		r.trail = nil
	case err != nil:
		return fmt.Errorf("read audit blob: %w", err)
	default:
		if err := json.Unmarshal(raw, &r.trail); err != nil {
			return fmt.Errorf("audit blob is corrupt: %w", err)
		}
	}
	r.loaded = true
	return nil
}
