// Package app hosts the application controller: the single owner of the
// ledger store, the active chart handles, and the event publisher. User
// actions (submit, delete, currency change) run synchronously to
// completion, one at a time; there is no pending state.
package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"tally/internal/charts"
	"tally/internal/core"
	"tally/internal/events"
	"tally/internal/ledger"
	"tally/internal/log"
)

// Publisher sends transaction lifecycle events. Publishing is best-effort;
// a nil Publisher disables it.
type Publisher interface {
	Publish(ctx context.Context, event *events.TransactionEvent) error
}

// SubmitInput carries the raw form fields of a submission. Amount is kept
// as entered so parsing failures can be rejected at this boundary.
type SubmitInput struct {
	Description string
	Amount      string
	Type        string
	Category    string
}

// Row is one line of the transaction list view.
type Row struct {
	ID          int64
	Description string
	Category    string
	Type        string
	Amount      string
}

// View is a consistent snapshot of everything the page re-renders after a
// user action.
type View struct {
	Currency string
	Balance  core.BalanceView
	Rows     []Row
	Version  uint64
}

type Controller struct {
	// mu preserves the one-handler-at-a-time execution model even when
	// actions arrive over concurrent HTTP requests.
	mu        sync.Mutex
	store     *ledger.Store
	renderer  charts.Renderer
	publisher Publisher
	logger    *log.Logger
	clock     idClock

	barChart charts.Handle
	pieChart charts.Handle
}

func NewController(store *ledger.Store, renderer charts.Renderer, publisher Publisher, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Controller{
		store:     store,
		renderer:  renderer,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentController),
	}
}

// Init loads the persisted ledger and renders the initial charts.
func (c *Controller) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Load(ctx); err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	if err := c.renderCharts(ctx); err != nil {
		return fmt.Errorf("initial chart render: %w", err)
	}
	return nil
}

// Submit validates the input, constructs a transaction, appends it, and
// refreshes balance, list, and both charts. Invalid amounts are rejected
// before any record is constructed.
func (c *Controller) Submit(ctx context.Context, in SubmitInput) (core.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cents, err := core.ParseSignedDecimalToCents(in.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("amount %q: %w", in.Amount, err)
	}

	txType := core.TransactionType(strings.TrimSpace(in.Type))
	if !txType.IsValid() {
		return core.Transaction{}, fmt.Errorf("type %q: %w", in.Type, core.ErrInvalidType)
	}

	tx := core.Transaction{
		ID:          c.clock.Next(),
		Description: strings.TrimSpace(in.Description),
		Amount:      core.Money{Cents: cents},
		Type:        txType,
		Category:    strings.TrimSpace(in.Category),
		Date:        time.Now().UTC(),
	}.Normalize()

	if err := c.store.Append(ctx, tx); err != nil {
		return core.Transaction{}, err
	}

	if err := c.renderCharts(ctx); err != nil {
		c.logger.WarnContext(ctx, "Chart refresh failed after submit", "error", err, "id", tx.ID)
	}
	c.publish(ctx, events.NewCreatedEvent(tx.ID, tx.Type.String(), tx.Amount.Cents, tx.Category))

	return tx, nil
}

// Delete removes the transaction with the given id and refreshes balance,
// list, and both charts. A missing id leaves the store unchanged and is
// not an error.
func (c *Controller) Delete(ctx context.Context, id int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed, err := c.store.RemoveByID(ctx, id)
	if err != nil {
		return false, err
	}
	if !removed {
		return false, nil
	}

	if err := c.renderCharts(ctx); err != nil {
		c.logger.WarnContext(ctx, "Chart refresh failed after delete", "error", err, "id", id)
	}
	c.publish(ctx, events.NewDeletedEvent(id))

	return true, nil
}

// ChangeCurrency swaps the active display currency and persists it. Chart
// series carry raw magnitudes without a symbol, so charts are deliberately
// not re-rendered here.
func (c *Controller) ChangeCurrency(ctx context.Context, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.SetCurrency(ctx, strings.TrimSpace(code))
}

// Snapshot returns the current display state: balance strings, the ordered
// transaction list, and the active currency. It holds the controller lock
// so rows, currency, and version always describe the same ledger state;
// the HTTP layer keys its caches on the version.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	txs := c.store.All()
	currency := c.store.Currency()

	v := View{
		Currency: currency,
		Balance:  core.NewBalanceView(currency, core.Summarize(txs)),
		Rows:     make([]Row, 0, len(txs)),
		Version:  c.store.Version(),
	}
	for _, tx := range txs {
		v.Rows = append(v.Rows, Row{
			ID:          tx.ID,
			Description: tx.Description,
			Category:    tx.Category,
			Type:        tx.Type.String(),
			Amount:      core.SignedAmount(currency, tx),
		})
	}
	return v
}

// ChartData returns the published chart datasets together with the ledger
// version they were rendered from. Mutations update the version and the
// datasets under the same lock, so the pair is always consistent.
func (c *Controller) ChartData() (charts.BarDataset, charts.PieDataset, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var bar charts.BarDataset
	var pie charts.PieDataset
	if src, ok := c.renderer.(charts.DatasetSource); ok {
		bar, pie = src.Datasets()
	}
	return bar, pie, c.store.Version()
}

// renderCharts releases the prior chart handles and acquires new ones from
// the current aggregates.
func (c *Controller) renderCharts(ctx context.Context) error {
	if c.renderer == nil {
		return nil
	}

	if c.barChart != nil {
		c.barChart.Release()
		c.barChart = nil
	}
	if c.pieChart != nil {
		c.pieChart.Release()
		c.pieChart = nil
	}

	breakdown := core.Breakdown(c.store.All())

	bar, err := c.renderer.RenderBar(charts.NewBarDataset(breakdown))
	if err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	c.barChart = bar

	pie, err := c.renderer.RenderPie(charts.NewPieDataset(breakdown))
	if err != nil {
		return fmt.Errorf("render pie chart: %w", err)
	}
	c.pieChart = pie

	c.logger.DebugContext(ctx, "Charts re-rendered", "categories", len(breakdown.Labels))
	return nil
}

func (c *Controller) publish(ctx context.Context, event *events.TransactionEvent) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, event); err != nil {
		// The mutation is already persisted locally; losing an event only
		// leaves a gap in the audit trail.
		c.logger.ErrorContext(ctx, "Failed to publish transaction event",
			"error", err, "action", event.Action, "id", event.ID)
	}
}

// Close releases the live chart handles.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.barChart != nil {
		c.barChart.Release()
		c.barChart = nil
	}
	if c.pieChart != nil {
		c.pieChart.Release()
		c.pieChart = nil
	}
}
