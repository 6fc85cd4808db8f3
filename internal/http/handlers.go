package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"tally/internal/app"
	"tally/internal/core"
	"tally/internal/log"
)

// summaryData is the payload of the summary partial: balance strings plus
// the ordered transaction list.
type summaryData struct {
	Currency string
	Balance  string
	Incoming string
	Outgoing string
	Rows     []app.Row
	Empty    bool
}

func newSummaryData(v app.View) summaryData {
	return summaryData{
		Currency: v.Currency,
		Balance:  v.Balance.Balance,
		Incoming: v.Balance.Incoming,
		Outgoing: v.Balance.Outgoing,
		Rows:     v.Rows,
		Empty:    len(v.Rows) == 0,
	}
}

// renderSummary renders (and memoizes) the summary partial for the current
// ledger version and currency.
func (s *Server) renderSummary(v app.View) (string, error) {
	key := fmt.Sprintf("v%d-%s", v.Version, v.Currency)
	if html, found := s.summaryCache.Get(key); found {
		return html, nil
	}

	if s.templates == nil {
		return "", errors.New("templates not loaded")
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "summary.html", newSummaryData(v)); err != nil {
		return "", fmt.Errorf("render summary partial: %w", err)
	}

	html := buf.String()
	s.summaryCache.Set(key, html)
	return html, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	view := s.controller.Snapshot()
	summary, err := s.renderSummary(view)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Summary render failed", log.FieldError, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := struct {
		Currency string
		Codes    []string
		Types    []string
		Summary  template.HTML
	}{
		Currency: view.Currency,
		Codes:    core.CurrencyCodes(),
		Types:    []string{core.Income.String(), core.Expense.String(), core.Refund.String()},
		Summary:  template.HTML(summary),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "Index template execution failed", log.FieldError, err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if resp := requirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.logger.ErrorContext(r.Context(), "Parse form error", log.FieldError, err, log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	in := app.SubmitInput{
		Description: sanitizeInput(r.Form.Get("description")),
		Amount:      sanitizeInput(r.Form.Get("amount")),
		Type:        sanitizeInput(r.Form.Get("type")),
		Category:    sanitizeInput(r.Form.Get("category")),
	}

	tx, err := s.controller.Submit(r.Context(), in)
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		UnprocessableEntityError("Invalid amount").Write(w)
		return
	case errors.Is(err, core.ErrInvalidType):
		UnprocessableEntityError("Invalid transaction type").Write(w)
		return
	case err != nil:
		s.logger.ErrorContext(r.Context(), "Failed to record transaction",
			log.FieldError, err,
			"description", in.Description,
			"type", in.Type,
			"category", in.Category)
		InternalServerError("Error saving transaction").Write(w)
		return
	}

	s.logger.InfoContext(r.Context(), "Transaction recorded",
		log.FieldTxID, tx.ID,
		"type", tx.Type.String(),
		"amount_cents", tx.Amount.Cents,
		"category", tx.Category)

	view := s.controller.Snapshot()
	summary, err := s.renderSummary(view)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Summary render failed", log.FieldError, err)
		InternalServerError("Error rendering summary").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerLedgerChanged(view.Version).
		TriggerFormReset().
		BodyHTML(summary).
		Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if resp := requirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	id, err := parseID(r.Form.Get("id"))
	if err != nil {
		BadRequestError("Invalid transaction id").Write(w)
		return
	}

	removed, err := s.controller.Delete(r.Context(), id)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to delete transaction", log.FieldError, err, log.FieldTxID, id)
		InternalServerError("Error deleting transaction").Write(w)
		return
	}
	// Deleting a nonexistent id is a silent no-op; the refreshed summary
	// is the full answer either way.
	if !removed {
		s.logger.DebugContext(r.Context(), "Delete of unknown transaction id", log.FieldTxID, id)
	}

	view := s.controller.Snapshot()
	summary, err := s.renderSummary(view)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Summary render failed", log.FieldError, err)
		InternalServerError("Error rendering summary").Write(w)
		return
	}

	resp := NewHTMXResponse().BodyHTML(summary)
	if removed {
		resp.TriggerLedgerChanged(view.Version)
	}
	resp.Write(w)
}

func (s *Server) handleChangeCurrency(w http.ResponseWriter, r *http.Request) {
	if resp := requirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	code := sanitizeInput(r.Form.Get("currency"))
	if err := s.controller.ChangeCurrency(r.Context(), code); err != nil {
		if errors.Is(err, core.ErrUnknownCurrency) {
			UnprocessableEntityError("Unknown currency code").Write(w)
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to change currency", log.FieldError, err, log.FieldCurrency, code)
		InternalServerError("Error changing currency").Write(w)
		return
	}

	view := s.controller.Snapshot()
	summary, err := s.renderSummary(view)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Summary render failed", log.FieldError, err)
		InternalServerError("Error rendering summary").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerCurrencyChanged(view.Currency).
		BodyHTML(summary).
		Write(w)
}

// handleSummary renders the summary partial.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	summary, err := s.renderSummary(s.controller.Snapshot())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Summary render failed", log.FieldError, err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<section id="summary"><div class="placeholder">Error loading summary</div></section>`))
		return
	}
	_, _ = w.Write([]byte(summary))
}

// handleCharts serves the chart datasets as JSON for the browser-side
// renderers. Datasets and version come from one atomic read so a cached
// payload always matches the version it is keyed under.
func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	bar, pie, version := s.controller.ChartData()
	key := fmt.Sprintf("v%d", version)
	if payload, found := s.chartsCache.Get(key); found {
		_, _ = w.Write(payload)
		return
	}

	payload, err := json.Marshal(struct {
		Bar interface{} `json:"bar"`
		Pie interface{} `json:"pie"`
	}{Bar: bar, Pie: pie})
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Chart payload marshal failed", log.FieldError, err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{}`))
		return
	}

	s.chartsCache.Set(key, payload)
	_, _ = w.Write(payload)
}
