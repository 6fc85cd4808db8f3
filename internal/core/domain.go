package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
	Refund  TransactionType = "refund"
)

type (
	TransactionType string

	Money struct {
		Cents int64
	}

	// Transaction is one recorded financial event. Records are immutable
	// after creation; there is no edit operation.
	Transaction struct {
		ID          int64           `json:"id"`
		Description string          `json:"description"`
		Amount      Money           `json:"amount"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
		Date        time.Time       `json:"date"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrZeroID          = errors.New("transaction id must be set")
	ErrZeroDate        = errors.New("transaction date must be set")
	ErrUnknownCurrency = errors.New("unknown currency code")
)

// IsValid reports whether the type is one of the fixed set.
func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense, Refund:
		return true
	default:
		return false
	}
}

func (t TransactionType) String() string {
	return string(t)
}

// Normalize applies the sign convention at creation time: refunds store a
// negative magnitude, income and expense keep the amount as entered.
func (t Transaction) Normalize() Transaction {
	if t.Type == Refund {
		t.Amount = Money{Cents: -abs64(t.Amount.Cents)}
	}
	return t
}

func (t Transaction) Validate() error {
	if t.ID == 0 {
		return ErrZeroID
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	if len(strings.TrimSpace(t.Description)) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

// Abs returns the non-negative magnitude of the amount.
func (m Money) Abs() Money {
	return Money{Cents: abs64(m.Cents)}
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Sub returns the difference of two amounts.
func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
