package core

import (
	"testing"
	"time"
)

func tx(id int64, tt TransactionType, cents int64, category string) Transaction {
	return Transaction{
		ID:          id,
		Description: "test",
		Amount:      Money{Cents: cents},
		Type:        tt,
		Category:    category,
		Date:        time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}.Normalize()
}

func TestSummarizeEmpty(t *testing.T) {
	totals := Summarize(nil)
	if totals.Income.Cents != 0 || totals.Expense.Cents != 0 || totals.Refunds.Cents != 0 {
		t.Fatalf("expected zero totals, got %+v", totals)
	}
	if totals.Balance().Cents != 0 {
		t.Fatalf("expected zero balance")
	}
	v := NewBalanceView("USD", totals)
	if v.Balance != "$0.00" || v.Incoming != "+$0.00" || v.Outgoing != "-$0.00" {
		t.Fatalf("unexpected view %+v", v)
	}
}

func TestSummarizeScenarios(t *testing.T) {
	cases := []struct {
		name     string
		txs      []Transaction
		balance  int64
		incoming string
		outgoing string
		view     string
	}{
		{
			name:     "single income",
			txs:      []Transaction{tx(1, Income, 10000, "Salary")},
			balance:  10000,
			incoming: "+$100.00",
			outgoing: "-$0.00",
			view:     "$100.00",
		},
		{
			name:     "single expense",
			txs:      []Transaction{tx(1, Expense, 4000, "Food")},
			balance:  -4000,
			incoming: "+$0.00",
			outgoing: "-$40.00",
			view:     "-$40.00",
		},
		{
			name: "expense then refund",
			txs: []Transaction{
				tx(1, Expense, 4000, "Food"),
				tx(2, Refund, 1000, "Food"),
			},
			balance:  -3000,
			incoming: "+$10.00",
			outgoing: "-$40.00",
			view:     "-$30.00",
		},
		{
			name: "mixed",
			txs: []Transaction{
				tx(1, Income, 10000, "Salary"),
				tx(2, Expense, 4000, "Food"),
				tx(3, Refund, 1000, "Food"),
			},
			balance:  7000,
			incoming: "+$110.00",
			outgoing: "-$40.00",
			view:     "$70.00",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			totals := Summarize(tc.txs)
			if got := totals.Balance().Cents; got != tc.balance {
				t.Fatalf("balance = %d, want %d", got, tc.balance)
			}
			v := NewBalanceView("USD", totals)
			if v.Balance != tc.view || v.Incoming != tc.incoming || v.Outgoing != tc.outgoing {
				t.Fatalf("view = %+v", v)
			}
		})
	}
}

func TestSummarizeSignIndependent(t *testing.T) {
	// Stored sign must not leak into the totals: a refund stored negative
	// and one (hypothetically) stored positive aggregate identically.
	neg := Summarize([]Transaction{{ID: 1, Type: Refund, Amount: Money{Cents: -1000}}})
	pos := Summarize([]Transaction{{ID: 1, Type: Refund, Amount: Money{Cents: 1000}}})
	if neg != pos {
		t.Fatalf("sign leaked: %+v vs %+v", neg, pos)
	}
	if neg.Refunds.Cents != 1000 {
		t.Fatalf("refund magnitude = %d", neg.Refunds.Cents)
	}
}

func TestSignedAmount(t *testing.T) {
	if got := SignedAmount("USD", tx(1, Income, 10000, "Salary")); got != "+$100.00" {
		t.Fatalf("income amount = %q", got)
	}
	if got := SignedAmount("USD", tx(2, Expense, 4000, "Food")); got != "-$40.00" {
		t.Fatalf("expense amount = %q", got)
	}
	if got := SignedAmount("EUR", tx(3, Refund, 1000, "Food")); got != "-€10.00" {
		t.Fatalf("refund amount = %q", got)
	}
}
