package core

// Totals holds the three non-negative magnitudes the balance is derived
// from. Sums are type-driven over absolute amounts, so the stored sign
// convention cannot skew them.
type Totals struct {
	Income  Money
	Expense Money
	Refunds Money
}

// Balance returns the net settled amount: income + refunds - expense.
// It may be negative.
func (t Totals) Balance() Money {
	return t.Income.Add(t.Refunds).Sub(t.Expense)
}

// Summarize computes type-filtered totals over the full transaction
// sequence.
func Summarize(txs []Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Type {
		case Income:
			t.Income = t.Income.Add(tx.Amount.Abs())
		case Expense:
			t.Expense = t.Expense.Add(tx.Amount.Abs())
		case Refund:
			t.Refunds = t.Refunds.Add(tx.Amount.Abs())
		}
	}
	return t
}

// BalanceView is the display form of the totals under the active currency.
// Incoming money carries an explicit "+" prefix, outgoing a "-" prefix.
// The balance is unsigned unless negative.
type BalanceView struct {
	Balance  string
	Incoming string
	Outgoing string
}

// NewBalanceView formats totals for display under the given currency code.
func NewBalanceView(code string, t Totals) BalanceView {
	balance := t.Balance()
	v := BalanceView{
		Balance:  FormatMoney(code, balance),
		Incoming: "+" + FormatMoney(code, t.Income.Add(t.Refunds)),
		Outgoing: "-" + FormatMoney(code, t.Expense),
	}
	if balance.Cents < 0 {
		v.Balance = "-" + v.Balance
	}
	return v
}

// SignedAmount formats a single transaction amount for the list view:
// income gets "+", everything else "-", as in the running list.
func SignedAmount(code string, tx Transaction) string {
	if tx.Type == Income {
		return "+" + FormatMoney(code, tx.Amount)
	}
	return "-" + FormatMoney(code, tx.Amount)
}
