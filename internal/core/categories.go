package core

// CategoryBreakdown groups transactions by category label and exposes
// parallel numeric series suitable as direct chart input. Labels appear in
// first-occurrence order; the three series share its length and indexing.
// Values are raw units with no rounding and no currency attached.
type CategoryBreakdown struct {
	Labels []string
	// Income is the signed sum of income amounts per category.
	Income []float64
	// Expense is the absolute sum of expense and refund amounts per category.
	Expense []float64
	// Total is the absolute sum of all amounts per category regardless of type.
	Total []float64
}

// Breakdown aggregates the full transaction sequence by category.
func Breakdown(txs []Transaction) CategoryBreakdown {
	b := CategoryBreakdown{
		Labels:  []string{},
		Income:  []float64{},
		Expense: []float64{},
		Total:   []float64{},
	}
	index := make(map[string]int)
	for _, tx := range txs {
		i, ok := index[tx.Category]
		if !ok {
			i = len(b.Labels)
			index[tx.Category] = i
			b.Labels = append(b.Labels, tx.Category)
			b.Income = append(b.Income, 0)
			b.Expense = append(b.Expense, 0)
			b.Total = append(b.Total, 0)
		}
		switch tx.Type {
		case Income:
			b.Income[i] += tx.Amount.Units()
		case Expense, Refund:
			b.Expense[i] += tx.Amount.Abs().Units()
		}
		b.Total[i] += tx.Amount.Abs().Units()
	}
	return b
}
