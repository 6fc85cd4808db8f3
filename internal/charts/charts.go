// Package charts models the chart consumer interface: aggregate data is
// shaped into label + series datasets, and rendered charts are tracked as
// explicit handles so a prior render is always released before the next
// one is acquired.
package charts

import "tally/internal/core"

// BarDataset feeds the grouped-bar renderer: income vs. expense per
// category label.
type BarDataset struct {
	Labels  []string  `json:"labels"`
	Income  []float64 `json:"income"`
	Expense []float64 `json:"expense"`
}

// PieDataset feeds the pie renderer: total magnitude per category label.
type PieDataset struct {
	Labels []string  `json:"labels"`
	Totals []float64 `json:"totals"`
}

// NewBarDataset shapes a category breakdown for the grouped-bar view.
func NewBarDataset(b core.CategoryBreakdown) BarDataset {
	return BarDataset{Labels: b.Labels, Income: b.Income, Expense: b.Expense}
}

// NewPieDataset shapes a category breakdown for the pie view.
func NewPieDataset(b core.CategoryBreakdown) PieDataset {
	return PieDataset{Labels: b.Labels, Totals: b.Total}
}

// Handle is a live rendered chart. It must be released before a
// replacement is acquired from fresh data.
type Handle interface {
	Release()
}

// Renderer turns datasets into chart handles. The web renderer publishes
// datasets for the browser; tests plug in counting fakes.
type Renderer interface {
	RenderBar(BarDataset) (Handle, error)
	RenderPie(PieDataset) (Handle, error)
}

// DatasetSource exposes the latest published datasets of a renderer.
type DatasetSource interface {
	Datasets() (BarDataset, PieDataset)
}
