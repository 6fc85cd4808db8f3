package charts

import (
	"reflect"
	"testing"

	"tally/internal/core"
)

func TestDatasetShaping(t *testing.T) {
	b := core.CategoryBreakdown{
		Labels:  []string{"Salary", "Food"},
		Income:  []float64{100, 0},
		Expense: []float64{0, 30},
		Total:   []float64{100, 30},
	}

	bar := NewBarDataset(b)
	if !reflect.DeepEqual(bar.Labels, b.Labels) ||
		!reflect.DeepEqual(bar.Income, b.Income) ||
		!reflect.DeepEqual(bar.Expense, b.Expense) {
		t.Fatalf("bar = %+v", bar)
	}

	pie := NewPieDataset(b)
	if !reflect.DeepEqual(pie.Labels, b.Labels) || !reflect.DeepEqual(pie.Totals, b.Total) {
		t.Fatalf("pie = %+v", pie)
	}
}

func TestWebRendererPublishAndRelease(t *testing.T) {
	r := NewWebRenderer()

	h1, err := r.RenderBar(BarDataset{Labels: []string{"a"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	bar, _ := r.Datasets()
	if len(bar.Labels) != 1 || bar.Labels[0] != "a" {
		t.Fatalf("datasets = %+v", bar)
	}

	// Releasing the current handle clears the published dataset.
	h1.Release()
	bar, _ = r.Datasets()
	if len(bar.Labels) != 0 {
		t.Fatalf("dataset not cleared: %+v", bar)
	}
}

func TestWebRendererStaleRelease(t *testing.T) {
	r := NewWebRenderer()

	h1, _ := r.RenderBar(BarDataset{Labels: []string{"old"}})
	if _, err := r.RenderBar(BarDataset{Labels: []string{"new"}}); err != nil {
		t.Fatalf("render: %v", err)
	}

	// A stale handle must not clobber the newer dataset.
	h1.Release()
	bar, _ := r.Datasets()
	if len(bar.Labels) != 1 || bar.Labels[0] != "new" {
		t.Fatalf("stale release clobbered dataset: %+v", bar)
	}
}

func TestWebRendererPieIndependent(t *testing.T) {
	r := NewWebRenderer()

	bh, _ := r.RenderBar(BarDataset{Labels: []string{"b"}})
	if _, err := r.RenderPie(PieDataset{Labels: []string{"p"}, Totals: []float64{1}}); err != nil {
		t.Fatalf("render pie: %v", err)
	}

	// Releasing the bar handle leaves the pie dataset alone.
	bh.Release()
	bar, pie := r.Datasets()
	if len(bar.Labels) != 0 {
		t.Fatalf("bar not cleared: %+v", bar)
	}
	if len(pie.Labels) != 1 {
		t.Fatalf("pie cleared by bar release: %+v", pie)
	}
}
