package charts

import "sync"

// WebRenderer is the renderer behind the browser charts. Rendering stores
// the latest datasets; the HTTP layer serves them as JSON and the page
// rebuilds its canvases from that. Releasing a handle clears the dataset
// it published unless a newer render replaced it first.
type WebRenderer struct {
	mu     sync.Mutex
	barGen uint64
	pieGen uint64
	bar    BarDataset
	pie    PieDataset
}

func NewWebRenderer() *WebRenderer {
	return &WebRenderer{}
}

type webHandle struct {
	release func()
}

func (h *webHandle) Release() { h.release() }

// RenderBar implements Renderer.
func (r *WebRenderer) RenderBar(d BarDataset) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.barGen++
	r.bar = d
	gen := r.barGen
	return &webHandle{release: func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		// Only clear if no newer render replaced this dataset.
		if r.barGen == gen {
			r.bar = BarDataset{}
		}
	}}, nil
}

// RenderPie implements Renderer.
func (r *WebRenderer) RenderPie(d PieDataset) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pieGen++
	r.pie = d
	gen := r.pieGen
	return &webHandle{release: func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.pieGen == gen {
			r.pie = PieDataset{}
		}
	}}, nil
}

// Datasets returns the latest published datasets.
func (r *WebRenderer) Datasets() (BarDataset, PieDataset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bar, r.pie
}

var (
	_ Renderer      = (*WebRenderer)(nil)
	_ DatasetSource = (*WebRenderer)(nil)
)
