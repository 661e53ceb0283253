package cleanup

import (
	"fmt"
	"io"
	"sync"
)

// Guard collects cleanup actions for transient run state, the private key
// file above all, and releases them exactly once no matter how the run
// exits. Cleanup failures are reported as warnings and never change the
// run's outcome.
type Guard struct {
	mu    sync.Mutex
	fired bool
	items []item
	warnw io.Writer
}

type item struct {
	label string
	fn    func() error
}

// NewGuard returns a guard that writes cleanup warnings to warnw.
func NewGuard(warnw io.Writer) *Guard {
	return &Guard{warnw: warnw}
}

// Register adds a cleanup action. If the guard already fired the action runs
// immediately: the run is unwinding and nothing would release it otherwise.
func (g *Guard) Register(label string, fn func() error) {
	g.mu.Lock()
	if g.fired {
		g.mu.Unlock()
		g.runOne(item{label: label, fn: fn})
		return
	}
	g.items = append(g.items, item{label: label, fn: fn})
	g.mu.Unlock()
}

// Run executes the registered actions in reverse registration order. Only
// the first call does any work, so it is safe to defer it and also call it
// on early-exit paths.
func (g *Guard) Run() {
	g.mu.Lock()
	if g.fired {
		g.mu.Unlock()
		return
	}
	g.fired = true
	items := g.items
	g.items = nil
	g.mu.Unlock()

	for i := len(items) - 1; i >= 0; i-- {
		g.runOne(items[i])
	}
}

func (g *Guard) runOne(it item) {
	if err := it.fn(); err != nil && g.warnw != nil {
		fmt.Fprintf(g.warnw, "warning: cleanup of %s failed: %v\n", it.label, err)
	}
}
