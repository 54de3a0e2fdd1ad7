package scraper

import (
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"mapreviews/config"
)

// widget abstracts the live review widget so the acquisition loops can
// be exercised against a fake in tests.
type widget interface {
	// Settle pauses for d, yielding control to the page. Returns
	// early if the page context is done.
	Settle(d time.Duration)

	// ItemCount reports the number of currently rendered review items.
	ItemCount() int

	// EngageLastItem clicks the last rendered item to trigger the
	// next incremental load. All failures collapse into false.
	EngageLastItem(timeout time.Duration) bool

	// Expanders queries the currently visible truncation-expander
	// controls, in document order.
	Expanders() []interactable
}

// interactable is one clickable control behind the interaction guard.
type interactable interface {
	// Click attempts one left click within timeout and reports
	// success. It never returns an error and never panics.
	Click(timeout time.Duration) bool
}

// guardedClick is the interaction guard: one left click with a hard
// deadline, converting every failure mode (nil target, detached node,
// obscured element, timeout) into false. Loops built on top of it can
// proceed unconditionally.
func guardedClick(el *rod.Element, timeout time.Duration) (ok bool) {
	if el == nil {
		return false
	}
	defer func() {
		// rod surfaces some CDP failures as panics; absorb those too.
		if r := recover(); r != nil {
			ok = false
		}
	}()
	return el.Timeout(timeout).Click(proto.InputMouseButtonLeft, 1) == nil
}

// rodWidget is the production widget backed by a live rod page.
type rodWidget struct {
	page *rod.Page
	sel  config.WidgetConfig
}

func (w *rodWidget) Settle(d time.Duration) {
	select {
	case <-time.After(d):
	case <-w.page.GetContext().Done():
	}
}

func (w *rodWidget) ItemCount() int {
	els, err := w.page.Elements(w.sel.ItemSelector)
	if err != nil {
		return 0
	}
	return len(els)
}

func (w *rodWidget) EngageLastItem(timeout time.Duration) bool {
	els, err := w.page.Elements(w.sel.ItemSelector)
	if err != nil || len(els) == 0 {
		return false
	}
	return guardedClick(els.Last(), timeout)
}

func (w *rodWidget) Expanders() []interactable {
	els, err := w.page.Elements(w.sel.ExpanderSelector)
	if err != nil {
		return nil
	}
	controls := make([]interactable, 0, len(els))
	for _, el := range els {
		controls = append(controls, rodControl{el: el})
	}
	return controls
}

type rodControl struct {
	el *rod.Element
}

func (c rodControl) Click(timeout time.Duration) bool {
	return guardedClick(c.el, timeout)
}
