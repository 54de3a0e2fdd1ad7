package scraper

import (
	"context"
	"fmt"

	"mapreviews/config"
	"mapreviews/models"
)

// loadState is the convergence loop's memory between iterations.
// prev is the item count observed on the previous poll (0 before the
// first), attempts counts non-converged polls against the ceiling.
type loadState struct {
	prev     int
	attempts int
}

// loadAllItems drives the widget until the rendered item count
// converges. Each iteration: settle (in-flight batches need time to
// land), poll the count, engage the last item to trigger the next
// batch, then compare against the previous poll. Two consecutive
// polls with the same count means no new items appeared after the
// last trigger, so everything available has loaded.
//
// Engagement failures are ignored on purpose: a missed click on one
// iteration is retried implicitly on the next. The attempts ceiling
// turns a widget that never stops growing (or never stabilizes) into
// an explicit LOAD_NOT_CONVERGED error instead of an infinite loop.
//
// Returns the converged item count.
func loadAllItems(ctx context.Context, w widget, cfg config.HarvestConfig) (int, error) {
	var st loadState
	for {
		if err := ctx.Err(); err != nil {
			return st.prev, models.NewHarvestError(
				models.ErrCodeTimeout,
				"deadline reached while loading review items",
				err,
			)
		}
		if st.attempts >= cfg.MaxLoadAttempts {
			return st.prev, models.NewHarvestError(
				models.ErrCodeLoadNotConverged,
				fmt.Sprintf("item count had not stabilized after %d polls", st.attempts),
				nil,
			)
		}

		w.Settle(cfg.LoadSettle)
		n := w.ItemCount()
		w.EngageLastItem(cfg.ClickTimeout)

		if n == st.prev {
			return n, nil
		}
		st.prev = n
		st.attempts++
	}
}
