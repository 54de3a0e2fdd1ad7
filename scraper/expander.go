package scraper

import (
	"context"
	"log/slog"

	"mapreviews/config"
)

// expandState is the expansion loop's memory between passes. lastSeen
// holds the control count from the most recent query; the loop's stop
// condition reads it rather than re-querying.
type expandState struct {
	passes   int
	lastSeen int
}

// expandAllTexts clicks every visible truncation-expander control
// until none remain. Expanding one review reflows the list and can
// surface new controls, and late-loaded items bring their own, so a
// momentarily-empty query is not trusted: the loop always runs at
// least MinExpandPasses passes regardless of emptiness.
//
// Individual clicks go through the interaction guard with a short
// settle, so one stuck control never blocks the rest. Hitting
// MaxExpandPasses logs and stops: expansion is best-effort, and a
// record left truncated simply fails field extraction downstream.
//
// Returns the number of passes executed.
func expandAllTexts(ctx context.Context, w widget, cfg config.HarvestConfig) int {
	st := expandState{lastSeen: len(w.Expanders())}

	for st.passes < cfg.MinExpandPasses || st.lastSeen > 0 {
		if ctx.Err() != nil {
			return st.passes
		}
		if st.passes >= cfg.MaxExpandPasses {
			slog.Warn("expander controls still present at pass ceiling",
				"passes", st.passes,
				"remaining", st.lastSeen,
			)
			break
		}

		controls := w.Expanders()
		for _, c := range controls {
			w.Settle(cfg.ClickSettle)
			c.Click(cfg.ClickTimeout)
		}

		st.lastSeen = len(controls)
		st.passes++
	}

	return st.passes
}
