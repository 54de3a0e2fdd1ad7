// Package reviews wires acquisition and extraction into the top-level
// pipeline: one URL in, an ordered list of structured review records out.
package reviews

import (
	"context"
	"log/slog"

	"mapreviews/extractor"
	"mapreviews/models"
	"mapreviews/scraper"
)

// PageFetcher is the acquisition half of the pipeline.
type PageFetcher interface {
	FetchReviewsHTML(ctx context.Context, pageURL string, opts scraper.FetchOptions) (string, error)
}

// Harvester runs acquisition followed by extraction. The two halves
// share nothing except the markup snapshot handed from one to the other.
type Harvester struct {
	fetcher PageFetcher
	extract *extractor.Extractor
}

// New creates a Harvester.
func New(fetcher PageFetcher, extract *extractor.Extractor) *Harvester {
	return &Harvester{fetcher: fetcher, extract: extract}
}

// GetReviews acquires the review widget at pageURL and extracts every
// well-formed record, in widget order. The error is non-nil only when
// the whole acquisition fails (page unreachable, container never
// visible, loading never converged); individual malformed records are
// reported through the skipped list instead.
func (h *Harvester) GetReviews(ctx context.Context, pageURL string, stealth bool) ([]models.Review, []models.Skipped, error) {
	rawHTML, err := h.fetcher.FetchReviewsHTML(ctx, pageURL, scraper.FetchOptions{Stealth: stealth})
	if err != nil {
		return nil, nil, err
	}

	revs, skipped := h.extract.ExtractAll(rawHTML)
	slog.Info("harvest complete",
		"url", pageURL,
		"reviews", len(revs),
		"skipped", len(skipped),
	)
	return revs, skipped, nil
}
