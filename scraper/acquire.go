package scraper

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"mapreviews/models"
)

// FetchOptions tune one acquisition run.
type FetchOptions struct {
	// Stealth toggles stealth JS injection before navigation.
	Stealth bool
}

// FetchReviewsHTML navigates to a map-business page, drives the review
// widget until every item is loaded and every truncated text is
// expanded, and returns the container's markup snapshot.
//
// Lifecycle (numbered steps match the inline comments):
//
//  1. Acquire page          – borrow a tab from the pool (or create one)
//  2. DEFER: cleanup        – about:blank + return to pool (leak prevention)
//  3. Stealth injection     – mask navigator.webdriver etc. (before navigation!)
//  4. Referer header        – map pages are friendlier to search traffic
//  5. Hijack mount          – block images/fonts/media (before navigation!)
//  6. Context binding       – propagate the caller's deadline to all Rod ops
//  7. Navigate + settle     – page load, DOM-stable wait
//  8. Container wait        – the only acquisition-fatal step
//  9. Load to convergence   – poll-and-engage until the item count stabilizes
//  10. Expand all texts     – bounded-but-open expander loop
//  11. Snapshot             – container HTML after a final settle
//
// Steps 3-5 must precede step 7: stealth JS and resource blocking only
// take effect for navigations that happen after they are installed.
// Step 2's about:blank uses the ORIGINAL page reference (without the
// request context), so cleanup succeeds even after the deadline fires.
func (s *Scraper) FetchReviewsHTML(ctx context.Context, pageURL string, opts FetchOptions) (string, error) {
	// ── 1. Acquire page from pool ─────────────────────────────────────
	s.activePages.Add(1)
	defer s.activePages.Add(-1)

	page, acquireErr := s.pagePool.Get(func() (*rod.Page, error) {
		return s.browser.Page(proto.TargetCreateTarget{})
	})
	if acquireErr != nil {
		return "", models.NewHarvestError(
			models.ErrCodeBrowserCrash,
			"failed to acquire page from pool",
			acquireErr,
		)
	}

	// ── 2. CRITICAL DEFER: prevent DOM memory leak + guarantee pool return
	defer func() {
		if navErr := page.Navigate("about:blank"); navErr != nil {
			slog.Warn("cleanup: failed to navigate to about:blank",
				"error", navErr,
			)
		}
		s.pagePool.Put(page)
	}()

	// ── 3. Stealth injection ──────────────────────────────────────────
	if opts.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		}
	}

	// ── 4. Referer header ─────────────────────────────────────────────
	if u, parseErr := url.Parse(pageURL); parseErr == nil {
		referer := "https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(map[string]string{"Referer": referer}),
		}.Call(page)
	}

	// ── 5. Mount hijack router (blocks Image/Font/Media) ──────────────
	router := setupHijack(page, s.harvestCfg.BlockedResourceTypes)
	if router != nil {
		defer func() { _ = router.Stop() }()
	}

	// ── 6. Bind request context to page ───────────────────────────────
	p := page.Context(ctx)

	// ── 7. Navigate + settle ──────────────────────────────────────────
	if navErr := p.Navigate(pageURL); navErr != nil {
		return "", categorizeError(navErr, "navigation to business page failed")
	}
	if stableErr := p.WaitDOMStable(300*time.Millisecond, 0.1); stableErr != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM",
			"error", stableErr,
		)
	}

	return s.acquire(ctx, p)
}

// acquire runs the acquisition protocol on an already-navigated page:
// container wait, interaction focus, load convergence, text expansion,
// markup snapshot.
func (s *Scraper) acquire(ctx context.Context, p *rod.Page) (string, error) {
	// ── 8. Container wait (acquisition-fatal on failure) ──────────────
	container, err := p.Timeout(s.harvestCfg.ContainerTimeout).Element(s.widgetCfg.ContainerSelector)
	if err != nil {
		return "", models.NewHarvestError(
			models.ErrCodeContainerNotVisible,
			"review container never appeared",
			err,
		)
	}
	if err := container.WaitVisible(); err != nil {
		return "", models.NewHarvestError(
			models.ErrCodeContainerNotVisible,
			"review container never became visible",
			err,
		)
	}

	// Establish the interaction focus the widget expects. Guarded:
	// the widget loads fine without it on some layouts.
	if !guardedClick(container, s.harvestCfg.ClickTimeout) {
		slog.Debug("container focus click failed, continuing")
	}

	w := &rodWidget{page: p, sel: s.widgetCfg}

	// ── 9. Load items to convergence ──────────────────────────────────
	count, err := loadAllItems(ctx, w, s.harvestCfg)
	if err != nil {
		return "", err
	}
	slog.Info("review list converged", "items", count)

	// ── 10. Expand truncated texts ────────────────────────────────────
	passes := expandAllTexts(ctx, w, s.harvestCfg)
	slog.Debug("expansion finished", "passes", passes)

	// ── 11. Final settle + snapshot ───────────────────────────────────
	w.Settle(s.harvestCfg.FinalSettle)

	// Re-resolve the container: the node seen at step 8 may have been
	// replaced during loading.
	container, err = p.Element(s.widgetCfg.ContainerSelector)
	if err != nil {
		return "", models.NewHarvestError(
			models.ErrCodeContainerNotVisible,
			"review container disappeared before snapshot",
			err,
		)
	}
	html, err := container.HTML()
	if err != nil {
		return "", categorizeError(err, "failed to capture container markup")
	}
	return html, nil
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders
// type (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// categorizeError wraps raw errors into typed HarvestErrors so the API
// layer can map them to appropriate HTTP status codes.
func categorizeError(err error, msg string) *models.HarvestError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewHarvestError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewHarvestError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewHarvestError(models.ErrCodeNavigation, msg, err)
	}
}
