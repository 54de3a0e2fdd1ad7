// Package extractor turns a captured review-widget snapshot into
// structured records. Extraction is best-effort per record: a node
// missing any required field is skipped with a reason, never aborting
// the batch.
package extractor

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"mapreviews/models"
)

// Skip reasons. These surface in models.Skipped.Reason, so keep them
// short and stable.
var (
	errMissingName   = errors.New("missing name")
	errMissingRating = errors.New("missing rating")
	errBadRating     = errors.New("unparseable rating")
	errMissingText   = errors.New("missing text")
	errMissingDate   = errors.New("missing date")
)

// Extractor parses raw snapshot markup and extracts review records.
// Safe for concurrent use.
type Extractor struct {
	item cascadia.Selector
	now  func() time.Time
}

// New compiles the review-item selector. The field sub-selectors are
// fixed; only the outer item selector varies per deployment.
func New(itemSelector string) (*Extractor, error) {
	sel, err := cascadia.Compile(itemSelector)
	if err != nil {
		return nil, fmt.Errorf("compile item selector %q: %w", itemSelector, err)
	}
	return &Extractor{item: sel, now: time.Now}, nil
}

// ExtractAll walks every review node in the snapshot in document
// order and returns the successfully extracted records plus one
// Skipped entry per dropped node. Output order matches node order.
func (e *Extractor) ExtractAll(rawHTML string) ([]models.Review, []models.Skipped) {
	reviews := []models.Review{}
	skipped := []models.Skipped{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		slog.Warn("snapshot markup did not parse", "error", err)
		return reviews, skipped
	}

	doc.FindMatcher(e.item).Each(func(i int, s *goquery.Selection) {
		review, err := e.extractRecord(s)
		if err != nil {
			skipped = append(skipped, models.Skipped{Index: i, Reason: err.Error()})
			return
		}
		reviews = append(reviews, review)
	})

	return reviews, skipped
}

// extractRecord derives all four fields from one review node.
// All-or-nothing: the first failing field fails the record.
func (e *Extractor) extractRecord(s *goquery.Selection) (models.Review, error) {
	name := strings.TrimSpace(s.FindMatcher(nameMatcher).First().Text())
	if name == "" {
		return models.Review{}, errMissingName
	}

	ratingRaw, ok := s.FindMatcher(ratingMatcher).Attr("content")
	if !ok {
		return models.Review{}, errMissingRating
	}
	ratingF, err := strconv.ParseFloat(strings.TrimSpace(ratingRaw), 64)
	if err != nil {
		return models.Review{}, errBadRating
	}
	// Truncation toward zero, not rounding: "4.9" is a 4-star review
	// in the widget's own display semantics.
	rating := int(ratingF)

	text := strings.TrimSpace(s.FindMatcher(textMatcher).First().Text())
	if text == "" {
		// Either the node is malformed or its expander never got
		// clicked; both drop the record.
		return models.Review{}, errMissingText
	}

	dateRaw := strings.TrimSpace(s.FindMatcher(dateMatcher).First().Text())
	if dateRaw == "" {
		return models.Review{}, errMissingDate
	}
	date, monthKnown, err := NormalizeDate(dateRaw, e.now())
	if err != nil {
		return models.Review{}, fmt.Errorf("bad date: %w", err)
	}
	if !monthKnown {
		slog.Warn("unrecognized month name, defaulted to 01", "date", dateRaw)
	}

	return models.Review{
		Name:   name,
		Rating: rating,
		Text:   text,
		Date:   date,
	}, nil
}
