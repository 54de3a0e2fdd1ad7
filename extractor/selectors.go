package extractor

import "github.com/andybalholm/cascadia"

// DefaultItemSelector matches one review card inside the captured
// container snapshot.
const DefaultItemSelector = ".business-reviews-card-view__review"

// Field matchers within one review node, compiled once. The field
// markup (microdata attributes and view classes) has been stable
// across widget revisions that renamed the outer card classes.
var (
	nameMatcher   = cascadia.MustCompile(`span[itemprop="name"]`)
	ratingMatcher = cascadia.MustCompile(`meta[itemprop="ratingValue"]`)
	textMatcher   = cascadia.MustCompile(`.business-review-view__body-text`)
	dateMatcher   = cascadia.MustCompile(`.business-review-view__date`)
)
