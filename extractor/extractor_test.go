package extractor

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testExtractor(t *testing.T) *Extractor {
	t.Helper()
	ex, err := New(DefaultItemSelector)
	require.NoError(t, err)
	ex.now = func() time.Time { return fixedNow }
	return ex
}

// reviewNode builds one review card. Empty fields are omitted from the
// markup entirely, which is how the live widget renders broken cards.
func reviewNode(name, rating, text, date string) string {
	var b strings.Builder
	b.WriteString(`<div class="business-reviews-card-view__review"><div class="business-review-view">`)
	if name != "" {
		fmt.Fprintf(&b, `<a class="business-review-view__user"><span itemprop="name">%s</span></a>`, name)
	}
	if rating != "" {
		fmt.Fprintf(&b, `<div class="business-review-view__rating"><meta itemprop="ratingValue" content="%s"></div>`, rating)
	}
	if text != "" {
		fmt.Fprintf(&b, `<span class="business-review-view__body-text">%s</span>`, text)
	}
	if date != "" {
		fmt.Fprintf(&b, `<span class="business-review-view__date">%s</span>`, date)
	}
	b.WriteString(`</div></div>`)
	return b.String()
}

func snapshot(nodes ...string) string {
	return `<div class="business-reviews-card-view__reviews-container">` +
		strings.Join(nodes, "") + `</div>`
}

func TestExtractAll_WellFormed(t *testing.T) {
	ex := testExtractor(t)

	revs, skipped := ex.ExtractAll(snapshot(
		reviewNode("Анна", "5.", "Отличное место!", "5 мая 2023"),
	))

	require.Len(t, revs, 1)
	assert.Empty(t, skipped)
	assert.Equal(t, "Анна", revs[0].Name)
	assert.Equal(t, 5, revs[0].Rating)
	assert.Equal(t, "Отличное место!", revs[0].Text)
	assert.Equal(t, "2023-05-05", revs[0].Date)
}

func TestExtractAll_RatingTruncatesNotRounds(t *testing.T) {
	ex := testExtractor(t)

	revs, skipped := ex.ExtractAll(snapshot(
		reviewNode("A", "4.0", "text", "5 мая 2023"),
		reviewNode("B", "4.9", "text", "5 мая 2023"),
	))

	require.Len(t, revs, 2)
	assert.Empty(t, skipped)
	assert.Equal(t, 4, revs[0].Rating)
	assert.Equal(t, 4, revs[1].Rating)
}

func TestExtractAll_DropsRecordsMissingFields(t *testing.T) {
	ex := testExtractor(t)

	revs, skipped := ex.ExtractAll(snapshot(
		reviewNode("Первый", "5.", "ok", "1 января 2023"),
		reviewNode("", "4.", "ok", "2 января 2023"), // no name
		reviewNode("Третий", "3.", "ok", "3 января 2023"),
		reviewNode("Четвёртый", "2.", "", "4 января 2023"), // no text
		reviewNode("Пятый", "1.", "ok", "5 января 2023"),
	))

	// Survivors keep their original relative order.
	require.Len(t, revs, 3)
	assert.Equal(t, "Первый", revs[0].Name)
	assert.Equal(t, "Третий", revs[1].Name)
	assert.Equal(t, "Пятый", revs[2].Name)

	require.Len(t, skipped, 2)
	assert.Equal(t, 1, skipped[0].Index)
	assert.Equal(t, "missing name", skipped[0].Reason)
	assert.Equal(t, 3, skipped[1].Index)
	assert.Equal(t, "missing text", skipped[1].Reason)
}

func TestExtractAll_MissingRatingMeta(t *testing.T) {
	ex := testExtractor(t)

	// Two well-formed nodes around one missing its rating meta element:
	// exactly two records come out, order preserved, nothing panics.
	revs, skipped := ex.ExtractAll(snapshot(
		reviewNode("A", "5.", "first", "1 марта 2023"),
		reviewNode("B", "", "second", "2 марта 2023"),
		reviewNode("C", "4.", "third", "3 марта 2023"),
	))

	require.Len(t, revs, 2)
	assert.Equal(t, "A", revs[0].Name)
	assert.Equal(t, "C", revs[1].Name)
	require.Len(t, skipped, 1)
	assert.Equal(t, "missing rating", skipped[0].Reason)
}

func TestExtractAll_UnparseableRatingAndDate(t *testing.T) {
	ex := testExtractor(t)

	revs, skipped := ex.ExtractAll(snapshot(
		reviewNode("A", "five", "text", "1 марта 2023"),
		reviewNode("B", "4.", "text", "вчера"),
	))

	assert.Empty(t, revs)
	require.Len(t, skipped, 2)
	assert.Equal(t, "unparseable rating", skipped[0].Reason)
	assert.Contains(t, skipped[1].Reason, "bad date")
}

func TestExtractAll_TwoTokenDateUsesCurrentYear(t *testing.T) {
	ex := testExtractor(t)

	revs, _ := ex.ExtractAll(snapshot(
		reviewNode("A", "5.", "text", "7 августа"),
	))

	require.Len(t, revs, 1)
	assert.Equal(t, "2024-08-07", revs[0].Date)
}

func TestExtractAll_EmptySnapshot(t *testing.T) {
	ex := testExtractor(t)

	revs, skipped := ex.ExtractAll(snapshot())
	assert.Empty(t, revs)
	assert.Empty(t, skipped)
	assert.NotNil(t, revs, "empty result is an empty slice, not nil")
}

func TestExtractAll_TrimsWhitespace(t *testing.T) {
	ex := testExtractor(t)

	revs, _ := ex.ExtractAll(snapshot(
		reviewNode("  Анна  ", " 4.9 ", "  длинный отзыв  ", " 5 мая 2023 "),
	))

	require.Len(t, revs, 1)
	assert.Equal(t, "Анна", revs[0].Name)
	assert.Equal(t, 4, revs[0].Rating)
	assert.Equal(t, "длинный отзыв", revs[0].Text)
}

func TestNew_BadSelector(t *testing.T) {
	_, err := New("][")
	assert.Error(t, err)
}
