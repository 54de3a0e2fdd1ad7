package models

// Review is one structured record extracted from the widget.
// A Review is only ever constructed with all four fields present;
// records missing any field are skipped during extraction.
type Review struct {
	// Name is the reviewer's display name.
	Name string `json:"name"`

	// Rating is the star rating in 1..5. The source value is a float
	// ("4.", "4.9") truncated toward zero, matching the widget's own
	// rounding semantics.
	Rating int `json:"rating"`

	// Text is the full review body after all truncation expanders
	// have been clicked.
	Text string `json:"text"`

	// Date is the review date in canonical YYYY-MM-DD form.
	Date string `json:"date"`
}

// Skipped records one review node that was dropped during extraction
// and why. Skips never abort a batch; they exist so that a run's
// losses are inspectable instead of silently swallowed.
type Skipped struct {
	// Index is the node's position in the captured snapshot,
	// counting from zero in document order.
	Index int `json:"index"`

	// Reason is a short machine-readable cause ("missing name",
	// "bad rating", ...).
	Reason string `json:"reason"`
}
