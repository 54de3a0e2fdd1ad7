package models

// ReviewsRequest is the request body for POST /api/v1/reviews.
type ReviewsRequest struct {
	// URL is the map-business page whose review widget is harvested.
	URL string `json:"url" binding:"required"`

	// Timeout is the overall deadline in seconds for the whole
	// acquisition. 0 means the server default; values above the
	// configured maximum are clamped.
	Timeout int `json:"timeout,omitempty"`

	// CacheMaxAgeMs enables the response cache: a cached result
	// younger than this many milliseconds is returned without
	// touching the browser. 0 disables cache lookup.
	CacheMaxAgeMs int `json:"cache_max_age_ms,omitempty"`

	// Stealth toggles stealth JS injection before navigation.
	// Defaults to true; map pages are aggressively bot-checked.
	Stealth *bool `json:"stealth,omitempty"`
}

// Defaults fills zero-valued optional fields.
func (r *ReviewsRequest) Defaults() {
	if r.Stealth == nil {
		t := true
		r.Stealth = &t
	}
}
