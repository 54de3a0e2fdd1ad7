package models

// ReviewsResponse is the response body for POST /api/v1/reviews.
type ReviewsResponse struct {
	Success bool `json:"success"`

	// Reviews is the ordered list of fully-formed records,
	// top-to-bottom as they appeared in the widget.
	Reviews []Review `json:"reviews,omitempty"`

	// Count duplicates len(Reviews) for client convenience.
	Count int `json:"count"`

	// SkippedItems lists review nodes dropped during extraction.
	SkippedItems []Skipped `json:"skipped,omitempty"`

	// Cached is true when the response was served from the cache.
	Cached bool `json:"cached,omitempty"`

	Error *ErrorDetail `json:"error,omitempty"`
}

// HealthResponse is the response body for GET /api/v1/health.
type HealthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	MaxPages      int    `json:"max_pages"`
	ActivePages   int    `json:"active_pages"`
}

// PoolStats is a snapshot of the browser page pool.
type PoolStats struct {
	MaxPages    int
	ActivePages int
}
