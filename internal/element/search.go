package element

// SearchResult is produced by C2 for one query evaluation.
type SearchResult struct {
	Elements     []Element `json:"elements"`
	DurationMs   int64     `json:"duration_ms"`
	SearchedCount int      `json:"searched_count"`
}
