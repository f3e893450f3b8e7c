package domain

// SearchKey identifies one search query for caching purposes.
type SearchKey struct {
	Origin     string
	Dest       string
	DirectOnly bool
	Day        int
	Limit      int
}
