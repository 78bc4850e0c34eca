package repository

// Pagination bounds a listing query. A zero Limit leaves the repository
// default in place, which is no explicit bound.
type Pagination struct {
	Skip  int
	Limit int
}

// SortOrder selects the direction of a sorted listing.
type SortOrder string

const (
	// SortAsc sorts ascending.
	SortAsc SortOrder = "asc"
	// SortDesc sorts descending.
	SortDesc SortOrder = "desc"
)
