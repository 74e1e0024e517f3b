package models

// Page is the envelope for paginated listings that report a total.
type Page[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	HasMore    bool  `json:"hasMore"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
}

// NewPage builds a Page, normalising nil items to an empty slice.
func NewPage[T any](items []T, total int64, page, limit int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		TotalCount: total,
		HasMore:    int64(page*limit) < total,
		Page:       page,
		Limit:      limit,
	}
}
