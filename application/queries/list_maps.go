package queries

import "errors"

// ListMapsQuery lists a user's maps, paginated and newest first.
type ListMapsQuery struct {
	UserID   string
	Page     int
	PageSize int
}

// Validate validates the ListMapsQuery
func (q ListMapsQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.Page < 0 || q.PageSize < 0 {
		return errors.New("page and page size must not be negative")
	}
	return nil
}

// ListMapsResult represents one page of a user's maps
type ListMapsResult struct {
	Maps     []MapSummary `json:"maps"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}
