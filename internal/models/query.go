package models

import "time"

type SortBy string

const (
	SortByUpdatedAt SortBy = "updatedAt"
	SortByCreatedAt SortBy = "createdAt"
)

type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

const MaxPageSize = 500

// ListQuery is the validated order-list query. Page is nil when unset; an
// explicit zero page is meaningful. Size 0 means unset.
type ListQuery struct {
	OrderID     string
	CustomerID  string
	Status      string
	UpdatedFrom *time.Time
	UpdatedTo   *time.Time
	Page        *int
	Size        int
	SortBy      SortBy
	SortDir     SortDir
}
