package console

import (
	"strings"
	"time"

	"github.com/BearBump/OrderConsole/internal/models"
)

// ListParams is the list form as the operator filled it in. Dates are raw
// input; nil Page/Size and empty sort fields fall back to the console defaults.
type ListParams struct {
	OrderID     string `json:"orderId"`
	CustomerID  string `json:"customerId"`
	Status      string `json:"status"`
	UpdatedFrom string `json:"updatedFrom"`
	UpdatedTo   string `json:"updatedTo"`
	Page        *int   `json:"page"`
	Size        *int   `json:"size"`
	SortBy      string `json:"sortBy"`
	SortDir     string `json:"sortDir"`
}

// Форматы без смещения читаются в часовом поясе консоли.
var localLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (c *Console) buildQuery(p ListParams) (models.ListQuery, error) {
	q := models.ListQuery{
		OrderID:    strings.TrimSpace(p.OrderID),
		CustomerID: strings.TrimSpace(p.CustomerID),
		Status:     strings.TrimSpace(p.Status),
	}

	from, ok := c.parseDate(p.UpdatedFrom)
	if !ok {
		return q, ErrUpdatedFromInvalid
	}
	to, ok := c.parseDate(p.UpdatedTo)
	if !ok {
		return q, ErrUpdatedToInvalid
	}
	q.UpdatedFrom, q.UpdatedTo = from, to

	page := c.defs.Page
	if p.Page != nil {
		page = *p.Page
	}
	if page < 0 {
		return q, ErrPageInvalid
	}
	q.Page = &page

	q.Size = c.defs.Size
	if p.Size != nil {
		q.Size = *p.Size
	}
	if q.Size < 1 || q.Size > models.MaxPageSize {
		return q, ErrSizeInvalid
	}

	q.SortBy = c.defs.SortBy
	switch sb := models.SortBy(strings.TrimSpace(p.SortBy)); sb {
	case "":
	case models.SortByUpdatedAt, models.SortByCreatedAt:
		q.SortBy = sb
	default:
		return q, ErrSortByInvalid
	}

	q.SortDir = c.defs.SortDir
	switch sd := models.SortDir(strings.ToLower(strings.TrimSpace(p.SortDir))); sd {
	case "":
	case models.SortAsc, models.SortDesc:
		q.SortDir = sd
	default:
		return q, ErrSortDirInvalid
	}

	return q, nil
}

// parseDate returns nil for blank input and ok=false for anything that is
// not a recognizable date.
func (c *Console) parseDate(raw string) (*time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return &t, true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, c.loc); err == nil {
			return &t, true
		}
	}
	return nil, false
}
