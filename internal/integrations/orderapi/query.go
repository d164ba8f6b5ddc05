package orderapi

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/BearBump/OrderConsole/internal/models"
)

// BuildListQuery encodes only the parameters that carry a value. Page is
// sent whenever it is set, zero included; size only when non-zero.
// Keys keep a fixed order so the output is stable for logs and tests.
func BuildListQuery(q models.ListQuery) string {
	var b strings.Builder
	add := func(k, v string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v))
	}

	if q.OrderID != "" {
		add("orderId", q.OrderID)
	}
	if q.CustomerID != "" {
		add("customerId", q.CustomerID)
	}
	if q.Status != "" {
		add("status", q.Status)
	}
	if q.UpdatedFrom != nil {
		add("updatedFrom", q.UpdatedFrom.UTC().Format(models.ISOMillis))
	}
	if q.UpdatedTo != nil {
		add("updatedTo", q.UpdatedTo.UTC().Format(models.ISOMillis))
	}
	if q.Page != nil {
		add("page", strconv.Itoa(*q.Page))
	}
	if q.Size != 0 {
		add("size", strconv.Itoa(q.Size))
	}
	if q.SortBy != "" {
		add("sortBy", string(q.SortBy))
	}
	if q.SortDir != "" {
		add("sortDir", string(q.SortDir))
	}
	return b.String()
}

func ListPath(q models.ListQuery) string {
	if s := BuildListQuery(q); s != "" {
		return "/api/orders?" + s
	}
	return "/api/orders"
}
