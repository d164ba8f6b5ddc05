// Package export renders in-memory collections as downloadable files.
// Exports are best-effort: with nothing to export they write nothing and
// report false instead of failing.
package export

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/BearBump/OrderConsole/internal/models"
	"github.com/pkg/errors"
)

const (
	ActionsCSVFile = "order-actions.csv"
	OrdersCSVFile  = "orders.csv"
	OrdersJSONFile = "orders.json"
)

var ordersHeader = []string{"id", "customerId", "status", "createdAt", "updatedAt"}

// QuotedCSV writes rows with every field double-quoted and inner quotes
// doubled. Rows are separated by "\n" with no trailing newline.
//
// encoding/csv only quotes fields that need it, which is why this is
// hand-written.
func QuotedCSV(w io.Writer, rows [][]string) error {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, v := range row {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(v, `"`, `""`))
			b.WriteByte('"')
		}
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Wrap(err, "write csv")
	}
	return nil
}

// OrdersCSV keeps the collection order and the timestamps as received.
func OrdersCSV(w io.Writer, orders []models.Order) (bool, error) {
	if len(orders) == 0 {
		return false, nil
	}
	rows := make([][]string, 0, len(orders)+1)
	rows = append(rows, ordersHeader)
	for _, o := range orders {
		rows = append(rows, []string{
			o.ID,
			o.CustomerID,
			string(o.Status),
			o.CreatedAt.String(),
			o.UpdatedAt.String(),
		})
	}
	if err := QuotedCSV(w, rows); err != nil {
		return false, err
	}
	return true, nil
}

// OrdersJSON pretty-prints the collection exactly as the backend sent it.
func OrdersJSON(w io.Writer, orders []models.Order) (bool, error) {
	if len(orders) == 0 {
		return false, nil
	}
	b, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return false, errors.Wrap(err, "marshal orders")
	}
	if _, err := w.Write(b); err != nil {
		return false, errors.Wrap(err, "write json")
	}
	return true, nil
}
