package orderapi

import (
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/BearBump/OrderConsole/internal/models"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestBuildListQuery_OmitsEmptyFilters(t *testing.T) {
	got := BuildListQuery(models.ListQuery{
		Page:    intPtr(1),
		Size:    25,
		SortBy:  models.SortByUpdatedAt,
		SortDir: models.SortDesc,
	})
	require.Equal(t, "page=1&size=25&sortBy=updatedAt&sortDir=desc", got)

	vals, err := url.ParseQuery(got)
	require.NoError(t, err)
	for _, k := range []string{"orderId", "customerId", "status"} {
		_, ok := vals[k]
		require.False(t, ok, k)
	}
}

func TestBuildListQuery_PageZeroIsSent(t *testing.T) {
	for _, p := range []int{0, 1, 2, 17} {
		vals, err := url.ParseQuery(BuildListQuery(models.ListQuery{Page: intPtr(p)}))
		require.NoError(t, err)
		require.Equal(t, []string{strconv.Itoa(p)}, vals["page"])
	}
	require.Empty(t, BuildListQuery(models.ListQuery{}))
}

func TestBuildListQuery_SizeZeroIsUnset(t *testing.T) {
	require.Equal(t, "page=0", BuildListQuery(models.ListQuery{Page: intPtr(0), Size: 0}))
}

func TestBuildListQuery_AllFields(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.FixedZone("X", 3*3600))
	to := time.Date(2024, 2, 1, 12, 30, 0, 0, time.UTC)
	got := BuildListQuery(models.ListQuery{
		OrderID:     "o 1&2",
		CustomerID:  "c-1",
		Status:      "SHIPPED",
		UpdatedFrom: &from,
		UpdatedTo:   &to,
		Page:        intPtr(0),
		Size:        500,
		SortBy:      models.SortByCreatedAt,
		SortDir:     models.SortAsc,
	})
	require.Equal(t,
		"orderId=o+1%262&customerId=c-1&status=SHIPPED"+
			"&updatedFrom=2023-12-31T21%3A00%3A00.000Z&updatedTo=2024-02-01T12%3A30%3A00.000Z"+
			"&page=0&size=500&sortBy=createdAt&sortDir=asc", got)

	vals, err := url.ParseQuery(got)
	require.NoError(t, err)
	require.Equal(t, "o 1&2", vals.Get("orderId"))
}

func TestListPath(t *testing.T) {
	require.Equal(t, "/api/orders", ListPath(models.ListQuery{}))
	require.Equal(t, "/api/orders?status=CREATED", ListPath(models.ListQuery{Status: "CREATED"}))
}
