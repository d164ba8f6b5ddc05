package console

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/BearBump/OrderConsole/internal/integrations/orderapi"
	"github.com/BearBump/OrderConsole/internal/integrations/orderapi/emulator"
	"github.com/BearBump/OrderConsole/internal/metrics"
	"github.com/BearBump/OrderConsole/internal/models"
	"github.com/BearBump/OrderConsole/internal/services/auditlog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func newEmulatorConsole(t *testing.T, opts Options) (*Console, *emulator.Emulator) {
	t.Helper()
	emu := emulator.New("api-user", "change-me")
	srv := httptest.NewServer(emu.Handler())
	t.Cleanup(srv.Close)

	gw := orderapi.New(srv.URL, "api-user", "change-me")
	return New(gw, auditlog.New(nil, "it"), opts), emu
}

func TestConsole_RegisterThenUpdateScenario(t *testing.T) {
	c, _ := newEmulatorConsole(t, Options{})
	ctx := context.Background()

	reg := c.Register(ctx, "o-1001", "c-2001")
	require.True(t, reg.Succeeded())
	require.Equal(t, models.OrderStatusCreated, reg.Data.Status)

	upd := c.UpdateStatus(ctx, "o-1001", "PACKED", "left warehouse")
	require.True(t, upd.Succeeded())
	require.Equal(t, models.OrderStatusPacked, upd.Data.Status)
	last := upd.Data.History[len(upd.Data.History)-1]
	require.Equal(t, "left warehouse", *last.Note)

	entries, err := c.Actions(ctx, "", auditlog.TypeAll)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, models.ActionUpdated, entries[0].Label)
	require.Equal(t, "PACKED", *entries[0].Status)
	require.Equal(t, models.ActionCreated, entries[1].Label)
	require.Equal(t, "CREATED", *entries[1].Status)
}

func TestConsole_BackendErrorsSurfaceWithStatus(t *testing.T) {
	c, _ := newEmulatorConsole(t, Options{})
	ctx := context.Background()

	require.True(t, c.Register(ctx, "o-1", "c-1").Succeeded())
	dup := c.Register(ctx, "o-1", "c-1")
	require.True(t, dup.Failed())
	require.True(t, strings.HasPrefix(*dup.Error, "409 "))
	require.Contains(t, *dup.Error, "Order already exists: o-1")

	bad := c.UpdateStatus(ctx, "o-1", "DELIVERED", "skip ahead")
	require.True(t, strings.HasPrefix(*bad.Error, "409 "))
	require.Contains(t, *bad.Error, "Invalid transition from CREATED to DELIVERED")

	// ошибка остаётся в своём действии
	require.True(t, c.State().Register.Failed())
	require.Nil(t, c.State().Track.Error)
}

func TestConsole_ListUsesLocalTimeZone(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	c, emu := newEmulatorConsole(t, Options{Location: loc})
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	emu.Seed("o-old", "c-1", models.OrderStatusCreated, base, base.Add(-2*time.Hour))
	emu.Seed("o-new", "c-1", models.OrderStatusPacked, base, base.Add(time.Hour))

	// 2024-01-01T02:00 в UTC+3 это 2023-12-31T23:00Z
	snap := c.List(context.Background(), ListParams{UpdatedFrom: "2024-01-01T02:00", CustomerID: "C-1"})
	require.True(t, snap.Succeeded())
	require.Len(t, *snap.Data, 1)
	require.Equal(t, "o-new", (*snap.Data)[0].ID)

	q, err := c.buildQuery(ListParams{UpdatedFrom: "2024-01-01T02:00"})
	require.NoError(t, err)
	require.Equal(t, "updatedFrom=2023-12-31T23%3A00%3A00.000Z&page=0&size=25&sortBy=updatedAt&sortDir=desc",
		orderapi.BuildListQuery(q))
}

func TestConsole_ExportsFollowLastList(t *testing.T) {
	c, emu := newEmulatorConsole(t, Options{})
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	emu.Seed("o-1", "c-1", models.OrderStatusShipped, base, base)

	var buf bytes.Buffer
	ok, err := c.ExportOrdersCSV(&buf)
	require.NoError(t, err)
	require.False(t, ok)

	require.True(t, c.List(context.Background(), ListParams{}).Succeeded())
	ok, err = c.ExportOrdersJSON(&buf)
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, buf.String(), `"id": "o-1"`)

	buf.Reset()
	ok, err = c.ExportActionsCSV(context.Background(), &buf)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestConsole_MetricsByOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewGatewayMetrics(reg)
	c, _ := newEmulatorConsole(t, Options{Metrics: m})
	ctx := context.Background()

	c.Track(ctx, "")
	c.Track(ctx, "missing")
	c.Register(ctx, "o-1", "c-1")

	require.Equal(t, 1.0, testutil.ToFloat64(m.Calls.WithLabelValues(ActionTrack, metrics.OutcomeValidation)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Calls.WithLabelValues(ActionTrack, metrics.OutcomeHTTP)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Calls.WithLabelValues(ActionRegister, metrics.OutcomeOK)))
}

func TestConsole_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	c := New(orderapi.New(url, "u", "p"), nil, Options{})
	snap := c.Track(context.Background(), "o-1")
	require.True(t, snap.Failed())
	require.NotEmpty(t, *snap.Error)
	require.False(t, strings.HasPrefix(*snap.Error, "malformed"))
}

func TestConsole_NullOrderResponseFailsAction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))
	defer srv.Close()

	log := auditlog.New(nil, "null")
	c := New(orderapi.New(srv.URL, "u", "p"), log, Options{})
	snap := c.Register(context.Background(), "o-1", "c-1")
	require.True(t, snap.Failed())
	require.True(t, strings.HasPrefix(*snap.Error, "malformed response"))

	entries, err := log.Entries(context.Background())
	require.NoError(t, err)
	require.Empty(t, entries)
	active, _ := c.ActiveOrder()
	require.Nil(t, active)
}
