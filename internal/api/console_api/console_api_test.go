package console_api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/BearBump/OrderConsole/internal/integrations/orderapi"
	"github.com/BearBump/OrderConsole/internal/integrations/orderapi/emulator"
	"github.com/BearBump/OrderConsole/internal/models"
	"github.com/BearBump/OrderConsole/internal/services/auditlog"
	"github.com/BearBump/OrderConsole/internal/services/console"
	"github.com/BearBump/OrderConsole/internal/services/reqstate"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	backend := httptest.NewServer(emulator.New("api-user", "change-me").Handler())
	t.Cleanup(backend.Close)

	c := console.New(orderapi.New(backend.URL, "api-user", "change-me"), auditlog.New(nil, "api-test"), console.Options{})
	r := chi.NewRouter()
	New(c).Register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) reqstate.Snapshot[models.Order] {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap reqstate.Snapshot[models.Order]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	return snap
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestConsoleAPI_Flow(t *testing.T) {
	srv := newServer(t)

	snap := post(t, srv, "/console/register", `{"orderId":"o-1001","customerId":"c-2001"}`)
	require.NotNil(t, snap.Data)
	require.Equal(t, models.OrderStatusCreated, snap.Data.Status)

	snap = post(t, srv, "/console/update", `{"orderId":"o-1001","status":"PACKED","note":"left warehouse"}`)
	require.NotNil(t, snap.Data)
	require.Equal(t, models.OrderStatusPacked, snap.Data.Status)

	snap = post(t, srv, "/console/track", `{"orderId":"missing"}`)
	require.NotNil(t, snap.Error)
	require.True(t, strings.HasPrefix(*snap.Error, "404 "))

	resp, body := get(t, srv, "/console/actions?orderId=O-10&type=created")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entries []models.ActionEntry
	require.NoError(t, json.Unmarshal([]byte(body), &entries))
	require.Len(t, entries, 1)
	require.Equal(t, models.ActionCreated, entries[0].Label)

	resp, body = get(t, srv, "/console/state")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st struct {
		ActiveOrder   *models.Order `json:"activeOrder"`
		SnapshotLabel string        `json:"snapshotLabel"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &st))
	require.Equal(t, "o-1001", st.ActiveOrder.ID)
	require.Equal(t, console.LabelOrderUpdated, st.SnapshotLabel)

	resp, body = get(t, srv, "/console/actions/export.csv")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Disposition"), "order-actions.csv")
	require.True(t, strings.HasPrefix(body, `"timestamp","action","orderId","status"`))
}

func TestConsoleAPI_ValidationIsInSnapshot(t *testing.T) {
	srv := newServer(t)

	snap := post(t, srv, "/console/register", ``)
	require.Nil(t, snap.Data)
	require.False(t, snap.Loading)
	require.Equal(t, string(console.ErrRegisterRequired), *snap.Error)

	snap = post(t, srv, "/console/update", `{"orderId":"o-1"}`)
	require.Equal(t, string(console.ErrUpdateRequired), *snap.Error)
}

func TestConsoleAPI_BadJSON(t *testing.T) {
	srv := newServer(t)
	resp, err := http.Post(srv.URL+"/console/track", "application/json", strings.NewReader(`{`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestConsoleAPI_ListAndExports(t *testing.T) {
	srv := newServer(t)

	resp, _ := get(t, srv, "/console/orders/export.csv")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = get(t, srv, "/console/actions/export.csv")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	post(t, srv, "/console/register", `{"orderId":"o-1","customerId":"c-1"}`)

	lr, err := http.Post(srv.URL+"/console/list", "application/json", strings.NewReader(`{"size":10,"sortDir":"asc"}`))
	require.NoError(t, err)
	var listSnap reqstate.Snapshot[[]models.Order]
	require.NoError(t, json.NewDecoder(lr.Body).Decode(&listSnap))
	lr.Body.Close()
	require.Len(t, *listSnap.Data, 1)

	resp, body := get(t, srv, "/console/orders/export.json")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.Contains(t, body, `"id": "o-1"`)

	resp, body = get(t, srv, "/console/orders/export.csv")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, strings.HasPrefix(body, `"id","customerId","status","createdAt","updatedAt"`))

	lr, err = http.Post(srv.URL+"/console/list", "application/json", strings.NewReader(`{"updatedFrom":"not a date"}`))
	require.NoError(t, err)
	listSnap = reqstate.Snapshot[[]models.Order]{}
	require.NoError(t, json.NewDecoder(lr.Body).Decode(&listSnap))
	lr.Body.Close()
	require.Equal(t, string(console.ErrUpdatedFromInvalid), *listSnap.Error)
}

type archiveStub struct {
	sessionID string
	limit     int
}

func (a *archiveStub) ListSessionActions(_ context.Context, sessionID string, limit int) ([]models.ActionEntry, error) {
	a.sessionID, a.limit = sessionID, limit
	status := "CREATED"
	return []models.ActionEntry{{
		Label: models.ActionCreated, OrderID: "o-1", Status: &status,
		Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}}, nil
}

func TestConsoleAPI_ArchivedActions(t *testing.T) {
	srv := newServer(t)
	resp, _ := get(t, srv, "/console/actions/archive")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	arch := &archiveStub{}
	c := console.New(orderapi.New("http://127.0.0.1:0", "u", "p"), auditlog.New(nil, "sess-arch"),
		console.Options{Archive: arch})
	r := chi.NewRouter()
	New(c).Register(r)
	withArchive := httptest.NewServer(r)
	defer withArchive.Close()

	resp, body := get(t, withArchive, "/console/actions/archive?limit=20")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "sess-arch", arch.sessionID)
	require.Equal(t, 20, arch.limit)

	var entries []models.ActionEntry
	require.NoError(t, json.Unmarshal([]byte(body), &entries))
	require.Len(t, entries, 1)
	require.Equal(t, "o-1", entries[0].OrderID)
}
