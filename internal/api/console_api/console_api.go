package console_api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/BearBump/OrderConsole/internal/export"
	"github.com/BearBump/OrderConsole/internal/models"
	"github.com/BearBump/OrderConsole/internal/services/console"
	"github.com/go-chi/chi/v5"
)

// ConsoleAPI exposes one console session over HTTP/JSON.
type ConsoleAPI struct {
	console *console.Console
}

func New(c *console.Console) *ConsoleAPI {
	return &ConsoleAPI{console: c}
}

type registerReq struct {
	OrderID    string `json:"orderId"`
	CustomerID string `json:"customerId"`
}

type trackReq struct {
	OrderID string `json:"orderId"`
}

type updateReq struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
	Note    string `json:"note"`
}

func (a *ConsoleAPI) Register(r chi.Router) {
	r.Route("/console", func(r chi.Router) {
		r.Post("/register", a.register)
		r.Post("/track", a.track)
		r.Post("/update", a.update)
		r.Post("/list", a.list)
		r.Get("/state", a.state)
		r.Get("/actions", a.actions)
		r.Get("/actions/archive", a.archivedActions)
		r.Get("/actions/export.csv", a.exportActionsCSV)
		r.Get("/orders/export.csv", a.exportOrdersCSV)
		r.Get("/orders/export.json", a.exportOrdersJSON)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// decode accepts an empty body: the console validation reports missing fields.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// detached keeps the order API call alive if the HTTP client goes away.
func detached(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func (a *ConsoleAPI) register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	writeJSON(w, http.StatusOK, a.console.Register(detached(r), req.OrderID, req.CustomerID))
}

func (a *ConsoleAPI) track(w http.ResponseWriter, r *http.Request) {
	var req trackReq
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	writeJSON(w, http.StatusOK, a.console.Track(detached(r), req.OrderID))
}

func (a *ConsoleAPI) update(w http.ResponseWriter, r *http.Request) {
	var req updateReq
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	writeJSON(w, http.StatusOK, a.console.UpdateStatus(detached(r), req.OrderID, req.Status, req.Note))
}

func (a *ConsoleAPI) list(w http.ResponseWriter, r *http.Request) {
	var req console.ListParams
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	writeJSON(w, http.StatusOK, a.console.List(detached(r), req))
}

func (a *ConsoleAPI) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.console.State())
}

func (a *ConsoleAPI) actions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, err := a.console.Actions(r.Context(), q.Get("orderId"), q.Get("type"))
	if err != nil {
		slog.Error("list actions", "session_id", a.console.SessionID(), "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "audit log unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (a *ConsoleAPI) archivedActions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := a.console.ArchivedActions(r.Context(), limit)
	if errors.Is(err, console.ErrNoArchive) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		slog.Error("read action archive", "session_id", a.console.SessionID(), "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "action archive unavailable"})
		return
	}
	if entries == nil {
		entries = []models.ActionEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (a *ConsoleAPI) exportActionsCSV(w http.ResponseWriter, r *http.Request) {
	a.download(w, export.ActionsCSVFile, "text/csv; charset=utf-8", func(dst io.Writer) (bool, error) {
		return a.console.ExportActionsCSV(r.Context(), dst)
	})
}

func (a *ConsoleAPI) exportOrdersCSV(w http.ResponseWriter, r *http.Request) {
	a.download(w, export.OrdersCSVFile, "text/csv; charset=utf-8", a.console.ExportOrdersCSV)
}

func (a *ConsoleAPI) exportOrdersJSON(w http.ResponseWriter, r *http.Request) {
	a.download(w, export.OrdersJSONFile, "application/json", a.console.ExportOrdersJSON)
}

// download buffers the export so that "nothing to export" can still answer 204.
func (a *ConsoleAPI) download(w http.ResponseWriter, filename, contentType string, write func(io.Writer) (bool, error)) {
	var buf bytes.Buffer
	ok, err := write(&buf)
	if err != nil {
		slog.Warn("export failed", "file", filename, "error", err.Error())
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
