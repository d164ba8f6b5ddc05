// Package emulator is an in-memory stand-in for the order-management
// backend. It speaks the same REST contract as the real service, including
// Basic auth and the status transition rules, and is used by
// cmd/order-emulator and by tests.
package emulator

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BearBump/OrderConsole/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

var allowed = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusCreated: {models.OrderStatusPacked, models.OrderStatusCancelled},
	models.OrderStatusPacked:  {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped: {models.OrderStatusDelivered},
}

func CanTransition(from, to models.OrderStatus) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

type event struct {
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
	Note       *string   `json:"note"`
}

type order struct {
	ID         string             `json:"id"`
	CustomerID string             `json:"customerId"`
	Status     models.OrderStatus `json:"status"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
	History    []event            `json:"history"`
}

type Emulator struct {
	user     string
	password string
	now      func() time.Time

	mu     sync.Mutex
	orders map[string]*order
}

func New(user, password string) *Emulator {
	return &Emulator{
		user:     user,
		password: password,
		now:      func() time.Time { return time.Now().UTC() },
		orders:   make(map[string]*order),
	}
}

func (e *Emulator) WithClock(now func() time.Time) *Emulator {
	if now != nil {
		e.now = now
	}
	return e
}

// Seed stores an order as-is, bypassing validation. Used for fixtures.
func (e *Emulator) Seed(id, customerID string, status models.OrderStatus, createdAt, updatedAt time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.orders[id] = &order{
		ID: id, CustomerID: customerID, Status: status,
		CreatedAt: createdAt.UTC(), UpdatedAt: updatedAt.UTC(),
		History: []event{{Status: string(status), OccurredAt: updatedAt.UTC()}},
	}
}

func (e *Emulator) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer, e.basicAuth)
	r.Post("/api/orders", e.register)
	r.Get("/api/orders", e.list)
	r.Get("/api/orders/{id}", e.get)
	r.Put("/api/orders/{id}/status", e.updateStatus)
	return r
}

func (e *Emulator) basicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != e.user || p != e.password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Realm"`)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (e *Emulator) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "Failed to read request")
		return
	}
	if strings.TrimSpace(req.OrderID) == "" || strings.TrimSpace(req.CustomerID) == "" {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "Invalid request content.")
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.orders[req.OrderID]; ok {
		writeProblem(w, http.StatusConflict, "Business rule violation", "Order already exists: "+req.OrderID)
		return
	}
	now := e.now()
	created := "Order created"
	o := &order{
		ID: req.OrderID, CustomerID: req.CustomerID, Status: models.OrderStatusCreated,
		CreatedAt: now, UpdatedAt: now,
		History: []event{{Status: string(models.OrderStatusCreated), OccurredAt: now, Note: &created}},
	}
	e.orders[o.ID] = o
	writeJSON(w, http.StatusCreated, o)
}

func (e *Emulator) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e.mu.Lock()
	defer e.mu.Unlock()
	o, ok := e.orders[id]
	if !ok {
		writeProblem(w, http.StatusNotFound, "Resource not found", "Order not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (e *Emulator) updateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req models.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "Failed to read request")
		return
	}
	// Бэкенд требует непустую заметку.
	if !req.Status.Known() || req.Note == nil || strings.TrimSpace(*req.Note) == "" {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "Invalid request content.")
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	o, ok := e.orders[id]
	if !ok {
		writeProblem(w, http.StatusNotFound, "Resource not found", "Order not found: "+id)
		return
	}
	if !CanTransition(o.Status, req.Status) {
		writeProblem(w, http.StatusConflict, "Business rule violation",
			fmt.Sprintf("Invalid transition from %s to %s", o.Status, req.Status))
		return
	}
	now := e.now()
	o.Status = req.Status
	o.UpdatedAt = now
	o.History = append(o.History, event{Status: string(req.Status), OccurredAt: now, Note: req.Note})
	writeJSON(w, http.StatusOK, o)
}

func (e *Emulator) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	orderID := strings.ToLower(q.Get("orderId"))
	customerID := strings.ToLower(q.Get("customerId"))
	status := q.Get("status")

	var from, to time.Time
	for _, p := range []struct {
		key string
		dst *time.Time
	}{{"updatedFrom", &from}, {"updatedTo", &to}} {
		if v := q.Get(p.key); v != "" {
			t, err := time.Parse(time.RFC3339Nano, v)
			if err != nil {
				writeProblem(w, http.StatusBadRequest, "Bad Request", "Invalid "+p.key)
				return
			}
			*p.dst = t
		}
	}

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 0 {
		page = 0
	}
	size, _ := strconv.Atoi(q.Get("size"))
	if size <= 0 {
		size = 50
	}
	if size > models.MaxPageSize {
		size = models.MaxPageSize
	}
	sortBy := q.Get("sortBy")
	if sortBy == "" {
		sortBy = string(models.SortByUpdatedAt)
	}
	desc := q.Get("sortDir") != string(models.SortAsc)

	e.mu.Lock()
	matched := make([]order, 0, len(e.orders))
	for _, o := range e.orders {
		if orderID != "" && !strings.Contains(strings.ToLower(o.ID), orderID) {
			continue
		}
		if customerID != "" && !strings.Contains(strings.ToLower(o.CustomerID), customerID) {
			continue
		}
		if status != "" && string(o.Status) != status {
			continue
		}
		if !from.IsZero() && o.UpdatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && o.UpdatedAt.After(to) {
			continue
		}
		matched = append(matched, *o)
	}
	e.mu.Unlock()

	key := func(o order) time.Time {
		if sortBy == string(models.SortByCreatedAt) {
			return o.CreatedAt
		}
		return o.UpdatedAt
	}
	sort.SliceStable(matched, func(i, j int) bool {
		ki, kj := key(matched[i]), key(matched[j])
		if ki.Equal(kj) {
			return matched[i].ID < matched[j].ID
		}
		if desc {
			return ki.After(kj)
		}
		return ki.Before(kj)
	})

	// page*size может переполниться
	start := len(matched)
	if page <= len(matched)/size {
		start = min(page*size, len(matched))
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}
	writeJSON(w, http.StatusOK, matched[start:end])
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func writeProblem(w http.ResponseWriter, code int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: code, Detail: detail})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
