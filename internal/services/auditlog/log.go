package auditlog

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/BearBump/OrderConsole/internal/broker/messages"
	"github.com/BearBump/OrderConsole/internal/export"
	"github.com/BearBump/OrderConsole/internal/models"
	"github.com/google/uuid"
)

// TypeAll matches every label in Filter.
const TypeAll = "all"

var csvHeader = []string{"timestamp", "action", "orderId", "status"}

// Sink receives a copy of every appended entry (Kafka, archive DB...).
type Sink interface {
	Record(ctx context.Context, rec messages.ActionRecorded) error
}

// Log is the session's append-only action journal.
type Log struct {
	store     Store
	sessionID string
	sinks     []Sink
}

func New(store Store, sessionID string, sinks ...Sink) *Log {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Log{store: store, sessionID: sessionID, sinks: sinks}
}

func (l *Log) SessionID() string { return l.sessionID }

// Append puts e in front of the log. Sinks are best-effort: their errors are
// logged and never fail the append.
func (l *Log) Append(ctx context.Context, e models.ActionEntry) error {
	if err := l.store.Prepend(ctx, e); err != nil {
		return err
	}
	if len(l.sinks) == 0 {
		return nil
	}
	rec := messages.ActionRecorded{
		EventID:    uuid.NewString(),
		SessionID:  l.sessionID,
		Label:      e.Label,
		OrderID:    e.OrderID,
		Status:     e.Status,
		OccurredAt: e.Timestamp.UTC(),
	}
	for _, s := range l.sinks {
		if err := s.Record(ctx, rec); err != nil {
			slog.Error("audit sink", "session_id", l.sessionID, "order_id", e.OrderID, "error", err.Error())
		}
	}
	return nil
}

func (l *Log) Entries(ctx context.Context) ([]models.ActionEntry, error) {
	return l.store.List(ctx)
}

// Filter derives a view over the current entries without touching the log.
func (l *Log) Filter(ctx context.Context, orderFilter, typeFilter string) ([]models.ActionEntry, error) {
	all, err := l.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.ActionEntry, 0, len(all))
	for _, e := range all {
		if Matches(e, orderFilter, typeFilter) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Matches: orderId contains the trimmed order filter and label contains the
// type filter, both case-insensitive. An empty order filter and the type
// "all" match everything.
func Matches(e models.ActionEntry, orderFilter, typeFilter string) bool {
	of := strings.ToLower(strings.TrimSpace(orderFilter))
	tf := strings.ToLower(typeFilter)
	if of != "" && !strings.Contains(strings.ToLower(e.OrderID), of) {
		return false
	}
	return tf == TypeAll || strings.Contains(strings.ToLower(e.Label), tf)
}

// ExportCSV writes the whole log, ignoring any filter. Returns false and
// writes nothing when the log is empty.
func (l *Log) ExportCSV(ctx context.Context, w io.Writer) (bool, error) {
	all, err := l.store.List(ctx)
	if err != nil {
		return false, err
	}
	if len(all) == 0 {
		return false, nil
	}
	rows := make([][]string, 0, len(all)+1)
	rows = append(rows, csvHeader)
	for _, e := range all {
		rows = append(rows, []string{
			e.Timestamp.UTC().Format(models.ISOMillis),
			e.Label,
			e.OrderID,
			e.StatusOrEmpty(),
		})
	}
	if err := export.QuotedCSV(w, rows); err != nil {
		return false, err
	}
	return true, nil
}
