package console

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/BearBump/OrderConsole/internal/export"
	"github.com/BearBump/OrderConsole/internal/metrics"
	"github.com/BearBump/OrderConsole/internal/models"
	"github.com/BearBump/OrderConsole/internal/services/auditlog"
	"github.com/BearBump/OrderConsole/internal/services/reqstate"
)

// Gateway is the order API as the console sees it.
type Gateway interface {
	RegisterOrder(ctx context.Context, in models.RegisterOrderRequest) (models.Order, error)
	GetOrder(ctx context.Context, orderID string) (models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, in models.UpdateOrderStatusRequest) (models.Order, error)
	ListOrders(ctx context.Context, q models.ListQuery) ([]models.Order, error)
}

// Имена действий: метки метрик и логов.
const (
	ActionRegister = "register"
	ActionTrack    = "track"
	ActionUpdate   = "update"
	ActionList     = "list"
)

const (
	LabelNoOrder      = "No order loaded yet."
	LabelOrderCreated = "Order created"
	LabelOrderTracked = "Order tracked"
	LabelOrderUpdated = "Order updated"
)

type ListDefaults struct {
	Page    int
	Size    int
	SortBy  models.SortBy
	SortDir models.SortDir
}

var DefaultListDefaults = ListDefaults{Page: 0, Size: 25, SortBy: models.SortByUpdatedAt, SortDir: models.SortDesc}

// ArchiveReader reads a session's audit entries back from long-term storage.
type ArchiveReader interface {
	ListSessionActions(ctx context.Context, sessionID string, limit int) ([]models.ActionEntry, error)
}

type Options struct {
	// Location interprets date inputs without an offset. Nil means UTC.
	Location     *time.Location
	Now          func() time.Time
	Metrics      *metrics.GatewayMetrics
	ListDefaults ListDefaults
	// Archive is nil unless the PostgreSQL archive is configured.
	Archive      ArchiveReader
}

// Console composes the four operator actions over one gateway and one
// session audit log.
type Console struct {
	gw      Gateway
	log     *auditlog.Log
	loc     *time.Location
	now     func() time.Time
	metrics *metrics.GatewayMetrics
	defs    ListDefaults
	archive ArchiveReader

	register *reqstate.State[models.Order]
	track    *reqstate.State[models.Order]
	update   *reqstate.State[models.Order]
	list     *reqstate.State[[]models.Order]

	mu    sync.RWMutex
	label string
}

func New(gw Gateway, log *auditlog.Log, opts Options) *Console {
	if log == nil {
		log = auditlog.New(nil, "")
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ListDefaults == (ListDefaults{}) {
		opts.ListDefaults = DefaultListDefaults
	}

	c := &Console{
		gw:       gw,
		log:      log,
		loc:      opts.Location,
		now:      opts.Now,
		metrics:  opts.Metrics,
		defs:     opts.ListDefaults,
		archive:  opts.Archive,
		register: reqstate.New[models.Order](),
		track:    reqstate.New[models.Order](),
		update:   reqstate.New[models.Order](),
		list:     reqstate.New[[]models.Order](),
		label:    LabelNoOrder,
	}
	observeDebug(c.register, ActionRegister, log.SessionID())
	observeDebug(c.track, ActionTrack, log.SessionID())
	observeDebug(c.update, ActionUpdate, log.SessionID())
	observeDebug(c.list, ActionList, log.SessionID())
	return c
}

func observeDebug[T any](st *reqstate.State[T], action, sessionID string) {
	st.Observe(func(s reqstate.Snapshot[T]) {
		var errText string
		if s.Error != nil {
			errText = *s.Error
		}
		slog.Debug("request state", "session_id", sessionID, "action", action,
			"loading", s.Loading, "has_data", s.Data != nil, "error", errText)
	})
}

func (c *Console) SessionID() string { return c.log.SessionID() }

func (c *Console) Register(ctx context.Context, orderID, customerID string) reqstate.Snapshot[models.Order] {
	if strings.TrimSpace(orderID) == "" || strings.TrimSpace(customerID) == "" {
		return reject(c, c.register, ActionRegister, ErrRegisterRequired)
	}

	c.register.Begin()
	started := time.Now()
	o, err := c.gw.RegisterOrder(ctx, models.RegisterOrderRequest{OrderID: orderID, CustomerID: customerID})
	c.observe(ActionRegister, err, started)
	if err != nil {
		return failed(c.register, ActionRegister, orderID, err)
	}

	c.record(ctx, models.ActionCreated, o, LabelOrderCreated)
	return c.register.Succeed(o)
}

func (c *Console) Track(ctx context.Context, orderID string) reqstate.Snapshot[models.Order] {
	if strings.TrimSpace(orderID) == "" {
		return reject(c, c.track, ActionTrack, ErrTrackRequired)
	}

	c.track.Begin()
	started := time.Now()
	o, err := c.gw.GetOrder(ctx, orderID)
	c.observe(ActionTrack, err, started)
	if err != nil {
		return failed(c.track, ActionTrack, orderID, err)
	}

	c.record(ctx, models.ActionTracked, o, LabelOrderTracked)
	return c.track.Succeed(o)
}

// UpdateStatus transitions an order. A blank note is sent as null.
func (c *Console) UpdateStatus(ctx context.Context, orderID, status, note string) reqstate.Snapshot[models.Order] {
	status = strings.TrimSpace(status)
	if strings.TrimSpace(orderID) == "" || status == "" {
		return reject(c, c.update, ActionUpdate, ErrUpdateRequired)
	}

	req := models.UpdateOrderStatusRequest{Status: models.OrderStatus(status)}
	if strings.TrimSpace(note) != "" {
		req.Note = &note
	}

	c.update.Begin()
	started := time.Now()
	o, err := c.gw.UpdateOrderStatus(ctx, orderID, req)
	c.observe(ActionUpdate, err, started)
	if err != nil {
		return failed(c.update, ActionUpdate, orderID, err)
	}

	c.record(ctx, models.ActionUpdated, o, LabelOrderUpdated)
	return c.update.Succeed(o)
}

// List runs the order search. It never touches the audit log.
func (c *Console) List(ctx context.Context, p ListParams) reqstate.Snapshot[[]models.Order] {
	q, err := c.buildQuery(p)
	if err != nil {
		return reject(c, c.list, ActionList, err)
	}

	c.list.Begin()
	started := time.Now()
	orders, err := c.gw.ListOrders(ctx, q)
	c.observe(ActionList, err, started)
	if err != nil {
		return failed(c.list, ActionList, "", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return c.list.Succeed(orders)
}

// reject fails st without a loading transition.
func reject[T any](c *Console, st *reqstate.State[T], action string, err error) reqstate.Snapshot[T] {
	c.metrics.Observe(action, metrics.OutcomeValidation, 0)
	return st.Fail(err.Error())
}

func failed[T any](st *reqstate.State[T], action, orderID string, err error) reqstate.Snapshot[T] {
	slog.Warn("order api call failed", "action", action, "order_id", orderID, "error", err.Error())
	return st.Fail(err.Error())
}

func (c *Console) observe(action string, err error, started time.Time) {
	c.metrics.Observe(action, outcomeOf(err), time.Since(started))
}

// record appends the audit entry and moves the snapshot label. Audit failures
// are logged; the action itself already succeeded.
func (c *Console) record(ctx context.Context, label string, o models.Order, snapshot string) {
	e := models.ActionEntry{Label: label, OrderID: o.ID, Timestamp: c.now().UTC()}
	if o.Status != "" {
		st := string(o.Status)
		e.Status = &st
	}
	if err := c.log.Append(ctx, e); err != nil {
		slog.Warn("audit append", "session_id", c.log.SessionID(), "order_id", o.ID, "error", err.Error())
	}

	c.mu.Lock()
	c.label = snapshot
	c.mu.Unlock()
}

// ActiveOrder is the order the detail panel shows: the latest update result,
// else the tracked order, else the registered one.
func (c *Console) ActiveOrder() (*models.Order, string) {
	c.mu.RLock()
	label := c.label
	c.mu.RUnlock()

	for _, s := range []reqstate.Snapshot[models.Order]{c.update.Snapshot(), c.track.Snapshot(), c.register.Snapshot()} {
		if s.Data != nil {
			return s.Data, label
		}
	}
	return nil, label
}

type State struct {
	SessionID     string                            `json:"sessionId"`
	Register      reqstate.Snapshot[models.Order]   `json:"register"`
	Track         reqstate.Snapshot[models.Order]   `json:"track"`
	Update        reqstate.Snapshot[models.Order]   `json:"update"`
	List          reqstate.Snapshot[[]models.Order] `json:"list"`
	ActiveOrder   *models.Order                     `json:"activeOrder"`
	SnapshotLabel string                            `json:"snapshotLabel"`
}

func (c *Console) State() State {
	active, label := c.ActiveOrder()
	return State{
		SessionID:     c.log.SessionID(),
		Register:      c.register.Snapshot(),
		Track:         c.track.Snapshot(),
		Update:        c.update.Snapshot(),
		List:          c.list.Snapshot(),
		ActiveOrder:   active,
		SnapshotLabel: label,
	}
}

func (c *Console) Actions(ctx context.Context, orderFilter, typeFilter string) ([]models.ActionEntry, error) {
	return c.log.Filter(ctx, orderFilter, typeFilter)
}

// ArchivedActions returns this session's archived entries, newest first.
func (c *Console) ArchivedActions(ctx context.Context, limit int) ([]models.ActionEntry, error) {
	if c.archive == nil {
		return nil, ErrNoArchive
	}
	return c.archive.ListSessionActions(ctx, c.log.SessionID(), limit)
}

func (c *Console) ExportActionsCSV(ctx context.Context, w io.Writer) (bool, error) {
	return c.log.ExportCSV(ctx, w)
}

// ExportOrdersCSV writes the last successful list result.
func (c *Console) ExportOrdersCSV(w io.Writer) (bool, error) {
	return export.OrdersCSV(w, c.lastList())
}

func (c *Console) ExportOrdersJSON(w io.Writer) (bool, error) {
	return export.OrdersJSON(w, c.lastList())
}

func (c *Console) lastList() []models.Order {
	s := c.list.Snapshot()
	if s.Data == nil {
		return nil
	}
	return *s.Data
}
