package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BearBump/OrderConsole/config"
	"github.com/BearBump/OrderConsole/internal/broker/kafka"
	"github.com/BearBump/OrderConsole/internal/cache/rediscache"
	"github.com/BearBump/OrderConsole/internal/integrations/orderapi"
	"github.com/BearBump/OrderConsole/internal/metrics"
	"github.com/BearBump/OrderConsole/internal/models"
	"github.com/BearBump/OrderConsole/internal/services/auditlog"
	"github.com/BearBump/OrderConsole/internal/services/console"
	"github.com/BearBump/OrderConsole/internal/storage/pgaudit"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

const defaultSwaggerPath = "api/order-console.swagger.json"

type consoleApp struct {
	ctx     context.Context
	cancel  context.CancelFunc
	opts    consoleOpts
	console *console.Console
	closers []func()
}

func mustBootstrapConsole() *consoleApp {
	cfg := mustLoadConfig()

	swaggerPath := os.Getenv("swaggerPath")
	if swaggerPath == "" {
		swaggerPath = defaultSwaggerPath
	}
	httpAddr := cfg.Console.HTTPAddr
	if httpAddr == "" {
		httpAddr = ":8090"
	}

	loc := time.UTC
	if cfg.Console.TimeZone != "" {
		l, err := time.LoadLocation(cfg.Console.TimeZone)
		if err != nil {
			panic(fmt.Sprintf("неизвестный часовой пояс %q: %v", cfg.Console.TimeZone, err))
		}
		loc = l
	}

	sessionID := uuid.NewString()
	app := &consoleApp{}

	store := auditlog.Store(auditlog.NewMemoryStore())
	if cfg.Redis.Host != "" {
		rc := rediscache.New(fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port))
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rc.Ping(pingCtx)
		cancel()
		if err != nil {
			panic(fmt.Sprintf("redis недоступен: %v", err))
		}
		ttl := time.Duration(cfg.Console.SessionTTLSeconds) * time.Second
		store = rc.ActionStore(sessionID, ttl)
		app.closers = append(app.closers, func() { _ = rc.Close() })
	}

	var (
		sinks   []auditlog.Sink
		archive console.ArchiveReader
	)
	if cfg.Kafka.Host != "" {
		topic := cfg.Kafka.ActionsTopicName
		if topic == "" {
			topic = kafka.DefaultActionsTopic
		}
		p := kafka.NewProducer([]string{fmt.Sprintf("%s:%d", cfg.Kafka.Host, cfg.Kafka.Port)})
		sinks = append(sinks, kafka.NewActionPublisher(p, topic))
		app.closers = append(app.closers, func() { _ = p.Close() })
	}
	if cfg.Database.Host != "" {
		st := mustOpenPostgresWithRetry(connString(cfg.Database), 60*time.Second)
		sinks = append(sinks, st)
		archive = st
		app.closers = append(app.closers, st.Close)
	}

	user := cfg.OrderAPI.User
	if user == "" {
		user = orderapi.DefaultUser
	}
	password := cfg.OrderAPI.Password
	if password == "" {
		password = orderapi.DefaultPassword
	}
	gw := orderapi.New(cfg.OrderAPI.BaseURL, user, password)

	registry := prometheus.NewRegistry()
	c := console.New(gw, auditlog.New(store, sessionID, sinks...), console.Options{
		Location:     loc,
		Metrics:      metrics.NewGatewayMetrics(registry),
		ListDefaults: listDefaults(cfg.Console),
		Archive:      archive,
	})

	slog.Info("console session started",
		"session_id", sessionID, "order_api", gw.BaseURL(), "sinks", len(sinks), "redis", cfg.Redis.Host != "")

	app.ctx, app.cancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	app.console = c
	app.opts = consoleOpts{
		httpAddr:    httpAddr,
		swaggerPath: swaggerPath,
		gatherer:    registry,
	}
	return app
}

// mustLoadConfig reads configPath when set; without it the console runs on
// defaults plus ORDER_API_* variables.
func mustLoadConfig() *config.Config {
	cfgPath := os.Getenv("configPath")
	if cfgPath == "" {
		return config.FromEnv()
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		panic(fmt.Sprintf("ошибка парсинга конфига, %v", err))
	}
	return cfg
}

func connString(db config.DatabaseConfig) string {
	sslMode := db.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		db.Username, db.Password, db.Host, db.Port, db.DBName, sslMode)
}

func listDefaults(c config.ConsoleConfig) console.ListDefaults {
	d := console.DefaultListDefaults
	if c.ListDefaultPage > 0 {
		d.Page = c.ListDefaultPage
	}
	if c.ListDefaultSize > 0 && c.ListDefaultSize <= models.MaxPageSize {
		d.Size = c.ListDefaultSize
	}
	switch sb := models.SortBy(c.ListDefaultSortBy); sb {
	case models.SortByUpdatedAt, models.SortByCreatedAt:
		d.SortBy = sb
	}
	switch sd := models.SortDir(c.ListDefaultSortDir); sd {
	case models.SortAsc, models.SortDesc:
		d.SortDir = sd
	}
	return d
}

func mustOpenPostgresWithRetry(connString string, wait time.Duration) *pgaudit.Storage {
	deadline := time.Now().Add(wait)
	var lastErr error
	for time.Now().Before(deadline) {
		st, err := pgaudit.New(connString)
		if err == nil {
			return st
		}
		lastErr = err
		time.Sleep(1 * time.Second)
	}
	panic(fmt.Sprintf("postgres is not ready after %s: %v", wait, lastErr))
}

func (a *consoleApp) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *consoleApp) Run() error {
	return runConsole(a.ctx, a.opts, a.console)
}
