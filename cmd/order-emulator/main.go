package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BearBump/OrderConsole/config"
	"github.com/BearBump/OrderConsole/internal/integrations/orderapi"
	"github.com/BearBump/OrderConsole/internal/integrations/orderapi/emulator"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	if p := os.Getenv("configPath"); p != "" {
		var err error
		if cfg, err = config.LoadConfig(p); err != nil {
			panic(err)
		}
	}

	addr := cfg.Emulator.HTTPAddr
	if addr == "" {
		addr = ":8080"
	}
	user := cfg.OrderAPI.User
	if user == "" {
		user = orderapi.DefaultUser
	}
	password := cfg.OrderAPI.Password
	if password == "" {
		password = orderapi.DefaultPassword
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Mount("/", emulator.New(user, password).Handler())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{Addr: addr, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("order emulator listening", "addr", addr, "user", user)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		panic(err)
	}
}
