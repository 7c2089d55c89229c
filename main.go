package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Hung484/todo-app-frontend-1234/config"
	"github.com/Hung484/todo-app-frontend-1234/handler"
	"github.com/Hung484/todo-app-frontend-1234/middleware"
	"github.com/Hung484/todo-app-frontend-1234/repository"
	"github.com/Hung484/todo-app-frontend-1234/services"
	"github.com/Hung484/todo-app-frontend-1234/transport"
	"github.com/Hung484/todo-app-frontend-1234/usecase"
	"github.com/Hung484/todo-app-frontend-1234/utils"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 2
	}

	logger, err := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 2
	}
	defer logger.Sync()

	utils.InitValidator()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repository.OpenSessionRepo(ctx, cfg)
	if err != nil {
		logger.Error("could not open session store", zap.String("backend", cfg.SessionBackend), zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	defer store.Close()

	if cfg.MetricsAddr != "" {
		shutdown := serveMetrics(cfg.MetricsAddr, logger)
		defer shutdown()
	}

	var session *usecase.SessionController
	client, err := transport.New(transport.Options{
		BaseURL:         cfg.APIBaseURL,
		Timeout:         cfg.APITimeout,
		UserAgent:       cfg.UserAgent,
		MaxResponseSize: cfg.MaxResponseSize,
		Tokens:          middleware.TokenFunc(func() string { return session.Token() }),
		Logger:          logger,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 2
	}
	session = usecase.NewSessionController(services.NewAuthService(client), store, logger)

	app := &handler.App{
		Session: session,
		Lists:   services.NewListService(client),
		Tasks:   services.NewTaskService(client),
		Logger:  logger,
	}

	if err := handler.NewRootCommand(app).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// serveMetrics exposes /metrics on addr until the returned func is called.
func serveMetrics(addr string, logger *zap.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server stopped", zap.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
