package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	appcfg "github.com/Skotchmaster/online_shopping/internal/config"
	"github.com/Skotchmaster/online_shopping/internal/db"
	"github.com/Skotchmaster/online_shopping/internal/es"
	"github.com/Skotchmaster/online_shopping/internal/httpserver"
	"github.com/Skotchmaster/online_shopping/internal/metrics"
	"github.com/Skotchmaster/online_shopping/internal/mykafka"
	"github.com/Skotchmaster/online_shopping/internal/repo"
	"github.com/Skotchmaster/online_shopping/internal/service"
	pkgdb "github.com/Skotchmaster/online_shopping/pkg/db"
	"github.com/Skotchmaster/online_shopping/pkg/logging"
	authmw "github.com/Skotchmaster/online_shopping/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/online_shopping/pkg/middleware/logging"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply database migrations before serving")
}

func serve(ctx context.Context) error {
	cfg := appcfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)
	ctx = logging.IntoContext(ctx, logger)

	if migrateOnStart {
		if err := db.Up(cfg.DatabaseURL); err != nil {
			return err
		}
		logger.Info("migrations_applied")
	}

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	gormDB, err := pkgdb.Open(openCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer func() { _ = pkgdb.Close(gormDB) }()

	var events mykafka.Publisher = mykafka.Nop{}
	if cfg.EventsEnabled() {
		prod, err := mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			return err
		}
		defer func() { _ = prod.Close() }()
		events = prod
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}

	var index service.ProductIndex
	if cfg.SearchEnabled() {
		client, err := es.NewClient(ctx, cfg.Config)
		if err != nil {
			logger.Warn("es_unavailable", "reason", "search falls back to database", "error", err)
		} else {
			index = &es.ProductIndex{Client: client, Name: cfg.ElasticIndex}
		}
	}

	users := &repo.UserRepo{DB: gormDB}
	orders := &repo.OrderRepo{DB: gormDB}
	products := &repo.ProductRepo{DB: gormDB}

	httpMetrics := metrics.NewHTTP(cfg.ServiceName)

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(authmw.Identify(cfg.JWTAccessSecret))
	e.Use(httpMetrics.Middleware())
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		OrderHandler: &httpserver.OrderHTTP{
			Svc:    &service.OrderService{Orders: orders, Users: users},
			Events: events,
		},
		UserHandler: &httpserver.UserHTTP{
			Svc: &service.UserService{
				Repo:      users,
				Orders:    orders,
				JWTSecret: cfg.JWTAccessSecret,
				AccessTTL: cfg.JWTAccessTTL,
			},
			Events: events,
		},
		CatalogHandler: &httpserver.CatalogHTTP{
			Svc:    &service.CatalogService{Repo: products, Index: index},
			Events: events,
		},
		DB:      gormDB,
		Metrics: httpMetrics,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stopCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-stopCtx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}

	logger.Info("server_stopped")
	return nil
}
