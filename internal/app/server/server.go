// Package server assembles the PayScribe HTTP application: storage, services, handlers
// and the middleware chain.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/jackc/pgx/v5/pgxpool"

	"payscribe/internal/domain/attendance"
	"payscribe/internal/domain/auth"
	"payscribe/internal/domain/bonus"
	"payscribe/internal/domain/core"
	"payscribe/internal/domain/invoice"
	"payscribe/internal/domain/payroll"
	"payscribe/internal/domain/reports"
	"payscribe/internal/platform/config"
	cryptoutil "payscribe/internal/platform/crypto"
	"payscribe/internal/platform/db"
	"payscribe/internal/platform/jobs"
	"payscribe/internal/platform/metrics"
	"payscribe/internal/platform/pdfdoc"
	"payscribe/internal/transport/http/api"
	attendancehandler "payscribe/internal/transport/http/handlers/attendance"
	authhandler "payscribe/internal/transport/http/handlers/auth"
	bonushandler "payscribe/internal/transport/http/handlers/bonus"
	corehandler "payscribe/internal/transport/http/handlers/core"
	invoicehandler "payscribe/internal/transport/http/handlers/invoice"
	payrollhandler "payscribe/internal/transport/http/handlers/payroll"
	reportshandler "payscribe/internal/transport/http/handlers/reports"
	"payscribe/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Router  http.Handler
	Metrics *metrics.Collector
	Jobs    *jobs.Service
}

// Start runs the background jobs until ctx is cancelled.
func (a *App) Start(ctx context.Context) {
	if a.Jobs != nil {
		a.Jobs.Start(ctx)
	}
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

// New connects to the database, applies migrations and seed data when configured, and
// builds the router.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payscribe"),
		slog.String("env", cfg.Environment),
	)
	slog.SetDefault(logger)

	sealer, err := cryptoutil.NewSealer(cfg.DataEncryptionKey)
	if err != nil {
		return nil, err
	}
	if !sealer.Enabled() {
		slog.Warn("DATA_ENCRYPTION_KEY not set; CNIC numbers are stored in plain text")
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	collector := metrics.New()
	app := &App{Config: cfg, DB: pool, Metrics: collector}
	app.Router = app.routes(logger, sealer)
	return app, nil
}

func (a *App) routes(logger *slog.Logger, sealer *cryptoutil.Sealer) http.Handler {
	cfg := a.Config
	letterhead := pdfdoc.DefaultLetterhead(cfg.CompanyName)
	calc := invoice.NewCalculator(invoice.DefaultRates())

	coreService := core.NewService(core.NewStore(a.DB, sealer))
	a.Jobs = jobs.New(jobs.Job{
		Name:     jobs.JobDepartmentStats,
		Interval: cfg.StatsRefresh,
		Run:      coreService.RefreshDepartmentStats,
	})
	authService := auth.NewService(auth.NewStore(a.DB), cfg.JWTSecret, cfg.TokenTTL)
	payrollService := payroll.NewService(payroll.NewStore(a.DB))
	invoiceService := invoice.NewService(invoice.NewStore(a.DB), calc, letterhead)
	attendanceService := attendance.NewService(coreService, calc, letterhead)
	bonusService := bonus.NewService(bonus.NewStore(a.DB), coreService, letterhead)
	reportsService := reports.NewService(reports.NewStore(a.DB))

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:           300,
	}))
	router.Use(middleware.RequestID)
	router.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	router.Use(chimiddleware.CleanPath)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Metrics(a.Metrics))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.DB.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			snapshot := a.Metrics.Snapshot()
			if res, ok := a.Jobs.Last(jobs.JobDepartmentStats); ok {
				snapshot["jobs"] = []jobs.Result{res}
			}
			api.Success(w, snapshot, middleware.GetRequestID(r.Context()))
		})
	}

	authHandler := authhandler.NewHandler(authService)
	router.Route("/api/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			authHandler.RegisterProtectedRoutes(r)
			reportshandler.NewHandler(reportsService).RegisterRoutes(r)
			corehandler.NewHandler(coreService, a.Metrics).RegisterRoutes(r)
			payrollhandler.NewHandler(payrollService, letterhead, a.Metrics).RegisterRoutes(r)
			attendancehandler.NewHandler(attendanceService, a.Metrics).RegisterRoutes(r)
			bonushandler.NewHandler(bonusService, a.Metrics).RegisterRoutes(r)
			invoicehandler.NewHandler(invoiceService, a.Metrics).RegisterRoutes(r)
		})
	})
	return router
}
