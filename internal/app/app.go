package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sm8ta/webike_rental_manager/internal/adapter/handler/http"
	"github.com/sm8ta/webike_rental_manager/internal/adapter/logger"
	"github.com/sm8ta/webike_rental_manager/internal/adapter/memory"
	"github.com/sm8ta/webike_rental_manager/internal/adapter/postgres"
	"github.com/sm8ta/webike_rental_manager/internal/adapter/prometheus"
	"github.com/sm8ta/webike_rental_manager/internal/adapter/redis"
	"github.com/sm8ta/webike_rental_manager/internal/config"
	"github.com/sm8ta/webike_rental_manager/internal/core/ports"
	"github.com/sm8ta/webike_rental_manager/internal/core/services"

	_ "github.com/lib/pq"
	"github.com/pressly/goose"
	redisClient "github.com/redis/go-redis/v9"
)

type App struct {
	Config      *config.Container
	Logger      ports.LoggerPort
	DB          *sql.DB
	RedisClient *redisClient.Client
	Cache       ports.CachePort
	Store       ports.Store
	Services    *Services
	HTTPRouter  *http.Router
}

type Services struct {
	Riders      *services.RiderService
	Bikes       *services.BikeService
	Assignments *services.AssignmentService
	Billing     *services.BillingService
	Maintenance *services.MaintenanceService
	Reports     *services.ReportService
	Reconciler  *services.ReconcileService
}

// Policy turns the rental section of the config into service terms.
func Policy(cfg *config.Container) services.Policy {
	return services.Policy{
		MaxActiveAssignments: cfg.Rental.MaxActiveAssignments,
		DefaultLateFeePerDay: cfg.Rental.LateFeePerDay,
		DepreciationRate:     cfg.Rental.DepreciationRate,
		ReportCacheTTL:       cfg.Cache.ReportTTL,
		EntityCacheTTL:       cfg.Cache.EntityTTL,
	}
}

func NewServices(
	store ports.Store,
	log ports.LoggerPort,
	cache ports.CachePort,
	events ports.EventRecorder,
	policy services.Policy,
) *Services {
	validate := services.NewValidator()
	return &Services{
		Riders:      services.NewRiderService(store, log, validate, cache, events, policy),
		Bikes:       services.NewBikeService(store, log, validate, cache, events, policy),
		Assignments: services.NewAssignmentService(store, log, validate, cache, events, policy),
		Billing:     services.NewBillingService(store, log, validate, cache, events, policy),
		Maintenance: services.NewMaintenanceService(store, log, validate, cache, events, policy),
		Reports:     services.NewReportService(store, log, validate, cache, events, policy),
		Reconciler:  services.NewReconcileService(store, log, validate, cache, events, policy),
	}
}

// OpenDB connects to postgres and verifies the connection.
func OpenDB(ctx context.Context, cfg *config.DB) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func Migrate(db *sql.DB, dir string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func New(ctx context.Context, cfg *config.Container) (*App, error) {
	// Set logger
	loggerAdapter := logger.NewLoggerAdapter(cfg.App.Env)
	loggerAdapter.Info("Starting the application", map[string]interface{}{
		"app":     cfg.App.Name,
		"env":     cfg.App.Env,
		"storage": cfg.Storage.Driver,
		"cache":   cfg.Storage.CacheDriver,
	})

	a := &App{Config: cfg, Logger: loggerAdapter}

	// Set cache
	switch cfg.Storage.CacheDriver {
	case config.DriverRedis:
		redisConn := redisClient.NewClient(&redisClient.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if _, err := redisConn.Ping(ctx).Result(); err != nil {
			redisConn.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		a.RedisClient = redisConn
		a.Cache = redis.NewRedisAdapter(redisConn)
	default:
		a.Cache = memory.NewCache()
	}

	// Set store
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := OpenDB(ctx, cfg.DB)
		if err != nil {
			a.close()
			return nil, err
		}
		a.DB = db

		if err := Migrate(db, cfg.DB.MigrationsDir); err != nil {
			a.close()
			return nil, err
		}
		a.Store = postgres.NewStore(db)
	default:
		loggerAdapter.Warn("Using in-memory store, data is lost on restart", nil)
		a.Store = memory.NewStore()
	}

	// Observability
	metrics := prometheus.NewPrometheusAdapter()

	// Services
	a.Services = NewServices(a.Store, loggerAdapter, a.Cache, metrics, Policy(cfg))

	// HTTP Handlers
	tokenService := http.NewJWTTokenService(cfg.Token.Secret, loggerAdapter)
	handlers := http.Handlers{
		Riders:      http.NewRiderHandler(a.Services.Riders, loggerAdapter, metrics),
		Bikes:       http.NewBikeHandler(a.Services.Bikes, loggerAdapter, metrics),
		Assignments: http.NewAssignmentHandler(a.Services.Assignments, loggerAdapter, metrics),
		Payments:    http.NewPaymentHandler(a.Services.Billing, loggerAdapter, metrics),
		Maintenance: http.NewMaintenanceHandler(a.Services.Maintenance, loggerAdapter, metrics),
		Reports:     http.NewReportHandler(a.Services.Reports, a.Services.Reconciler, loggerAdapter, metrics),
	}

	// Init HTTP router
	router, err := http.NewRouter(cfg.HTTP, tokenService, handlers)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to initialize router: %w", err)
	}
	a.HTTPRouter = router

	return a, nil
}

// Run serves HTTP until Stop is called.
func (a *App) Run() error {
	listenAddr := fmt.Sprintf("%s:%s", a.Config.HTTP.URL, a.Config.HTTP.Port)
	a.Logger.Info("Starting HTTP server", map[string]interface{}{
		"addr": listenAddr,
	})

	if err := a.HTTPRouter.Serve(listenAddr); err != nil {
		a.Logger.Error("HTTP server error", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	return nil
}

// Stop drains in-flight requests, then closes the backends.
func (a *App) Stop(ctx context.Context) error {
	a.Logger.Info("Shutting down gracefully...", nil)

	if a.HTTPRouter != nil {
		if err := a.HTTPRouter.Shutdown(ctx); err != nil {
			a.Logger.Error("HTTP shutdown error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	a.close()

	a.Logger.Info("Application stopped successfully", nil)
	return nil
}

func (a *App) close() {
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Error("Database close error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Logger.Error("Redis close error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}
