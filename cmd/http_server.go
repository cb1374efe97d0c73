package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danuarta/hr-portal/internal"
	"github.com/danuarta/hr-portal/internal/accesspolicy"
	accesspolicyPostgres "github.com/danuarta/hr-portal/internal/accesspolicy/postgres"
	"github.com/danuarta/hr-portal/internal/announcement"
	announcementPostgres "github.com/danuarta/hr-portal/internal/announcement/postgres"
	"github.com/danuarta/hr-portal/internal/audit"
	auditPostgres "github.com/danuarta/hr-portal/internal/audit/postgres"
	"github.com/danuarta/hr-portal/internal/auth"
	authPostgres "github.com/danuarta/hr-portal/internal/auth/postgres"
	"github.com/danuarta/hr-portal/internal/core/events"
	"github.com/danuarta/hr-portal/internal/event"
	eventPostgres "github.com/danuarta/hr-portal/internal/event/postgres"
	"github.com/danuarta/hr-portal/internal/leaverequest"
	leaverequestPostgres "github.com/danuarta/hr-portal/internal/leaverequest/postgres"
	"github.com/danuarta/hr-portal/internal/performance"
	performancePostgres "github.com/danuarta/hr-portal/internal/performance/postgres"
	"github.com/danuarta/hr-portal/internal/transport/rest"
	"github.com/danuarta/hr-portal/internal/user"
	userPostgres "github.com/danuarta/hr-portal/internal/user/postgres"
	"github.com/danuarta/hr-portal/pkg/logger"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(config.Environment)
	log := logger.L()

	if err := validateOpenAPISpec(config.OpenAPI.SpecPath); err != nil {
		log.Warn("OpenAPI spec validation failed", "error", err, "path", config.OpenAPI.SpecPath)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// GORM shares the pgx connection pool instead of opening its own.
	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	// Access policy: shared permission cache, invalidated synchronously on
	// every role mutation.
	policyCache := accesspolicy.NewPermissionCache()
	policyService := accesspolicy.NewService(accesspolicyPostgres.NewRBACRepository(gormDB), policyCache, log)

	// Audit: recorder plus event bus subscription for the auth lifecycle.
	recorder := audit.NewRecorder(auditPostgres.NewAuditRepository(gormDB), log)
	eventBus := events.NewEventBus(log)
	recorder.SubscribeAuthEvents(eventBus)

	tokens := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(gormDB), policyService, tokens, eventBus, config.Security.BCryptCost, log)

	userService := user.NewService(userPostgres.NewRepository(gormDB), policyService, config.Security.BCryptCost, log)
	leaveService := leaverequest.NewService(leaverequestPostgres.NewRepository(gormDB), policyService, log)
	perfService := performance.NewService(performancePostgres.NewRepository(gormDB), policyService, log)
	eventService := event.NewService(eventPostgres.NewRepository(gormDB), log)
	announcementService := announcement.NewService(announcementPostgres.NewRepository(gormDB), log)

	handlers := rest.Handlers{
		Auth:         auth.NewHandler(authService),
		Audit:        audit.NewHandler(recorder),
		User:         user.NewHandler(userService, policyService),
		Role:         accesspolicy.NewHandler(policyService),
		LeaveRequest: leaverequest.NewHandler(leaveService),
		Performance:  performance.NewHandler(perfService),
		Event:        event.NewHandler(eventService),
		Announcement: announcement.NewHandler(announcementService),
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, handlers, policyService, recorder, log)

	return &Dependencies{
		Config: config,
		Logger: log,
		DB:     db,
		Router: router,
	}, nil
}

// validateOpenAPISpec loads and validates the published API contract so a
// broken spec is caught at startup rather than by the first Swagger UI
// visitor.
func validateOpenAPISpec(path string) error {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return err
	}
	return doc.Validate(loader.Context)
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
