package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"avtoclub/internal/config"
	"avtoclub/internal/handler"
	"avtoclub/internal/middleware"
	"avtoclub/internal/password"
	"avtoclub/internal/ratelimit"
	"avtoclub/internal/repository/postgres"
	"avtoclub/internal/service"
	"avtoclub/internal/session"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Avtoclub Bot")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully")

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	// Run migrations
	if err := runMigrations(db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info("Database migrations completed")

	// Initialize repositories
	memberRepo := postgres.NewMemberRepo(db)
	carRepo := postgres.NewCarRepo(db)
	invitationRepo := postgres.NewInvitationRepo(db)

	// Initialize services
	memberService := service.NewMemberService(memberRepo, logger)
	carService := service.NewCarService(carRepo, invitationRepo, logger)
	invitationService := service.NewInvitationService(carRepo, invitationRepo, logger)

	// In-memory state: sessions, rate windows, temporary password
	sessions := session.NewStore()
	limiter := ratelimit.NewLimiter(limitsFromConfig(cfg), logger)
	passwords := password.NewManager(cfg.PasswordTTL)

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	notifyService := service.NewNotifyService(
		handler.NewSender(bot),
		cfg.ClubChatID,
		map[service.NotifyCategory]bool{
			service.NotifyNewMember:     cfg.Notify.NewMember,
			service.NotifyNewCar:        cfg.Notify.NewCar,
			service.NotifyNewInvitation: cfg.Notify.NewInvitation,
		},
		logger,
	)

	// Every inbound event passes the sliding-window limiter first
	bot.Use(middleware.RateLimit(limiter, logger))

	// Initialize handler
	h := handler.NewHandler(
		bot, cfg,
		memberService, carService, invitationService, notifyService,
		sessions, limiter, passwords,
		logger,
	)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	// Start the rate-limit sweep in background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go limiter.Run(ctx, cfg.RateLimit.SweepInterval)

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	cancel()

	logger.Info("Bot stopped gracefully")
}

// limitsFromConfig maps config quotas onto limiter categories
func limitsFromConfig(cfg *config.Config) ratelimit.Limits {
	return ratelimit.Limits{
		ratelimit.CategoryGeneral: {
			MaxRequests: cfg.RateLimit.GeneralMax,
			Window:      cfg.RateLimit.GeneralWindow,
		},
		ratelimit.CategoryRegistration: {
			MaxRequests: cfg.RateLimit.RegistrationMax,
			Window:      cfg.RateLimit.RegistrationWindow,
		},
		ratelimit.CategorySearch: {
			MaxRequests: cfg.RateLimit.SearchMax,
			Window:      cfg.RateLimit.SearchWindow,
		},
		ratelimit.CategoryCallback: {
			MaxRequests: cfg.RateLimit.CallbackMax,
			Window:      cfg.RateLimit.CallbackWindow,
		},
	}
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		// Test connection
		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		// Connection successful
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
