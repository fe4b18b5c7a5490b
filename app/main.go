package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sushihentaime/caskblog/internal/blogservice"
	"github.com/sushihentaime/caskblog/internal/common"
	"github.com/sushihentaime/caskblog/internal/mailservice"
)

type application struct {
	config      *Config
	logger      *slog.Logger
	blogService *blogservice.BlogService
	mailService *mailservice.MailService
	broker      *common.MessageBroker
}

func newLogger(environment string) *slog.Logger {
	if environment == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func main() {
	configPath := flag.String("config", ".env", "path to the env file")
	checkDB := flag.Bool("check-db", false, "ping the database and exit")
	flag.Parse()

	// Load the configuration
	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg.Environment)

	if *checkDB {
		os.Exit(runDBCheck(cfg, logger))
	}

	// run returns only after its deferred cleanup has happened
	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with an error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run wires the application and serves until shutdown. Every resource it opens
// is released before it returns.
func run(cfg *Config, logger *slog.Logger) error {
	if cfg.MigrateOnStart {
		m, err := common.Migrate(cfg.MigrationsPath, cfg.dbConfig().DSN())
		if err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		m.Close()
		logger.Info("migrations applied", slog.String("source", cfg.MigrationsPath))
	}

	secret, err := blogservice.NewUploadSecret(cfg.UploadPassword)
	if err != nil {
		return fmt.Errorf("invalid upload password: %w", err)
	}
	if cfg.UploadPassword == "" {
		logger.Warn("UPLOAD_PASSWORD is not set, every create and update will be rejected")
	}

	// The pool is opened on first use
	db := common.NewDB(cfg.dbConfig())
	defer db.Close()

	// in-process only: each instance flushes its own copy on mutation
	var cache *common.Cache
	if cfg.CacheTTL > 0 {
		cache = common.NewCache(cfg.CacheTTL, 2*cfg.CacheTTL)
	}

	app := &application{
		config: cfg,
		logger: logger,
	}

	// Events are optional; without a broker host nothing is published
	var producer common.MessageProducer
	if cfg.brokerEnabled() {
		URI := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.MQUser, cfg.MQPassword, cfg.MQHost, cfg.MQPort)
		broker, err := common.NewMessageBroker(URI)
		if err != nil {
			return fmt.Errorf("failed to connect to the message broker: %w", err)
		}
		defer broker.Close()

		err = common.SetupBlogExchange(broker)
		if err != nil {
			return fmt.Errorf("failed to setup the blog exchange: %w", err)
		}

		app.broker = broker
		producer = broker
	}

	app.blogService = blogservice.NewBlogService(db, cache, producer, secret, logger)

	if cfg.notifierEnabled() {
		err = common.SetupBlogCreatedQueue(app.broker)
		if err != nil {
			return fmt.Errorf("failed to setup the notification queue: %w", err)
		}

		app.mailService = mailservice.NewMailService(app.broker, cfg.mailConfig(), logger)
		app.mailService.NotifyNewBlogs()
		defer app.mailService.Close()
	}

	return app.serve()
}

var errDBCheckFailed = errors.New("database check failed")

// runDBCheck pings the database and returns the process exit code.
func runDBCheck(cfg *Config, logger *slog.Logger) int {
	if err := checkDatabase(cfg); err != nil {
		logger.Error(errDBCheckFailed.Error(), slog.String("error", err.Error()))
		return 1
	}

	logger.Info("database check passed")
	return 0
}

func checkDatabase(cfg *Config) error {
	db := common.NewDB(cfg.dbConfig())
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", errDBCheckFailed, err)
	}

	return nil
}
