// Package main provides the main entry point for the family medicine placement core
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/app/metrics"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/app/scheduler"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/app/services"
	businessflow "github.com/mrtylcn99/aile-hekimligi-kura-sub000/business_flow"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/config"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/repository"
	"github.com/mrtylcn99/aile-hekimligi-kura-sub000/transcript"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application wires the placement core's flows and background workers
type Application struct {
	config     *config.ProductionConfig
	db         *gorm.DB
	cache      *redis.Client
	importFlow businessflow.ImportFlow
	ranking    businessflow.RankingFlow
	preference businessflow.PreferenceFlow
	vacancy    businessflow.VacancyFlow
	export     businessflow.ExportFlow
	stopFuncs  []func()
}

func main() {
	log.Println("Starting placement core...")

	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := initializeLogger(cfg.Logging)

	app, err := initializeApplication(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if cfg.Metrics.Enabled {
		go func() {
			address := fmt.Sprintf(":%d", cfg.Metrics.Port)
			logger.Printf("Metrics endpoint listening on %s%s", address, cfg.Metrics.Path)
			if err := metrics.Serve(address); err != nil {
				logger.Printf("Metrics server stopped: %v", err)
			}
		}()
	}

	if cfg.Scheduler.Enabled {
		source := scheduler.NewHTTPTranscriptSource(cfg.Import)
		importScheduler := scheduler.NewImportScheduler(source, app.importFlow, logger, cfg.Scheduler.Interval)
		app.stopFuncs = append(app.stopFuncs, importScheduler.Start(ctx))
		logger.Printf("Import scheduler started with interval %s", cfg.Scheduler.Interval)
	}

	<-sigChan
	logger.Println("Shutting down gracefully...")

	for _, fn := range app.stopFuncs {
		fn()
	}

	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			logger.Printf("Error closing redis client: %v", err)
		}
	}
	if sqlDB, err := app.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Printf("Error closing database: %v", err)
		}
	}

	logger.Println("Placement core stopped")
}

// initializeLogger builds the shared logger, rotating the log file with
// lumberjack when file output is configured.
func initializeLogger(cfg config.LoggingConfig) *log.Logger {
	var out io.Writer = os.Stdout

	if cfg.Output == "file" || cfg.Output == "both" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		if cfg.Output == "both" {
			out = io.MultiWriter(os.Stdout, rotator)
		} else {
			out = rotator
		}
	}

	logger := log.New(out, "kura ", log.LstdFlags|log.Lmicroseconds|log.LUTC)
	log.SetOutput(out)
	return logger
}

// initializeApplication creates and configures the application instance
func initializeApplication(cfg *config.ProductionConfig, logger *log.Logger) (*Application, error) {
	db, err := initializeDatabase(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	cache, err := initializeCache(cfg.Cache, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	positionRepo := repository.NewPositionRecordRepository(db)
	preferenceRepo := repository.NewPreferenceRecordRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	var locker businessflow.DocumentLocker
	if cache != nil {
		locker = businessflow.NewRedisDocumentLocker(cache)
	} else {
		locker = businessflow.NewLocalDocumentLocker()
	}

	assembler := transcript.NewAssembler(transcript.DefaultLayout)
	notifier := services.NewNotificationService(services.NewMockPushProvider())

	app := &Application{
		config:     cfg,
		db:         db,
		cache:      cache,
		importFlow: businessflow.NewImportFlow(positionRepo, assembler, locker, db, logger),
		ranking:    businessflow.NewRankingFlow(positionRepo),
		preference: businessflow.NewPreferenceFlow(positionRepo, preferenceRepo, notificationRepo, notifier, db, logger),
		vacancy:    businessflow.NewVacancyFlow(positionRepo, logger),
		export:     businessflow.NewExportFlow(positionRepo, logger),
	}

	if cache != nil {
		app.stopFuncs = append(app.stopFuncs, startCacheHealthMonitor(context.Background(), cache, 30*time.Second, logger))
	}

	return app, nil
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig, logger *log.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Redis client and verifies connectivity
func initializeCache(cfg config.CacheConfig, logger *log.Logger) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Printf("Redis connection established (db=%d)", cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration, logger *log.Logger) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					logger.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}
