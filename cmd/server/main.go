package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"artmarket.backoffice/internal/config"
	"artmarket.backoffice/internal/infrastructure/blockchain"
	"artmarket.backoffice/internal/infrastructure/datasources/postgres"
	"artmarket.backoffice/internal/infrastructure/jobs"
	"artmarket.backoffice/internal/infrastructure/repositories"
	"artmarket.backoffice/internal/interfaces/http/handlers"
	"artmarket.backoffice/internal/interfaces/http/middleware"
	"artmarket.backoffice/internal/usecases"
	"artmarket.backoffice/pkg/logger"
	"artmarket.backoffice/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = postgres.NewConnection
	runServer  = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB   = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	ctx := context.Background()

	dotenvErr := loadDotenv()

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))
	if dotenvErr != nil {
		logger.Info(ctx, "No .env file found, using environment variables")
	}

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(ctx, "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()
	logger.Info(ctx, "Connected to PostgreSQL via GORM", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.DBName))

	collectionRepo := repositories.NewCollectionRepository(db)
	smartContractRepo := repositories.NewSmartContractRepository(db)
	uow := repositories.NewUnitOfWork(db)

	clientFactory := blockchain.NewClientFactory(cfg.Blockchain)
	defer clientFactory.Close()

	collectionUsecase := usecases.NewCollectionUsecase(collectionRepo, smartContractRepo, uow, clientFactory)
	smartContractUsecase := usecases.NewSmartContractUsecase(smartContractRepo)

	collectionHandler := handlers.NewCollectionHandler(collectionUsecase)
	smartContractHandler := handlers.NewSmartContractHandler(smartContractUsecase)

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var syncJob *jobs.CollectionSyncJob
	if cfg.Sync.Interval > 0 {
		syncJob = jobs.NewCollectionSyncJob(collectionUsecase, cfg.Sync.Interval, cfg.Sync.BatchSize)
		go syncJob.Start(jobCtx)
	} else {
		logger.Info(ctx, "Collection sync job disabled (COLLECTION_SYNC_INTERVAL not set)")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		collectionHandler:     collectionHandler,
		smartContractHandler:  smartContractHandler,
		idempotencyMiddleware: middleware.IdempotencyMiddleware(),
	})

	for _, route := range r.Routes() {
		logger.Debug(ctx, "Registered route", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info(ctx, "Shutting down server...")
		if syncJob != nil {
			syncJob.Stop()
		}
		cancel()
	}()

	logger.Info(ctx, "Art marketplace backoffice starting",
		zap.String("port", cfg.Server.Port),
		zap.String("api", "http://localhost:"+cfg.Server.Port+"/api/v1"),
	)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
