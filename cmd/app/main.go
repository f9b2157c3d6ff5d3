package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dispatch/cmd"
	apihttp "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/metrics"
	"dispatch/internal/pkg/logger"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	appLogger := logger.New(os.Stdout, configs.LogLevel, configs.LogFormat)
	slog.SetDefault(appLogger)

	gormDB := mustOpenDB(configs)
	rdb := mustOpenRedis(configs)

	app, err := cmd.NewCompositionRoot(configs, gormDB, rdb, appLogger)
	if err != nil {
		log.Fatalf("Error building application: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs.HTTPPort, appLogger)
}

func mustOpenDB(configs cmd.Config) *gorm.DB {
	gormDB, err := gorm.Open(gormpg.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err = postgres.Migrate(gormDB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
	return gormDB
}

func mustOpenRedis(configs cmd.Config) redis.UniversalClient {
	if configs.RedisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(configs.RedisURL)
	if err != nil {
		log.Fatalf("Error parsing REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Error connecting to redis: %v", err)
	}
	return rdb
}

func startWebServer(app *cmd.CompositionRoot, port string, appLogger *slog.Logger) {
	metrics.RegisterDefault()

	doc, err := apihttp.LoadSpec(context.Background())
	if err != nil {
		log.Fatalf("Error loading OpenAPI spec: %v", err)
	}
	e, err := apihttp.NewRouter(apihttp.NewServer(app.HTTPHandlers(), appLogger), doc)
	if err != nil {
		log.Fatalf("Error building router: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if startErr := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
			e.Logger.Fatal(startErr)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Fatal(err)
	}
}
