package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"qrcafe/cmd"
	"qrcafe/internal/adapters/out/postgres"
	"qrcafe/internal/core/application/usecases/commands"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs := getConfigs()
	if err := configs.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: configs.LogLevel}))
	slog.SetDefault(slogger)

	gormDB, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err = postgres.AutoMigrate(gormDB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, slogger)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = bootstrapStaff(ctx, app, configs); err != nil {
		log.Fatalf("Failed to create bootstrap staff account: %v", err)
	}

	if err = run(ctx, app, configs.HTTPPort, slogger); err != nil {
		log.Fatalf("Server stopped with error: %v", err)
	}
}

// run serves HTTP and runs the jobs until ctx is cancelled, then shuts both down.
func run(ctx context.Context, app *cmd.CompositionRoot, port string, slogger *slog.Logger) error {
	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	server := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%s", port),
		Handler:           app.CreateHTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slogger.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slogger.Info("shutting down")

		app.Hub().Close()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func bootstrapStaff(ctx context.Context, app *cmd.CompositionRoot, configs cmd.Config) error {
	if configs.BootstrapStaffUsername == "" {
		return nil
	}

	command, err := commands.NewEnsureStaffMemberCommand(
		configs.BootstrapStaffUsername,
		configs.BootstrapStaffPassword,
		"",
	)
	if err != nil {
		return err
	}

	handler := app.CreateEnsureStaffMemberCommandHandler()
	_, _, err = handler.Handle(ctx, command)
	return err
}

func getConfigs() cmd.Config {
	loadDotEnv()

	config := cmd.Config{
		HTTPPort:               goDotEnvVariable("HTTP_PORT"),
		DBHost:                 goDotEnvVariable("DB_HOST"),
		DBPort:                 goDotEnvVariable("DB_PORT"),
		DBUser:                 goDotEnvVariable("DB_USER"),
		DBPassword:             goDotEnvVariable("DB_PASSWORD"),
		DBName:                 goDotEnvVariable("DB_NAME"),
		DBSslMode:              goDotEnvVariable("DB_SSLMODE"),
		JWTSecret:              goDotEnvVariable("JWT_SECRET"),
		JWTTTL:                 durationVariable("JWT_TTL", 24*time.Hour),
		StoreTimeout:           durationVariable("STORE_TIMEOUT", 5*time.Second),
		LoginRatePerSecond:     floatVariable("LOGIN_RATE_PER_SECOND", 0.2),
		LoginRateBurst:         intVariable("LOGIN_RATE_BURST", 5),
		BootstrapStaffUsername: goDotEnvVariable("BOOTSTRAP_STAFF_USERNAME"),
		BootstrapStaffPassword: goDotEnvVariable("BOOTSTRAP_STAFF_PASSWORD"),
		HeartbeatSchedule:      goDotEnvVariable("HEARTBEAT_SCHEDULE"),
		BacklogSchedule:        goDotEnvVariable("BACKLOG_SCHEDULE"),
		LogLevel:               levelVariable("LOG_LEVEL"),
	}
	return config
}

// loadDotEnv reads .env when present. Deployments may set the environment directly.
func loadDotEnv() {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}
}

func goDotEnvVariable(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationVariable(key string, fallback time.Duration) time.Duration {
	raw := goDotEnvVariable(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("%s: %v", key, err)
	}
	return d
}

func intVariable(key string, fallback int) int {
	raw := goDotEnvVariable(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("%s: %v", key, err)
	}
	return n
}

func floatVariable(key string, fallback float64) float64 {
	raw := goDotEnvVariable(key)
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Fatalf("%s: %v", key, err)
	}
	return f
}

func levelVariable(key string) slog.Level {
	var level slog.Level
	if raw := goDotEnvVariable(key); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			log.Fatalf("%s: %v", key, err)
		}
	}
	return level
}
