package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"sky-admin-go/internal/app"
	"sky-admin-go/internal/cache"
	"sky-admin-go/internal/handlers"
)

func main() {
	// .env is optional; real environment variables win.
	envErr := godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(getenv("LOG_LEVEL", "info"))}))
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		logger.Warn("could not read .env", "err", envErr)
	}

	cacheCfg := cache.DefaultConfig()
	cacheCfg.Capacity = getenvInt(logger, "CACHE_CAPACITY", cacheCfg.Capacity)
	cacheCfg.TTL = getenvDuration(logger, "CACHE_TTL", cacheCfg.TTL)

	cfg := app.Config{
		Addr: getenv("ADDR", ":8080"),

		DataDir:  getenv("DATA_DIR", "/data"),
		DBDriver: getenv("DB_DRIVER", "sqlite3"),
		DBDSN:    os.Getenv("DB_DSN"),

		JWTSecret: []byte(strings.TrimSpace(os.Getenv("JWT_SECRET"))),
		JWTTTL:    getenvDuration(logger, "JWT_TTL", 2*time.Hour),

		Cache: cacheCfg,

		BootstrapAdminUsername: os.Getenv("BOOTSTRAP_ADMIN_USERNAME"),
		BootstrapAdminPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
		BootstrapAdminName:     os.Getenv("BOOTSTRAP_ADMIN_NAME"),
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("app init failed", "err", err)
		os.Exit(1)
	}
	defer a.Close()

	srv := &http.Server{
		Addr:        cfg.Addr,
		Handler:     handlers.NewRouter(a),
		ReadTimeout: 15 * time.Second,
		// no WriteTimeout: /user/dish/events streams
		IdleTimeout: 90 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", cfg.Addr, "db_driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info("shutdown complete")
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func getenvInt(logger *slog.Logger, k string, def int) int {
	v := getenv(k, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn("ignoring invalid env value", "key", k, "value", v)
		return def
	}
	return n
}

func getenvDuration(logger *slog.Logger, k string, def time.Duration) time.Duration {
	v := getenv(k, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.Warn("ignoring invalid env value", "key", k, "value", v)
		return def
	}
	return d
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}
