package app

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sky-admin-go/internal/auth"
	"sky-admin-go/internal/cache"
	"sky-admin-go/internal/db"
	"sky-admin-go/internal/service"
)

type Config struct {
	Addr string

	DataDir  string
	DBDriver string
	DBDSN    string

	JWTSecret []byte
	JWTTTL    time.Duration

	Cache cache.Config

	BootstrapAdminUsername string
	BootstrapAdminPassword string
	BootstrapAdminName     string

	// SkipSeed leaves an empty catalog empty.
	SkipSeed bool
}

type App struct {
	cfg    Config
	store  *db.Store
	log    *slog.Logger
	cache  cache.Store
	tokens *auth.Tokens
	sseHub *SSEHub

	employees *service.EmployeeService
	dishes    *service.DishService
}

func New(cfg Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.DBDriver == "" {
		cfg.DBDriver = "sqlite3"
	}
	if cfg.Cache == (cache.Config{}) {
		cfg.Cache = cache.DefaultConfig()
	}
	if cfg.JWTTTL <= 0 {
		cfg.JWTTTL = 2 * time.Hour
	}

	dialect, err := db.ParseDialect(cfg.DBDriver)
	if err != nil {
		return nil, err
	}
	if cfg.DBDSN == "" {
		if dialect != db.DialectSQLite {
			return nil, fmt.Errorf("DB_DSN is required for driver %s", dialect)
		}
		if cfg.DataDir == "" {
			cfg.DataDir = "/data"
		}
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir data dir: %w", err)
		}
		cfg.DBDSN = filepath.Join(cfg.DataDir, "sky.db")
	}

	if len(cfg.JWTSecret) < 32 {
		cfg.JWTSecret = make([]byte, 32)
		_, _ = rand.Read(cfg.JWTSecret)
		logger.Warn("JWT_SECRET not set (or too short); generating ephemeral key, tokens will reset on restart")
	}

	memCache, err := cache.NewMemoryStore(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}

	store, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Migrate(store.DB, store.Dialect); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	a := &App{
		cfg:       cfg,
		store:     store,
		log:       logger,
		cache:     memCache,
		tokens:    auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL),
		sseHub:    NewSSEHub(logger),
		employees: service.NewEmployeeService(store, logger),
		dishes:    service.NewDishService(store, memCache, logger),
	}

	a.dishes.SetNotifier(a.sseHub)

	ctx := context.Background()
	if err := a.bootstrapAdmin(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	// Seed catalog ONLY if empty (never touches employees).
	if !cfg.SkipSeed {
		empty, err := db.IsCatalogEmpty(ctx, store)
		if err != nil {
			a.log.Warn("catalog empty check failed", "err", err)
		} else if empty {
			if err := db.SeedCatalog(ctx, store); err != nil {
				a.log.Warn("catalog seed failed", "err", err)
			} else {
				a.log.Info("catalog seeded")
			}
		}
	}

	a.log.Info("app ready", "db", store.Dialect.String(), "cache_capacity", cfg.Cache.Capacity)
	return a, nil
}

// bootstrapAdmin creates the first employee when the table is empty.
func (a *App) bootstrapAdmin(ctx context.Context) error {
	has, err := a.store.Q.HasAnyEmployee(ctx)
	if err != nil {
		return err
	}
	if has {
		return nil
	}

	username := auth.NormalizeUsername(a.cfg.BootstrapAdminUsername)
	pass := strings.TrimSpace(a.cfg.BootstrapAdminPassword)
	name := strings.TrimSpace(a.cfg.BootstrapAdminName)
	if username == "" {
		username = "admin"
	}
	if name == "" {
		name = "Administrator"
	}
	if pass == "" {
		pass = auth.DefaultPassword
		a.log.Warn("BOOTSTRAP_ADMIN_PASSWORD not set; admin uses the default password", "username", username)
	}

	hash, err := auth.HashPassword(pass)
	if err != nil {
		return err
	}
	if _, err := a.store.Q.CreateEmployee(ctx, db.CreateEmployeeParams{
		Name:         name,
		Username:     username,
		PasswordHash: hash,
		Sex:          "1",
		Status:       db.StatusEnabled,
	}); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	a.log.Info("bootstrapped admin employee", "username", username)
	return nil
}

func (a *App) Close() error {
	if a == nil {
		return nil
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

func (a *App) Store() *db.Store                    { return a.store }
func (a *App) Config() Config                      { return a.cfg }
func (a *App) Logger() *slog.Logger                { return a.log }
func (a *App) Cache() cache.Store                  { return a.cache }
func (a *App) Tokens() *auth.Tokens                { return a.tokens }
func (a *App) SSE() *SSEHub                        { return a.sseHub }
func (a *App) Employees() *service.EmployeeService { return a.employees }
func (a *App) Dishes() *service.DishService        { return a.dishes }
