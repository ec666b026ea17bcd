package setup

import (
	"context"
	"time"

	"github.com/recuentobot/recuento/internal/mirror"
	"github.com/recuentobot/recuento/internal/redis"
	"github.com/recuentobot/recuento/internal/setup/config"
	"github.com/recuentobot/recuento/internal/tracker"
	"go.uber.org/zap"
)

// App bundles all core dependencies and services needed by the bot.
type App struct {
	Config       *config.Config  // Application configuration
	Logger       *zap.Logger     // Main application logger
	RedisManager *redis.Manager  // Redis connection manager
	Store        *tracker.Store  // In-memory tally store
	Mirror       *mirror.Mirror  // Redis tally mirror
	Writer       *mirror.Writer  // Asynchronous mirror write consumer
}

// InitializeApp bootstraps all dependencies in the correct order and
// hydrates the tally store from the latest mirrored snapshot. Hydration
// failures are logged and leave the affected counters zero-initialized.
func InitializeApp(ctx context.Context, logDir string) (*App, error) {
	// Load app configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// Logging system is initialized next to capture setup issues
	logger, err := GetLogger(logDir, cfg.Logging.Level, cfg.Logging.MaxLogsToKeep)
	if err != nil {
		return nil, err
	}

	// Redis manager provides the connection pool for the mirror
	redisManager := redis.NewManager(&cfg.Redis, logger)

	statsClient, err := redisManager.GetClient(redis.StatsDBIndex)
	if err != nil {
		return nil, err
	}

	store := tracker.NewStore(logger)
	statsMirror := mirror.New(statsClient, logger)

	// Load the persisted snapshot before any events arrive
	if err := statsMirror.Hydrate(ctx, store, tracker.DateOf(time.Now())); err != nil {
		logger.Error("Failed to hydrate counters from mirror, starting empty", zap.Error(err))
	}

	writer := mirror.NewWriter(statsMirror, logger)

	return &App{
		Config:       cfg,
		Logger:       logger,
		RedisManager: redisManager,
		Store:        store,
		Mirror:       statsMirror,
		Writer:       writer,
	}, nil
}

// CleanupApp drains pending mirror writes and closes every connection.
func (a *App) CleanupApp() {
	a.Writer.Close()
	a.RedisManager.Close()
	_ = a.Logger.Sync()
}
