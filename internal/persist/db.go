package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/gd3/engine/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const defaultPingTimeout = 5 * time.Second

// DB is the snapshot store's connection pool.
type DB struct {
	Pool *pgxpool.Pool
	log  *zap.Logger
}

// StoreHealth describes a reachable snapshot store.
type StoreHealth struct {
	SchemaVersion int64
	Scenes        int
	Transforms    int
	LastSave      time.Time // zero when nothing was saved yet
	TotalConns    int32
}

// poolConfig maps the database section onto a pool config. The snapshot
// store only needs a handful of connections: one for autosave and one for
// restore at boot.
func poolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	poolCfg.MinConns = int32(min(max(cfg.MaxIdleConns, 0), int(poolCfg.MaxConns)))
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	if cfg.AppName != "" {
		poolCfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	return poolCfg, nil
}

// NewDB connects and pings. Use Open to also bring the schema up to date.
func NewDB(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*DB, error) {
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	log.Info("database connected",
		zap.String("app", cfg.AppName),
		zap.Int32("max_conns", poolCfg.MaxConns),
		zap.Int32("min_conns", poolCfg.MinConns),
	)
	return &DB{Pool: pool, log: log}, nil
}

// Open connects, migrates and checks the snapshot tables. The pool is
// closed again if any step fails.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*DB, error) {
	db, err := NewDB(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	h, err := db.Health(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	log.Info("snapshot store ready",
		zap.Int64("schema", h.SchemaVersion),
		zap.Int("scenes", h.Scenes),
		zap.Int("transforms", h.Transforms),
		zap.Time("last_save", h.LastSave),
	)
	return db, nil
}

// Health reads the schema version and what the snapshot tables hold.
func (db *DB) Health(ctx context.Context) (StoreHealth, error) {
	var h StoreHealth
	version, err := db.SchemaVersion(ctx)
	if err != nil {
		return h, err
	}
	h.SchemaVersion = version

	var lastSave *time.Time
	err = db.Pool.QueryRow(ctx,
		`SELECT (SELECT count(*) FROM scene_snapshots),
		        (SELECT count(*) FROM snapshot_transforms),
		        (SELECT max(saved_at) FROM scene_snapshots)`,
	).Scan(&h.Scenes, &h.Transforms, &lastSave)
	if err != nil {
		return h, fmt.Errorf("snapshot health: %w", err)
	}
	if lastSave != nil {
		h.LastSave = *lastSave
	}
	h.TotalConns = db.Pool.Stat().TotalConns()
	return h, nil
}

func (db *DB) Close() {
	db.Pool.Close()
}
