package database

import (
	"context"
	"fmt"
	"time"

	"homestay/config"
	"homestay/utils"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPool is set when bookings are stored in PostgreSQL.
var PostgresPool *pgxpool.Pool

// InitPostgres opens the pgx pool configured by POSTGRES_DSN.
func InitPostgres(ctx context.Context) error {
	if config.AppConfig.PostgresDSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required when BOOKING_STORE=postgres")
	}

	poolCfg, err := pgxpool.ParseConfig(config.AppConfig.PostgresDSN)
	if err != nil {
		return fmt.Errorf("failed to parse postgres dsn: %w", err)
	}
	poolCfg.MaxConns = 10
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}
	PostgresPool = pool
	utils.GetLogger().Info("Connected to PostgreSQL successfully")
	return nil
}

// ClosePostgres releases the pool if it was opened.
func ClosePostgres() {
	if PostgresPool != nil {
		PostgresPool.Close()
	}
}
