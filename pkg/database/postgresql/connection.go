package postgresql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func ConnectDB(ctx context.Context, dsn string, logger *zap.Logger) *pgxpool.Pool {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Fatal("error al crear el pool de conexiones", zap.Error(err))
	}

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("no se pudo conectar a PostgreSQL", zap.Error(err))
	}

	logger.Info("conectado a PostgreSQL")
	return pool
}
