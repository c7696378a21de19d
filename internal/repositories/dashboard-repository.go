package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type DashboardRepositoryInterface interface {
	CountEquiposPorEstado(ctx context.Context) (map[string]uint64, error)
	CountFichasPorEstado(ctx context.Context) (map[string]uint64, error)
}

type dashboardRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDashboardRepository(storage *pgxpool.Pool, logger *zap.Logger) DashboardRepositoryInterface {
	return &dashboardRepository{storage: storage, logger: logger}
}

func (r *dashboardRepository) countPorEstado(ctx context.Context, table string) (map[string]uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select("estado", "COUNT(id)").From(table).GroupBy("estado").ToSql()
	if err != nil {
		return nil, fmt.Errorf("error al construir el SQL de conteo por estado: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error al contar %s por estado: %w", table, err)
	}
	defer rows.Close()

	conteos := make(map[string]uint64)
	for rows.Next() {
		var estado string
		var count uint64
		if err := rows.Scan(&estado, &count); err != nil {
			return nil, fmt.Errorf("error al escanear el conteo por estado: %w", err)
		}
		conteos[estado] = count
	}
	return conteos, rows.Err()
}

func (r *dashboardRepository) CountEquiposPorEstado(ctx context.Context) (map[string]uint64, error) {
	return r.countPorEstado(ctx, equipoTable)
}

func (r *dashboardRepository) CountFichasPorEstado(ctx context.Context) (map[string]uint64, error) {
	return r.countPorEstado(ctx, fichaAveriaTable)
}
