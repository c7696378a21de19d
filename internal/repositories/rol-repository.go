package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventario/internal/entities"
)

type RolRepositoryInterface interface {
	GetAll(ctx context.Context) ([]entities.Rol, error)
	FindIDsByNombres(ctx context.Context, nombres []string) ([]uint64, error)
}

type rolRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewRolRepository(storage *pgxpool.Pool, logger *zap.Logger) RolRepositoryInterface {
	return &rolRepository{storage: storage, logger: logger}
}

func (r *rolRepository) GetAll(ctx context.Context) ([]entities.Rol, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select("id", "nombre", "descripcion").From("roles").OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("error al construir el SQL de GetAll: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error al listar roles: %w", err)
	}
	defer rows.Close()

	roles := make([]entities.Rol, 0)
	for rows.Next() {
		var rol entities.Rol
		if err := rows.Scan(&rol.ID, &rol.Nombre, &rol.Descripcion); err != nil {
			return nil, fmt.Errorf("error al escanear roles: %w", err)
		}
		roles = append(roles, rol)
	}
	return roles, rows.Err()
}

// FindIDsByNombres resuelve nombres de rol a ids. Los nombres desconocidos se
// omiten; el servicio decide si eso es un error.
func (r *rolRepository) FindIDsByNombres(ctx context.Context, nombres []string) ([]uint64, error) {
	if len(nombres) == 0 {
		return nil, nil
	}

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select("id").From("roles").Where(sq.Eq{"nombre": nombres}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error al construir el SQL de FindIDsByNombres: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error al buscar roles: %w", err)
	}
	defer rows.Close()

	ids := make([]uint64, 0, len(nombres))
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error al escanear roles: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
