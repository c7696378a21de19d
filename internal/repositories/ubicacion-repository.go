package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventario/internal/entities"
	apperrors "inventario/pkg/errors"
)

const (
	ubicacionTable  = "ubicaciones"
	ubicacionFields = "id, nombre, descripcion, direccion, activo, created_at, updated_at"
)

type UbicacionRepositoryInterface interface {
	GetAll(ctx context.Context) ([]entities.Ubicacion, map[uint64]uint64, error)
	GetActivas(ctx context.Context) ([]entities.Ubicacion, error)
	FindByID(ctx context.Context, id uint64) (*entities.Ubicacion, error)
	ExistsByNombre(ctx context.Context, nombre string, excludeID uint64) (bool, error)
	Create(ctx context.Context, ubicacion entities.Ubicacion) (uint64, error)
	Update(ctx context.Context, id uint64, ubicacion entities.Ubicacion) error
	Delete(ctx context.Context, id uint64) error
}

type ubicacionRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUbicacionRepository(storage *pgxpool.Pool, logger *zap.Logger) UbicacionRepositoryInterface {
	return &ubicacionRepository{storage: storage, logger: logger}
}

func (r *ubicacionRepository) scanRow(row pgx.Row) (*entities.Ubicacion, error) {
	var u entities.Ubicacion
	var direccion sql.NullString

	err := row.Scan(&u.ID, &u.Nombre, &u.Descripcion, &direccion, &u.Activo, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error al escanear ubicaciones: %w", err)
	}

	if direccion.Valid {
		u.Direccion = &direccion.String
	}
	return &u, nil
}

// GetAll devuelve las ubicaciones junto con la cantidad de equipos asignados a
// cada una, para que el listado no tenga que consultar equipo por equipo.
func (r *ubicacionRepository) GetAll(ctx context.Context) ([]entities.Ubicacion, map[uint64]uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.
		Select("u.id", "u.nombre", "u.descripcion", "u.direccion", "u.activo",
			"u.created_at", "u.updated_at", "COUNT(e.id) AS total_equipos").
		From(ubicacionTable + " u").
		LeftJoin(equipoTable + " e ON e.ubicacion_id = u.id").
		GroupBy("u.id").
		OrderBy("u.nombre ASC").
		ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("error al construir el SQL de GetAll: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("error al listar ubicaciones: %w", err)
	}
	defer rows.Close()

	ubicaciones := make([]entities.Ubicacion, 0)
	conteos := make(map[uint64]uint64)
	for rows.Next() {
		var u entities.Ubicacion
		var direccion sql.NullString
		var total uint64

		err := rows.Scan(&u.ID, &u.Nombre, &u.Descripcion, &direccion, &u.Activo,
			&u.CreatedAt, &u.UpdatedAt, &total)
		if err != nil {
			return nil, nil, fmt.Errorf("error al escanear ubicaciones: %w", err)
		}
		if direccion.Valid {
			u.Direccion = &direccion.String
		}
		ubicaciones = append(ubicaciones, u)
		conteos[u.ID] = total
	}
	return ubicaciones, conteos, rows.Err()
}

func (r *ubicacionRepository) GetActivas(ctx context.Context) ([]entities.Ubicacion, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(ubicacionFields).From(ubicacionTable).
		Where(sq.Eq{"activo": true}).
		OrderBy("nombre ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error al construir el SQL de GetActivas: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error al listar ubicaciones activas: %w", err)
	}
	defer rows.Close()

	ubicaciones := make([]entities.Ubicacion, 0)
	for rows.Next() {
		u, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		ubicaciones = append(ubicaciones, *u)
	}
	return ubicaciones, rows.Err()
}

func (r *ubicacionRepository) FindByID(ctx context.Context, id uint64) (*entities.Ubicacion, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(ubicacionFields).From(ubicacionTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error al construir el SQL de FindByID: %w", err)
	}
	return r.scanRow(r.storage.QueryRow(ctx, query, args...))
}

// ExistsByNombre compara sin distinguir mayúsculas. excludeID permite reutilizar
// la comprobación en Update sin chocar con la propia fila.
func (r *ubicacionRepository) ExistsByNombre(ctx context.Context, nombre string, excludeID uint64) (bool, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Select("COUNT(id)").From(ubicacionTable).
		Where(sq.Expr("LOWER(nombre) = LOWER(?)", nombre))
	if excludeID > 0 {
		builder = builder.Where(sq.NotEq{"id": excludeID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return false, fmt.Errorf("error al construir el SQL de ExistsByNombre: %w", err)
	}

	var count uint64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("error al comprobar el nombre de la ubicación: %w", err)
	}
	return count > 0, nil
}

func (r *ubicacionRepository) Create(ctx context.Context, ubicacion entities.Ubicacion) (uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Insert(ubicacionTable).
		Columns("nombre", "descripcion", "direccion", "activo").
		Values(ubicacion.Nombre, ubicacion.Descripcion, ubicacion.Direccion, ubicacion.Activo).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error al construir el SQL de Create: %w", err)
	}

	var newID uint64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, fmt.Errorf("ya existe una ubicación con ese nombre: %w", apperrors.ErrConflict)
		}
		return 0, fmt.Errorf("error al crear la ubicación: %w", err)
	}
	return newID, nil
}

func (r *ubicacionRepository) Update(ctx context.Context, id uint64, ubicacion entities.Ubicacion) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update(ubicacionTable).
		Set("nombre", ubicacion.Nombre).
		Set("descripcion", ubicacion.Descripcion).
		Set("direccion", ubicacion.Direccion).
		Set("activo", ubicacion.Activo).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error al construir el SQL de Update: %w", err)
	}

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("ya existe una ubicación con ese nombre: %w", apperrors.ErrConflict)
		}
		return fmt.Errorf("error al actualizar la ubicación %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ubicacionRepository) Delete(ctx context.Context, id uint64) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Delete(ubicacionTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error al construir el SQL de Delete: %w", err)
	}

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("la ubicación tiene equipos asignados: %w", apperrors.ErrConflict)
		}
		return fmt.Errorf("error al eliminar la ubicación %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
