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
	"inventario/pkg/types"
)

const (
	equipoTable  = "equipos"
	equipoFields = `id, nombre, descripcion, numero_serie, modelo, marca, fecha_compra,
		fecha_fin_garantia, estado, ubicacion_id, usuario_creacion_id, created_at, updated_at`
)

type EquipoRepositoryInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]entities.Equipo, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipo, error)
	ListByUbicacion(ctx context.Context, ubicacionID uint64) ([]entities.Equipo, error)
	ListByEstado(ctx context.Context, estado string) ([]entities.Equipo, error)
	Create(ctx context.Context, equipo entities.Equipo) (uint64, error)
	Update(ctx context.Context, id uint64, equipo entities.Equipo) error
	UpdateEstado(ctx context.Context, tx pgx.Tx, id uint64, estado string) error
	Delete(ctx context.Context, id uint64) error
	CountByUbicacion(ctx context.Context, ubicacionID uint64) (uint64, error)
}

type equipoRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipoRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipoRepositoryInterface {
	return &equipoRepository{storage: storage, logger: logger}
}

func (r *equipoRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *equipoRepository) scanRow(row pgx.Row) (*entities.Equipo, error) {
	var e entities.Equipo
	var finGarantia sql.NullTime
	var creacionID sql.NullString

	err := row.Scan(
		&e.ID, &e.Nombre, &e.Descripcion, &e.NumeroSerie, &e.Modelo, &e.Marca,
		&e.FechaCompra, &finGarantia, &e.Estado, &e.UbicacionID, &creacionID,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error al escanear equipos: %w", err)
	}

	if finGarantia.Valid {
		e.FechaFinGarantia = &finGarantia.Time
	}
	if creacionID.Valid {
		e.UsuarioCreacionID = &creacionID.String
	}
	return &e, nil
}

func (r *equipoRepository) list(ctx context.Context, where interface{}, args ...interface{}) ([]entities.Equipo, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Select(equipoFields).From(equipoTable)
	if where != nil {
		builder = builder.Where(where, args...)
	}

	query, sqlArgs, err := builder.OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("error al construir el SQL del listado de equipos: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, sqlArgs...)
	if err != nil {
		return nil, fmt.Errorf("error al listar equipos: %w", err)
	}
	defer rows.Close()

	equipos := make([]entities.Equipo, 0)
	for rows.Next() {
		e, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		equipos = append(equipos, *e)
	}
	return equipos, rows.Err()
}

func (r *equipoRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.Equipo, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	countBuilder := psql.Select("COUNT(id)").From(equipoTable)
	if filter.Search != "" {
		countBuilder = countBuilder.Where(sq.Or{
			sq.ILike{"nombre": "%" + filter.Search + "%"},
			sq.ILike{"numero_serie": "%" + filter.Search + "%"},
		})
	}
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error al construir el SQL de conteo de equipos: %w", err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error al contar equipos: %w", err)
	}

	builder := psql.Select(equipoFields).From(equipoTable)
	if filter.Search != "" {
		builder = builder.Where(sq.Or{
			sq.ILike{"nombre": "%" + filter.Search + "%"},
			sq.ILike{"numero_serie": "%" + filter.Search + "%"},
		})
	}
	builder = builder.OrderBy("created_at DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit).Offset(filter.Offset)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error al construir el SQL de GetAll: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error al listar equipos: %w", err)
	}
	defer rows.Close()

	equipos := make([]entities.Equipo, 0)
	for rows.Next() {
		e, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		equipos = append(equipos, *e)
	}
	return equipos, total, rows.Err()
}

func (r *equipoRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipo, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(equipoFields).From(equipoTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error al construir el SQL de FindByID: %w", err)
	}
	return r.scanRow(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

func (r *equipoRepository) ListByUbicacion(ctx context.Context, ubicacionID uint64) ([]entities.Equipo, error) {
	return r.list(ctx, sq.Eq{"ubicacion_id": ubicacionID})
}

func (r *equipoRepository) ListByEstado(ctx context.Context, estado string) ([]entities.Equipo, error) {
	return r.list(ctx, sq.Eq{"estado": estado})
}

func (r *equipoRepository) Create(ctx context.Context, equipo entities.Equipo) (uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Insert(equipoTable).
		Columns("nombre", "descripcion", "numero_serie", "modelo", "marca", "fecha_compra",
			"fecha_fin_garantia", "estado", "ubicacion_id", "usuario_creacion_id").
		Values(equipo.Nombre, equipo.Descripcion, equipo.NumeroSerie, equipo.Modelo, equipo.Marca,
			equipo.FechaCompra, equipo.FechaFinGarantia, equipo.Estado, equipo.UbicacionID, equipo.UsuarioCreacionID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error al construir el SQL de Create: %w", err)
	}

	var newID uint64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return 0, fmt.Errorf("ya existe un equipo con ese número de serie: %w", apperrors.ErrConflict)
			case "23503":
				return 0, fmt.Errorf("la ubicación indicada no existe: %w", apperrors.ErrNotFound)
			}
		}
		return 0, fmt.Errorf("error al crear el equipo: %w", err)
	}
	return newID, nil
}

func (r *equipoRepository) Update(ctx context.Context, id uint64, equipo entities.Equipo) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update(equipoTable).
		Set("nombre", equipo.Nombre).
		Set("descripcion", equipo.Descripcion).
		Set("numero_serie", equipo.NumeroSerie).
		Set("modelo", equipo.Modelo).
		Set("marca", equipo.Marca).
		Set("fecha_compra", equipo.FechaCompra).
		Set("fecha_fin_garantia", equipo.FechaFinGarantia).
		Set("estado", equipo.Estado).
		Set("ubicacion_id", equipo.UbicacionID).
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
			return fmt.Errorf("ya existe un equipo con ese número de serie: %w", apperrors.ErrConflict)
		}
		return fmt.Errorf("error al actualizar el equipo %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *equipoRepository) UpdateEstado(ctx context.Context, tx pgx.Tx, id uint64, estado string) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update(equipoTable).
		Set("estado", estado).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error al construir el SQL de UpdateEstado: %w", err)
	}

	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error al actualizar el estado del equipo %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *equipoRepository) Delete(ctx context.Context, id uint64) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Delete(equipoTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error al construir el SQL de Delete: %w", err)
	}

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error al eliminar el equipo %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *equipoRepository) CountByUbicacion(ctx context.Context, ubicacionID uint64) (uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select("COUNT(id)").From(equipoTable).Where(sq.Eq{"ubicacion_id": ubicacionID}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("error al construir el SQL de CountByUbicacion: %w", err)
	}

	var count uint64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error al contar equipos de la ubicación %d: %w", ubicacionID, err)
	}
	return count, nil
}
