package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventario/internal/dto"
	"inventario/internal/entities"
	"inventario/pkg/constants"
	apperrors "inventario/pkg/errors"
)

const (
	fichaAveriaTable  = "fichas_averia"
	fichaAveriaFields = `id, equipo_id, titulo, descripcion, estado, fecha_reporte, fecha_resolucion,
		solucion_aplicada, comentarios, prioridad, usuario_reporte_id, usuario_asignado_id, created_at, updated_at`
)

// Columnas del listado con joins a usuarios y equipos, en el orden de scanFichaDTO.
var fichaAveriaDTOColumns = []string{
	"f.id", "f.equipo_id", "f.titulo", "f.descripcion", "f.estado",
	"f.fecha_reporte", "f.fecha_resolucion", "f.solucion_aplicada", "f.comentarios", "f.prioridad",
	"ur.id", "ur.nombre", "ur.email",
	"ua.id", "ua.nombre", "ua.email",
	"e.nombre", "e.estado",
}

type FichaAveriaRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.FichaAveria, error)
	FindDTOByID(ctx context.Context, id uint64) (*dto.FichaAveriaDTO, error)
	Filter(ctx context.Context, filter dto.FichaAveriaFilterDTO) ([]dto.FichaAveriaDTO, error)
	Create(ctx context.Context, tx pgx.Tx, ficha entities.FichaAveria) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, ficha entities.FichaAveria) error
	Delete(ctx context.Context, id uint64) error
	CountAbiertasByEquipo(ctx context.Context, equipoID uint64) (uint64, error)
}

type fichaAveriaRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewFichaAveriaRepository(storage *pgxpool.Pool, logger *zap.Logger) FichaAveriaRepositoryInterface {
	return &fichaAveriaRepository{storage: storage, logger: logger}
}

func (r *fichaAveriaRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *fichaAveriaRepository) scanRow(row pgx.Row) (*entities.FichaAveria, error) {
	var f entities.FichaAveria
	var fechaResolucion sql.NullTime
	var solucion, comentarios, prioridad, asignadoID sql.NullString

	err := row.Scan(
		&f.ID, &f.EquipoID, &f.Titulo, &f.Descripcion, &f.Estado,
		&f.FechaReporte, &fechaResolucion, &solucion, &comentarios, &prioridad,
		&f.UsuarioReporteID, &asignadoID, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error al escanear fichas_averia: %w", err)
	}

	if fechaResolucion.Valid {
		f.FechaResolucion = &fechaResolucion.Time
	}
	if solucion.Valid {
		f.SolucionAplicada = &solucion.String
	}
	if comentarios.Valid {
		f.Comentarios = &comentarios.String
	}
	if prioridad.Valid {
		f.Prioridad = &prioridad.String
	}
	if asignadoID.Valid {
		f.UsuarioAsignadoID = &asignadoID.String
	}

	return &f, nil
}

func (r *fichaAveriaRepository) scanFichaDTO(rows pgx.Rows) (*dto.FichaAveriaDTO, error) {
	var d dto.FichaAveriaDTO
	var fechaResolucion sql.NullTime
	var solucion, comentarios, prioridad sql.NullString
	var reporteID, reporteNombre, reporteEmail sql.NullString
	var asignadoID, asignadoNombre, asignadoEmail sql.NullString
	var equipoNombre, equipoEstado sql.NullString

	err := rows.Scan(
		&d.ID, &d.EquipoID, &d.Titulo, &d.Descripcion, &d.Estado,
		&d.FechaReporte, &fechaResolucion, &solucion, &comentarios, &prioridad,
		&reporteID, &reporteNombre, &reporteEmail,
		&asignadoID, &asignadoNombre, &asignadoEmail,
		&equipoNombre, &equipoEstado,
	)
	if err != nil {
		return nil, fmt.Errorf("error al escanear el listado de fichas: %w", err)
	}

	if fechaResolucion.Valid {
		d.FechaResolucion = null.TimeFrom(fechaResolucion.Time)
	}
	if solucion.Valid {
		d.SolucionAplicada = null.StringFrom(solucion.String)
	}
	if comentarios.Valid {
		d.Comentarios = null.StringFrom(comentarios.String)
	}
	if prioridad.Valid {
		d.Prioridad = null.StringFrom(prioridad.String)
	}
	if reporteID.Valid {
		d.UsuarioReporte = dto.ShortUsuarioDTO{ID: reporteID.String, Nombre: reporteNombre.String, Email: reporteEmail.String}
	}
	if asignadoID.Valid {
		d.UsuarioAsignado = &dto.ShortUsuarioDTO{ID: asignadoID.String, Nombre: asignadoNombre.String, Email: asignadoEmail.String}
	}
	if equipoNombre.Valid {
		d.Equipo = &dto.ShortEquipoDTO{ID: d.EquipoID, Nombre: equipoNombre.String, Estado: equipoEstado.String}
	}

	return &d, nil
}

func (r *fichaAveriaRepository) dtoSelect() sq.SelectBuilder {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	return psql.Select(fichaAveriaDTOColumns...).
		From(fichaAveriaTable + " f").
		LeftJoin("usuarios ur ON ur.id = f.usuario_reporte_id").
		LeftJoin("usuarios ua ON ua.id = f.usuario_asignado_id").
		LeftJoin("equipos e ON e.id = f.equipo_id")
}

func (r *fichaAveriaRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.FichaAveria, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(fichaAveriaFields).
		From(fichaAveriaTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error al construir el SQL de FindByID: %w", err)
	}
	return r.scanRow(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

func (r *fichaAveriaRepository) FindDTOByID(ctx context.Context, id uint64) (*dto.FichaAveriaDTO, error) {
	query, args, err := r.dtoSelect().Where(sq.Eq{"f.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error al construir el SQL de FindDTOByID: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error al consultar la ficha %d: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrNotFound
	}
	return r.scanFichaDTO(rows)
}

// Filter aplica los criterios de forma conjuntiva. Los criterios no
// informados se ignoran. El orden es siempre fecha_reporte DESC: es parte
// del contrato de todos los listados de fichas.
func (r *fichaAveriaRepository) Filter(ctx context.Context, filter dto.FichaAveriaFilterDTO) ([]dto.FichaAveriaDTO, error) {
	builder := r.dtoSelect()

	if filter.EquipoID != nil {
		builder = builder.Where(sq.Eq{"f.equipo_id": *filter.EquipoID})
	}
	if filter.Estado != nil && *filter.Estado != "" {
		builder = builder.Where(sq.Eq{"f.estado": *filter.Estado})
	}
	if filter.UsuarioReporteID != nil && *filter.UsuarioReporteID != "" {
		builder = builder.Where(sq.Eq{"f.usuario_reporte_id": *filter.UsuarioReporteID})
	}
	if filter.UsuarioAsignadoID != nil && *filter.UsuarioAsignadoID != "" {
		builder = builder.Where(sq.Eq{"f.usuario_asignado_id": *filter.UsuarioAsignadoID})
	}
	if filter.Prioridad != nil && *filter.Prioridad != "" {
		builder = builder.Where(sq.Eq{"f.prioridad": *filter.Prioridad})
	}
	if filter.FechaInicio != nil {
		builder = builder.Where(sq.GtOrEq{"f.fecha_reporte": *filter.FechaInicio})
	}
	if filter.FechaFin != nil {
		builder = builder.Where(sq.LtOrEq{"f.fecha_reporte": *filter.FechaFin})
	}
	if filter.IncluirResueltas != nil && !*filter.IncluirResueltas {
		builder = builder.Where(sq.NotEq{"f.estado": constants.FichaEstadoResuelta})
	}

	query, args, err := builder.OrderBy("f.fecha_reporte DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("error al construir el SQL del filtro: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error al filtrar fichas de avería: %w", err)
	}
	defer rows.Close()

	fichas := make([]dto.FichaAveriaDTO, 0)
	for rows.Next() {
		f, err := r.scanFichaDTO(rows)
		if err != nil {
			return nil, err
		}
		fichas = append(fichas, *f)
	}
	return fichas, rows.Err()
}

func (r *fichaAveriaRepository) Create(ctx context.Context, tx pgx.Tx, ficha entities.FichaAveria) (uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Insert(fichaAveriaTable).
		Columns("equipo_id", "titulo", "descripcion", "estado", "fecha_reporte",
			"solucion_aplicada", "comentarios", "prioridad", "usuario_reporte_id", "usuario_asignado_id").
		Values(ficha.EquipoID, ficha.Titulo, ficha.Descripcion, ficha.Estado, ficha.FechaReporte,
			ficha.SolucionAplicada, ficha.Comentarios, ficha.Prioridad, ficha.UsuarioReporteID, ficha.UsuarioAsignadoID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error al construir el SQL de Create: %w", err)
	}

	var newID uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&newID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return 0, fmt.Errorf("referencia inexistente al crear la ficha: %w", apperrors.ErrNotFound)
		}
		return 0, fmt.Errorf("error al crear la ficha de avería: %w", err)
	}
	return newID, nil
}

func (r *fichaAveriaRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, ficha entities.FichaAveria) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update(fichaAveriaTable).
		Set("titulo", ficha.Titulo).
		Set("descripcion", ficha.Descripcion).
		Set("estado", ficha.Estado).
		Set("fecha_resolucion", ficha.FechaResolucion).
		Set("solucion_aplicada", ficha.SolucionAplicada).
		Set("comentarios", ficha.Comentarios).
		Set("prioridad", ficha.Prioridad).
		Set("usuario_asignado_id", ficha.UsuarioAsignadoID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error al construir el SQL de Update: %w", err)
	}

	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error al actualizar la ficha %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *fichaAveriaRepository) Delete(ctx context.Context, id uint64) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Delete(fichaAveriaTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error al construir el SQL de Delete: %w", err)
	}

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error al eliminar la ficha %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *fichaAveriaRepository) CountAbiertasByEquipo(ctx context.Context, equipoID uint64) (uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select("COUNT(id)").
		From(fichaAveriaTable).
		Where(sq.Eq{"equipo_id": equipoID}).
		Where(sq.NotEq{"estado": constants.FichaEstadoResuelta}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error al construir el SQL de CountAbiertasByEquipo: %w", err)
	}

	var count uint64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error al contar fichas abiertas del equipo %d: %w", equipoID, err)
	}
	return count, nil
}
