package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventario/internal/entities"
	apperrors "inventario/pkg/errors"
)

const (
	usuarioTable  = "usuarios"
	usuarioFields = `id, email, nombre, apellidos, password, activo, access_failed_count,
		lockout_end, refresh_token, refresh_token_expiry, created_at, updated_at`
)

type UsuarioRepositoryInterface interface {
	GetAll(ctx context.Context) ([]entities.Usuario, error)
	FindByID(ctx context.Context, id string) (*entities.Usuario, error)
	FindByEmail(ctx context.Context, email string) (*entities.Usuario, error)
	Create(ctx context.Context, usuario entities.Usuario, rolIDs []uint64) error
	Update(ctx context.Context, id string, usuario entities.Usuario) error
	SetRoles(ctx context.Context, id string, rolIDs []uint64) error
	RegisterFailedLogin(ctx context.Context, id string, count int, lockoutEnd *time.Time) error
	ResetAccessFailed(ctx context.Context, id string) error
	SaveRefreshToken(ctx context.Context, id string, token *string, expiry *time.Time) error
	Delete(ctx context.Context, id string) error
}

type usuarioRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUsuarioRepository(storage *pgxpool.Pool, logger *zap.Logger) UsuarioRepositoryInterface {
	return &usuarioRepository{storage: storage, logger: logger}
}

func (r *usuarioRepository) scanRow(row pgx.Row) (*entities.Usuario, error) {
	var u entities.Usuario
	var lockoutEnd, refreshExpiry sql.NullTime
	var refreshToken sql.NullString

	err := row.Scan(
		&u.ID, &u.Email, &u.Nombre, &u.Apellidos, &u.Password, &u.Activo,
		&u.AccessFailedCount, &lockoutEnd, &refreshToken, &refreshExpiry,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error al escanear usuarios: %w", err)
	}

	if lockoutEnd.Valid {
		u.LockoutEnd = &lockoutEnd.Time
	}
	if refreshToken.Valid {
		u.RefreshToken = &refreshToken.String
	}
	if refreshExpiry.Valid {
		u.RefreshTokenExpiry = &refreshExpiry.Time
	}
	return &u, nil
}

func (r *usuarioRepository) loadRoles(ctx context.Context, id string) ([]string, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select("r.nombre").
		From("usuario_roles ur").
		Join("roles r ON r.id = ur.rol_id").
		Where(sq.Eq{"ur.usuario_id": id}).
		OrderBy("r.nombre ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error al construir el SQL de roles: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error al cargar los roles del usuario %s: %w", id, err)
	}
	defer rows.Close()

	roles := make([]string, 0)
	for rows.Next() {
		var nombre string
		if err := rows.Scan(&nombre); err != nil {
			return nil, fmt.Errorf("error al escanear roles: %w", err)
		}
		roles = append(roles, nombre)
	}
	return roles, rows.Err()
}

func (r *usuarioRepository) GetAll(ctx context.Context) ([]entities.Usuario, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(usuarioFields).From(usuarioTable).OrderBy("nombre ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("error al construir el SQL de GetAll: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error al listar usuarios: %w", err)
	}
	defer rows.Close()

	usuarios := make([]entities.Usuario, 0)
	for rows.Next() {
		u, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		usuarios = append(usuarios, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range usuarios {
		roles, err := r.loadRoles(ctx, usuarios[i].ID)
		if err != nil {
			return nil, err
		}
		usuarios[i].Roles = roles
	}
	return usuarios, nil
}

func (r *usuarioRepository) findBy(ctx context.Context, where sq.Eq) (*entities.Usuario, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(usuarioFields).From(usuarioTable).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error al construir el SQL de búsqueda de usuario: %w", err)
	}

	u, err := r.scanRow(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	u.Roles, err = r.loadRoles(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *usuarioRepository) FindByID(ctx context.Context, id string) (*entities.Usuario, error) {
	return r.findBy(ctx, sq.Eq{"id": id})
}

func (r *usuarioRepository) FindByEmail(ctx context.Context, email string) (*entities.Usuario, error) {
	return r.findBy(ctx, sq.Eq{"email": email})
}

// Create inserta el usuario y sus roles en una transacción propia: un usuario
// sin roles no puede autorizarse contra ningún endpoint.
func (r *usuarioRepository) Create(ctx context.Context, usuario entities.Usuario, rolIDs []uint64) error {
	tx, err := r.storage.Begin(ctx)
	if err != nil {
		return fmt.Errorf("no se pudo iniciar la transacción: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Insert(usuarioTable).
		Columns("id", "email", "nombre", "apellidos", "password", "activo").
		Values(usuario.ID, usuario.Email, usuario.Nombre, usuario.Apellidos, usuario.Password, usuario.Activo).
		ToSql()
	if err != nil {
		return fmt.Errorf("error al construir el SQL de Create: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("ya existe un usuario con ese email: %w", apperrors.ErrConflict)
		}
		return fmt.Errorf("error al crear el usuario: %w", err)
	}

	if err := r.insertRoles(ctx, tx, usuario.ID, rolIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *usuarioRepository) insertRoles(ctx context.Context, tx pgx.Tx, id string, rolIDs []uint64) error {
	if len(rolIDs) == 0 {
		return nil
	}

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Insert("usuario_roles").Columns("usuario_id", "rol_id")
	for _, rolID := range rolIDs {
		builder = builder.Values(id, rolID)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("error al construir el SQL de roles: %w", err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("error al asignar roles al usuario %s: %w", id, err)
	}
	return nil
}

func (r *usuarioRepository) Update(ctx context.Context, id string, usuario entities.Usuario) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update(usuarioTable).
		Set("email", usuario.Email).
		Set("nombre", usuario.Nombre).
		Set("apellidos", usuario.Apellidos).
		Set("activo", usuario.Activo).
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
			return fmt.Errorf("ya existe un usuario con ese email: %w", apperrors.ErrConflict)
		}
		return fmt.Errorf("error al actualizar el usuario %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *usuarioRepository) SetRoles(ctx context.Context, id string, rolIDs []uint64) error {
	tx, err := r.storage.Begin(ctx)
	if err != nil {
		return fmt.Errorf("no se pudo iniciar la transacción: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Delete("usuario_roles").Where(sq.Eq{"usuario_id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error al construir el SQL de SetRoles: %w", err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("error al limpiar los roles del usuario %s: %w", id, err)
	}

	if err := r.insertRoles(ctx, tx, id, rolIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *usuarioRepository) RegisterFailedLogin(ctx context.Context, id string, count int, lockoutEnd *time.Time) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update(usuarioTable).
		Set("access_failed_count", count).
		Set("lockout_end", lockoutEnd).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error al construir el SQL de RegisterFailedLogin: %w", err)
	}

	if _, err := r.storage.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("error al registrar el intento fallido del usuario %s: %w", id, err)
	}
	return nil
}

func (r *usuarioRepository) ResetAccessFailed(ctx context.Context, id string) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update(usuarioTable).
		Set("access_failed_count", 0).
		Set("lockout_end", nil).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error al construir el SQL de ResetAccessFailed: %w", err)
	}

	if _, err := r.storage.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("error al reiniciar el contador de fallos del usuario %s: %w", id, err)
	}
	return nil
}

func (r *usuarioRepository) SaveRefreshToken(ctx context.Context, id string, token *string, expiry *time.Time) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update(usuarioTable).
		Set("refresh_token", token).
		Set("refresh_token_expiry", expiry).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error al construir el SQL de SaveRefreshToken: %w", err)
	}

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error al guardar el refresh token del usuario %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *usuarioRepository) Delete(ctx context.Context, id string) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Delete(usuarioTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error al construir el SQL de Delete: %w", err)
	}

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("el usuario tiene fichas asociadas: %w", apperrors.ErrConflict)
		}
		return fmt.Errorf("error al eliminar el usuario %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
