package seeders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventario/pkg/constants"
	"inventario/pkg/utils"
)

// Seed deja la base en un estado usable: los cuatro roles del sistema y un
// administrador inicial si no existe ninguno. Es idempotente.
func Seed(ctx context.Context, pool *pgxpool.Pool, adminEmail, adminPassword string, logger *zap.Logger) error {
	roles := map[string]string{
		constants.RolAdministrador: "Acceso total al sistema",
		constants.RolSupervisor:    "Gestión de inventario y asignación de fichas",
		constants.RolTecnico:       "Resolución de fichas de avería",
		constants.RolUsuario:       "Reporte de averías y consulta",
	}

	for nombre, descripcion := range roles {
		_, err := pool.Exec(ctx,
			`INSERT INTO roles (nombre, descripcion) VALUES ($1, $2) ON CONFLICT (nombre) DO NOTHING`,
			nombre, descripcion)
		if err != nil {
			return fmt.Errorf("error al sembrar el rol %s: %w", nombre, err)
		}
	}
	logger.Info("roles sembrados")

	var admins int
	err := pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM usuario_roles ur
		 JOIN roles r ON r.id = ur.rol_id
		 WHERE r.nombre = $1`, constants.RolAdministrador).Scan(&admins)
	if err != nil {
		return fmt.Errorf("error al contar administradores: %w", err)
	}
	if admins > 0 {
		logger.Info("ya existe un administrador, no se crea otro")
		return nil
	}

	hash, err := utils.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("error al cifrar la contraseña del administrador: %w", err)
	}

	adminID := uuid.NewString()
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("no se pudo iniciar la transacción: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO usuarios (id, email, nombre, apellidos, password, activo)
		 VALUES ($1, $2, 'Administrador', '', $3, TRUE)`,
		adminID, adminEmail, hash)
	if err != nil {
		return fmt.Errorf("error al crear el administrador: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO usuario_roles (usuario_id, rol_id)
		 SELECT $1, id FROM roles WHERE nombre = $2`,
		adminID, constants.RolAdministrador)
	if err != nil {
		return fmt.Errorf("error al asignar el rol de administrador: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	logger.Info("administrador inicial creado", zap.String("email", adminEmail))
	return nil
}
