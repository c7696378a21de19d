package postgresql

import (
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"inventario/migrations"
)

// RunMigrations aplica las migraciones SQL embebidas con goose.
func RunMigrations(dsn string, logger *zap.Logger) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		logger.Fatal("error al abrir la conexión para migraciones", zap.Error(err))
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		logger.Fatal("error al configurar goose", zap.Error(err))
	}

	if err := goose.Up(db, "."); err != nil {
		logger.Fatal("error al aplicar migraciones", zap.Error(err))
	}

	logger.Info("migraciones aplicadas")
}
