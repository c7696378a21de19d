package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"inventario/pkg/config"
	"inventario/pkg/database/postgresql"
	"inventario/pkg/logger"
	"inventario/seeders"
)

func main() {
	log := logger.NewLogger()
	defer func() { _ = log.Sync() }()

	cfg := config.New()
	ctx := context.Background()

	postgresql.RunMigrations(cfg.Postgres.DSN, log)
	pool := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, log)
	defer pool.Close()

	adminEmail := os.Getenv("SEED_ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@inventario.local"
	}
	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Cambiar.123"
	}

	if err := seeders.Seed(ctx, pool, adminEmail, adminPassword, log); err != nil {
		log.Fatal("error al sembrar los datos iniciales", zap.Error(err))
	}
}
