package main

import (
	"context"
	"flag"
	"log"

	"github.com/safar/promo-store/internal/config"
	"github.com/safar/promo-store/internal/database"
	"github.com/safar/promo-store/internal/logger"
	"go.uber.org/zap"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding goose SQL migrations")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("Usage: go run scripts/run_migrations.go [-dir migrations] up|down")
	}
	direction := database.Direction(flag.Arg(0))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	logg, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Init logger: %v", err)
	}
	defer logg.Sync()

	ctx := context.Background()
	db, err := database.NewConnection(ctx, &cfg.Database, logg)
	if err != nil {
		logg.Fatal("connect to database", zap.Error(err))
	}
	defer db.Close()

	version, err := database.Migrate(ctx, db, *dir, direction, logg)
	if err != nil {
		logg.Fatal("migrate", zap.String("direction", string(direction)), zap.Error(err))
	}

	logg.Info("migrations complete", zap.String("direction", string(direction)), zap.Int64("version", version))
}
