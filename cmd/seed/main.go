package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/safar/promo-store/internal/catalog"
	"github.com/safar/promo-store/internal/config"
	"github.com/safar/promo-store/internal/database"
	"github.com/safar/promo-store/internal/logger"
	"github.com/safar/promo-store/internal/store"
	"go.uber.org/zap"
)

func main() {
	path := flag.String("file", "data/catalog.yaml", "catalog YAML to load")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	logg, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Init logger: %v", err)
	}
	defer logg.Sync()

	f, err := os.Open(*path)
	if err != nil {
		logg.Fatal("open catalog", zap.String("file", *path), zap.Error(err))
	}
	defer f.Close()

	products, err := catalog.LoadSeed(f)
	if err != nil {
		logg.Fatal("parse catalog", zap.String("file", *path), zap.Error(err))
	}

	ctx := context.Background()
	db, err := database.NewConnection(ctx, &cfg.Database, logg)
	if err != nil {
		logg.Fatal("connect to database", zap.Error(err))
	}
	defer db.Close()

	created, skipped := 0, 0
	for i := range products {
		p := &products[i]
		_, err := store.CreateProduct(ctx, db, p)
		switch {
		case err == nil:
			created++
		case errors.Is(err, database.ErrDuplicateSKU):
			skipped++
			logg.Debug("product already present", zap.String("sku", p.SKU))
		default:
			logg.Fatal("create product", zap.String("sku", p.SKU), zap.Error(err))
		}
	}

	logg.Info("catalog seeded", zap.Int("created", created), zap.Int("skipped", skipped))
}
