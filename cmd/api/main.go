package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/safar/promo-store/internal/cart"
	"github.com/safar/promo-store/internal/config"
	"github.com/safar/promo-store/internal/database"
	"github.com/safar/promo-store/internal/httpapi"
	"github.com/safar/promo-store/internal/logger"
	"github.com/safar/promo-store/internal/pricing"
	"github.com/safar/promo-store/internal/quotation"
	"github.com/safar/promo-store/internal/store"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	logg, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Init logger: %v", err)
	}
	defer logg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(ctx, &cfg.Database, logg)
	if err != nil {
		logg.Fatal("connect to database", zap.Error(err))
	}
	defer db.Close()

	rdb, err := cart.ConnectRedis(ctx, cfg.Redis.URL)
	if err != nil {
		logg.Fatal("connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	catalog := store.Catalog{DB: db}
	h := &httpapi.Handlers{
		Products:  catalog,
		Customers: store.Customers{DB: db},
		Orders:    store.Orders{DB: db},
		Quotes:    quotation.NewService(catalog, pricing.NewAssembler(nil, nil), cfg.Quote.CompanyName, logg),
		Carts:     cart.NewRedisStorage(rdb, cfg.Redis.CartTTL),
		Log:       logg,
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpapi.NewRouter(h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error("server shutdown", zap.Error(err))
		}
	}()

	logg.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("env", cfg.App.Env))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Fatal("server error", zap.Error(err))
	}
	logg.Info("server stopped")
}
