package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/barbershop-dashboard/internal/auth"
	"github.com/ariefcatur/barbershop-dashboard/internal/barbers"
	"github.com/ariefcatur/barbershop-dashboard/internal/catalog"
	"github.com/ariefcatur/barbershop-dashboard/internal/config"
	"github.com/ariefcatur/barbershop-dashboard/internal/feed"
	"github.com/ariefcatur/barbershop-dashboard/internal/httpx"
	kafkax "github.com/ariefcatur/barbershop-dashboard/internal/kafka"
	"github.com/ariefcatur/barbershop-dashboard/internal/members"
	"github.com/ariefcatur/barbershop-dashboard/internal/obs"
	"github.com/ariefcatur/barbershop-dashboard/internal/postgres"
	"github.com/ariefcatur/barbershop-dashboard/internal/redisx"
	"github.com/ariefcatur/barbershop-dashboard/internal/reports"
	"github.com/ariefcatur/barbershop-dashboard/internal/sales"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		obs.Logger.Error("config", "err", err)
		os.Exit(1)
	}
	obs.Init(cfg.Log.Level, cfg.Log.Format)
	log := obs.Logger.With("service", cfg.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN, cfg.ServiceName)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Error("db migrate", "err", err)
		os.Exit(1)
	}

	// Redis; the cache degrades to direct reads when it is down
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	if err := redisx.Ping(ctx, rdb); err != nil {
		log.Warn("redis unavailable, serving uncached", "err", err)
	}
	cache := redisx.NewCache(rdb)

	// Kafka change feed
	prod := kafkax.NewProducer(cfg.KafkaBrokers, feed.TopicChanges, 1024)
	prod.Start(ctx)
	pub := &feed.InvalidatingPublisher{
		Cache: cache,
		Next:  &feed.KafkaPublisher{Sink: prod, Producer: cfg.ServiceName},
	}

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret)
	if err != nil {
		log.Error("auth", "err", err)
		os.Exit(1)
	}
	limit, err := httpx.RateLimit(cfg.Auth.RateLimit)
	if err != nil {
		log.Error("rate limit", "rate", cfg.Auth.RateLimit, "err", err)
		os.Exit(1)
	}
	loc, _ := cfg.Location()

	// Repos & services
	catalogRepo := &catalog.Repo{DB: db}
	salesRepo := &sales.Repo{DB: db}

	memberSvc := members.NewService(&members.Repo{DB: db}, pub, cache)
	catalogSvc := &catalog.Service{Store: catalogRepo, Feed: pub, Cache: cache}
	barberSvc := &barbers.Service{Store: &barbers.Repo{DB: db}, Feed: pub, Cache: cache}
	checkout := sales.NewService(salesRepo, catalogRepo, pub)
	reportSvc := &reports.Service{Source: salesRepo, Location: loc, Currency: cfg.Currency}

	router := httpx.NewRouter(httpx.API{
		Members: &httpx.MembersHandler{Svc: memberSvc},
		Catalog: &httpx.CatalogHandler{Svc: catalogSvc},
		Barbers: &httpx.BarbersHandler{Svc: barberSvc},
		Sales: &httpx.SalesHandler{
			Carts:    sales.NewCartStore(),
			Checkout: checkout,
			Sales:    salesRepo,
			Products: catalogSvc,
			Sellers:  barberSvc,
			Location: loc,
		},
		Reports: &httpx.ReportsHandler{Svc: reportSvc, Location: loc},
	}, httpx.Options{Tokens: tokens, RateLimit: limit})

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", "err", err)
	}
	prod.Close() // flush pending change events
	prod.WaitClosed()
	cancel()
}
