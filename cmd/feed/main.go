package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/barbershop-dashboard/internal/config"
	"github.com/ariefcatur/barbershop-dashboard/internal/feed"
	kafkax "github.com/ariefcatur/barbershop-dashboard/internal/kafka"
	"github.com/ariefcatur/barbershop-dashboard/internal/obs"
	"github.com/ariefcatur/barbershop-dashboard/internal/redisx"
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
	name := cfg.ServiceName + "-feed"
	log := obs.Logger.With("service", name)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	if err := redisx.Ping(ctx, rdb); err != nil {
		log.Error("redis", "err", err)
		os.Exit(1)
	}

	svc := &feed.Service{
		Cache:       redisx.NewCache(rdb),
		ServiceName: name,
		Seen: func(ctx context.Context, service, id string) (bool, error) {
			return redisx.FirstSeen(ctx, rdb, service, id)
		},
		Forget: func(ctx context.Context, service, id string) error {
			return redisx.Forget(ctx, rdb, service, id)
		},
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.Feed.Group, feed.TopicChanges, cfg.Feed.Workers)
	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info("feed consumer started", "group", cfg.Feed.Group, "topic", feed.TopicChanges, "workers", cfg.Feed.Workers)
		if err := cons.Start(ctx, svc.HandleChange); err != nil {
			log.Error("consumer exit", "err", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
		log.Info("shutting down consumer")
	case <-ctx.Done():
	}
	cancel()
	<-done
}
