package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pickemgo/pickem-backend/internal/config"
	"github.com/pickemgo/pickem-backend/internal/draft"
	"github.com/pickemgo/pickem-backend/internal/httpapi"
	"github.com/pickemgo/pickem-backend/internal/hub"
	"github.com/pickemgo/pickem-backend/internal/pubsub"
	"github.com/pickemgo/pickem-backend/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	log := newLogger(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		zcfg.Level = lvl
	}
	log, err := zcfg.Build()
	if err != nil {
		panic(err)
	}
	return log
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return err
	}
	if err := store.AutoMigrate(db); err != nil {
		return err
	}

	bus, cleanup, err := newBus(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	svc := draft.NewService(
		store.NewPlayerStore(db),
		store.NewGameStore(db),
		store.NewPickStore(db),
		bus,
		log,
		cfg.Season,
	)

	h := hub.NewHub(ctx, bus, svc.Snapshot, log)
	handler := httpapi.SetupRoutes(h, svc, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("port", cfg.Port), zap.Int("season", cfg.Season))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		h.Inbox() <- hub.ShutdownHub{}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newBus builds the event bus: bridged over NATS when NATS_URL is set,
// in-process only otherwise.
func newBus(cfg config.Config, log *zap.Logger) (*pubsub.PubSub, func(), error) {
	if cfg.NATSURL == "" {
		return pubsub.New(), func() {}, nil
	}

	upstream, err := pubsub.NewNATSUpstream(cfg.NATSURL, log)
	if err != nil {
		return nil, nil, err
	}
	bus, err := pubsub.NewWithUpstream(upstream)
	if err != nil {
		upstream.Close()
		return nil, nil, err
	}
	log.Info("event bus bridged over NATS", zap.String("url", cfg.NATSURL))
	return bus, upstream.Close, nil
}
