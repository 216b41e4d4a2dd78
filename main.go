package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	bidding "auction-coordinator/internal/biddingService"
	"auction-coordinator/internal/config"
	"auction-coordinator/internal/events"
	model "auction-coordinator/internal/models"
	"auction-coordinator/internal/repository"
	"auction-coordinator/internal/scheduler"
	"auction-coordinator/internal/server"
	"auction-coordinator/internal/store"
	"auction-coordinator/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		utils.Fatal("auction server stopped with error", map[string]any{"error": err.Error()})
	}
	utils.Info("auction server stopped", nil)
}

// run wires the server and blocks until shutdown. Errors are returned rather
// than fatal so the deferred store and publisher closes always run.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := utils.SetLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("failed to configure logger: %w", err)
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := newRepository(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.StoreBackend, err)
	}
	defer closeStore()

	publisher, closePublisher, err := newPublisher(cfg)
	if err != nil {
		return fmt.Errorf("failed to create event publisher: %w", err)
	}
	defer closePublisher()

	biddingSvc := bidding.NewBiddingService(repo, bidding.WithPublisher(publisher))

	if cfg.SeedItems {
		if err := prepopulateItems(ctx, biddingSvc); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.SetupRouter(biddingSvc),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		utils.Info("starting auction server", map[string]any{"addr": srv.Addr, "store": cfg.StoreBackend})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		utils.Info("shutting down auction server", nil)
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.AuctionDuration > 0 {
		closer := scheduler.NewAutoCloser(biddingSvc, cfg.AuctionDuration, cfg.AutoCloseInterval)
		g.Go(func() error {
			return closer.Run(gctx)
		})
	}

	return g.Wait()
}

// newRepository builds the ledger repository for the configured backend
func newRepository(ctx context.Context, cfg config.Config) (repository.AuctionDB, func(), error) {
	var (
		s   store.CollectionStore
		err error
	)

	utils.Debug("selecting store backend", map[string]any{"backend": cfg.StoreBackend})
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return repository.NewMemoryRepo(), func() {}, nil
	case config.BackendFile:
		s, err = store.NewFileStore(cfg.StoreFile)
	case config.BackendRedis:
		client, redisErr := config.NewRedisClient(ctx, cfg)
		if redisErr != nil {
			return nil, nil, redisErr
		}
		s = store.NewRedisStore(client, cfg.RedisPrefix)
	case config.BackendPostgres:
		s, err = store.NewPostgresStore(ctx, cfg.DatabaseURL)
	default:
		err = fmt.Errorf("%w: %s", store.ErrUnknownBackend, cfg.StoreBackend)
	}
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		if err := s.Close(); err != nil {
			utils.Warn("failed to close store", map[string]any{"error": err.Error()})
		}
	}
	return repository.NewStoreRepo(s), closeFn, nil
}

// newPublisher connects to RabbitMQ when configured and falls back to logging events
func newPublisher(cfg config.Config) (events.Publisher, func(), error) {
	if cfg.RabbitMQURL == "" {
		utils.Info("RABBITMQ_URL not set, events will only be logged", nil)
		return events.LogPublisher{}, func() {}, nil
	}

	publisher, err := events.DialRabbitMQ(cfg.RabbitMQURL, cfg.EventsExchange)
	if err != nil {
		return nil, nil, err
	}
	utils.Info("RabbitMQ connected", map[string]any{"exchange": cfg.EventsExchange})

	closeFn := func() {
		if err := publisher.Close(); err != nil {
			utils.Warn("failed to close RabbitMQ publisher", map[string]any{"error": err.Error()})
		}
	}
	return publisher, closeFn, nil
}

// prepopulateItems writes the default catalogue when the store has no items
func prepopulateItems(ctx context.Context, svc *bidding.BiddingService) error {
	seeded, err := svc.SeedItems(ctx, defaultItems())
	if err != nil {
		return fmt.Errorf("failed to seed items: %w", err)
	}
	if seeded {
		utils.Info("seeded default items", map[string]any{"count": len(defaultItems())})
	}
	return nil
}

func defaultItems() []model.Item {
	catalogue := []struct {
		name  string
		price int64
	}{
		{"Reloj antiguo", 50},
		{"Guitarra clásica", 120},
		{"Cuadro al óleo", 200},
		{"Bicicleta vintage", 80},
		{"Cámara analógica", 60},
	}

	items := make([]model.Item, 0, len(catalogue))
	for i, c := range catalogue {
		items = append(items, model.Item{
			ID:         i + 1,
			Name:       c.name,
			BasePrice:  c.price,
			HighestBid: c.price,
		})
	}
	return items
}
