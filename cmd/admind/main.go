package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backoffice-client/config"
	"backoffice-client/internal/api"
	"backoffice-client/internal/auth"
	"backoffice-client/internal/cache"
	"backoffice-client/internal/images"
	"backoffice-client/internal/notify"
	"backoffice-client/internal/session"
	"backoffice-client/internal/store"
	"backoffice-client/internal/util"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Env, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting back-office sync daemon")

	tp, err := util.InitTracer("backoffice-client", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	sess, err := session.Open(cfg.Session.Path)
	if err != nil {
		log.Fatalf("Failed to open session store: %v", err)
	}

	var snaps store.SnapshotCache
	if redisSnaps, err := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL); err != nil {
		logger.Warn("Snapshot cache unavailable, continuing without it", zap.Error(err))
	} else {
		defer redisSnaps.Close()
		snaps = redisSnaps
		log.Println("Snapshot cache connected")
	}

	notifier := notify.New()

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, sess, notifier)
	authMgr := auth.NewManager(client, sess, notifier)
	client.SetUnauthorizedHook(authMgr.HandleUnauthorized)

	ctx := context.Background()
	if err := signIn(ctx, cfg, authMgr); err != nil {
		log.Fatalf("Failed to establish a session: %v", err)
	}

	products := store.NewProducts(client, notifier, snaps)
	categories := store.NewCategories(client, notifier, snaps)
	users := store.NewUsers(client, notifier, snaps)
	subscriptions := store.NewSubscriptions(client, notifier, snaps)
	carousel := store.NewCarousel(client, notifier, snaps)

	products.WarmStart(ctx)
	categories.WarmStart(ctx)
	users.WarmStart(ctx)
	subscriptions.WarmStart(ctx)
	carousel.WarmStart(ctx)

	normalizer := images.NewNormalizer(cfg.Images.BaseURL, cfg.Images.Placeholder)

	refreshCtx, refreshCancel := context.WithCancel(context.Background())
	defer refreshCancel()

	go runRefreshLoop(refreshCtx, cfg.Sync.RefreshInterval, logger, normalizer,
		products, categories, users, subscriptions, carousel)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Observ.PrometheusPort),
		Handler: metricsMux,
	}

	go func() {
		log.Printf("Serving metrics on port %s", cfg.Observ.PrometheusPort)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start metrics server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Metrics server forced to shutdown: %v", err)
	}

	refreshCancel()
	log.Println("Daemon exited")
}

// signIn restores the persisted session, falling back to the configured
// credentials when no usable session exists.
func signIn(ctx context.Context, cfg *config.Config, authMgr *auth.Manager) error {
	if err := authMgr.Restore(ctx); err == nil && authMgr.IsAuthenticated() {
		return nil
	}

	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		return fmt.Errorf("no stored session and no admin credentials configured")
	}

	if err := authMgr.Login(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		return err
	}

	// login leaves the profile unset; load it explicitly
	if _, err := authMgr.LoadProfile(ctx); err != nil {
		return err
	}
	return nil
}

func runRefreshLoop(
	ctx context.Context,
	interval time.Duration,
	logger *zap.Logger,
	normalizer *images.Normalizer,
	products *store.Products,
	categories *store.Categories,
	users *store.Users,
	subscriptions *store.Subscriptions,
	carousel *store.Carousel,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	refresh := func() {
		if list, err := products.FetchAll(ctx); err != nil {
			logger.Warn("Product refresh failed", zap.Error(err))
		} else {
			missing := 0
			for _, p := range list {
				artwork := ""
				if len(p.Images) > 0 {
					artwork = p.Images[0].URL
				}
				if normalizer.Normalize(artwork) == normalizer.Placeholder() {
					missing++
				}
			}
			if missing > 0 {
				logger.Info("Products without artwork", zap.Int("count", missing))
			}
		}

		if _, err := categories.FetchAll(ctx); err != nil {
			logger.Warn("Category refresh failed", zap.Error(err))
		}
		if _, err := users.FetchAll(ctx); err != nil {
			logger.Warn("User refresh failed", zap.Error(err))
		}
		if _, err := subscriptions.FetchAll(ctx); err != nil {
			logger.Warn("Subscription refresh failed", zap.Error(err))
		} else {
			logger.Info("Subscription revenue",
				zap.Int64("active_amount", subscriptions.ActiveRevenue()))
		}
		if _, err := carousel.FetchAll(ctx); err != nil {
			logger.Warn("Carousel refresh failed", zap.Error(err))
		}

		util.RefreshCyclesTotal.Inc()
	}

	refresh()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}
