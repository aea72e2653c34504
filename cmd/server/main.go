package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/go_lessons/internal/api"
	"github.com/fjod/go_lessons/internal/cache"
	"github.com/fjod/go_lessons/internal/cart"
	"github.com/fjod/go_lessons/internal/catalog"
	"github.com/fjod/go_lessons/internal/checkout"
	h "github.com/fjod/go_lessons/internal/http"
	"github.com/fjod/go_lessons/internal/search"
	"github.com/fjod/go_lessons/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	// Empty APIBaseURL means disconnected operation: the engine runs
	// entirely off the seed dataset and never touches the network.
	APIBaseURL      string        `envconfig:"API_BASE_URL" default:""`
	HTTPPort        string        `envconfig:"HTTP_PORT" default:"8080"`
	RedisAddr       string        `envconfig:"REDIS_ADDR" default:""`
	RedisPassword   string        `envconfig:"REDIS_PASSWORD" default:""`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func main() {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// Remote service wiring. The three interfaces stay nil interfaces in
	// disconnected mode; a typed nil *api.Client would not.
	var (
		lister   catalog.LessonLister
		searcher search.RemoteSearcher
		orderAPI checkout.OrderAPI
	)
	if cfg.APIBaseURL != "" {
		client := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)
		lister, searcher, orderAPI = client, client, client
		log.Printf("Using remote lesson service at %s", cfg.APIBaseURL)
	} else {
		log.Printf("No API_BASE_URL set, running on seed data only")
	}

	// Optional search cache. A broken Redis disables caching, it never
	// takes the engine down.
	var searchCache cache.SearchCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Redis ping failed, search cache disabled: %v", err)
		} else {
			searchCache = cache.NewRedisCache(redisClient)
			log.Printf("Search cache enabled at %s", cfg.RedisAddr)
		}
	}

	cat := catalog.New()
	loadCtx, cancelLoad := context.WithTimeout(ctx, cfg.RequestTimeout)
	cat.Load(loadCtx, lister)
	cancelLoad()
	log.Printf("Catalog loaded with %d lessons", cat.Len())

	cartManager := cart.NewManager(cat)
	searchIndex := search.NewSearcher(cat, searcher, searchCache)
	coordinator := checkout.NewCoordinator(orderAPI, cartManager, cat)
	sess := session.New(cat, searchIndex, cartManager, coordinator)
	handler := h.NewWidgetHandler(sess)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/lessons", handler.GetLessons)
		r.Post("/search", handler.PostSearch)
		r.Get("/search", handler.GetSearch)
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", handler.GetCart)
			r.Post("/items", handler.AddCartItem)
			r.Delete("/items/{index}", handler.RemoveCartItem)
		})
		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", handler.GetCheckout)
			r.Put("/form", handler.PutForm)
			r.Post("/open", handler.OpenCheckout)
			r.Post("/confirm", handler.ConfirmCheckout)
			r.Post("/cancel", handler.CancelCheckout)
		})
		r.Get("/session", handler.GetSession)
		r.Put("/session/view", handler.PutView)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Booking engine listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	log.Println("server stopped")
}
