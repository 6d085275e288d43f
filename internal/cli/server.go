package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ar-quiz-service/internal/app"
	"ar-quiz-service/internal/bridge"
	"ar-quiz-service/internal/config"
	"ar-quiz-service/internal/content"
	"ar-quiz-service/internal/domain"
	"ar-quiz-service/internal/infra/memory"
	pgstore "ar-quiz-service/internal/infra/postgres"
	redisstore "ar-quiz-service/internal/infra/redis"
	"ar-quiz-service/internal/infra/sqlite"
	transport "ar-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the AR quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	kv, closeKV, err := openStore(ctx, cfg, redisClient, pool)
	if err != nil {
		return err
	}
	defer closeKV()

	printer := content.NewPrinter(cfg.Catalog.Language)
	catalog := content.NewGenerator(content.DefaultTexts, rand.New(rand.NewSource(catalogSeed(cfg))), printer).
		Generate(domain.Subjects)

	var loader content.Loader = content.NewStaticLoader(catalog)
	if pool != nil {
		pgLoader := pgstore.NewCatalogLoader(pool)
		if err := seedCatalog(ctx, pgLoader, catalog); err != nil {
			return err
		}
		loader = pgLoader
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	var source content.Source
	if redisClient != nil {
		source = redisstore.NewCatalogRepository(redisClient, loader, catalogTTL)
	} else {
		source = memory.NewCatalogRepository(loader, catalogTTL)
	}

	var games app.GameRepository
	if redisClient != nil {
		games = redisstore.NewGameStore(redisClient, redisTTL)
	} else {
		games = memory.NewGameStore()
	}

	factory := &app.Factory{
		Catalog:     source,
		Progress:    content.NewProgressStore(kv),
		Leaderboard: app.NewLeaderboardStore(kv, cfg.Game.LeaderboardSize),
		Printer:     printer,
		Scheduler:   app.TimerScheduler{},
		Options:     gameOptions(cfg),
		Bridge:      bridgeOptions(cfg),
	}

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(games, factory),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting ar quiz service on :%s (storage: %s)", finalPort, cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openStore picks the record store named by storage.driver.
func openStore(ctx context.Context, cfg config.Config, redisClient *redis.Client, pool *pgxpool.Pool) (domain.KeyValueStore, func(), error) {
	nop := func() {}
	switch cfg.Storage.Driver {
	case config.DriverRedis:
		if redisClient == nil {
			return nil, nop, fmt.Errorf("%w: redis addr not configured", domain.ErrMissingDependency)
		}
		return redisstore.NewKVStore(redisClient, "arquiz:kv:"), nop, nil
	case config.DriverPostgres:
		if pool == nil {
			return nil, nop, fmt.Errorf("%w: postgres url not configured", domain.ErrMissingDependency)
		}
		return pgstore.NewKVStore(pool), nop, nil
	case config.DriverSQLite:
		path := cfg.SQLite.Path
		if path == "" {
			path = "ar-quiz.db"
		}
		store, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, nop, err
		}
		return store, func() { store.Close() }, nil
	default:
		return memory.NewKVStore(), nop, nil
	}
}

// seedCatalog stores generated levels for subjects the database does not have yet.
func seedCatalog(ctx context.Context, loader *pgstore.CatalogLoader, catalog content.Catalog) error {
	for _, subject := range domain.Subjects {
		_, err := loader.LoadSubject(ctx, subject)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrUnknownSubject) {
			return err
		}
		if err := loader.SaveSubject(ctx, subject, catalog[subject]); err != nil {
			return err
		}
		log.Printf("seeded catalog for %s", subject)
	}
	return nil
}

func catalogSeed(cfg config.Config) int64 {
	if cfg.Catalog.Seed != 0 {
		return cfg.Catalog.Seed
	}
	return time.Now().UnixNano()
}

func gameOptions(cfg config.Config) app.Options {
	opts := app.DefaultOptions()
	opts.LoadingDelay = config.TTLDuration(cfg.Game.LoadingDelay, opts.LoadingDelay)
	opts.NextQuestionDelay = config.TTLDuration(cfg.Game.NextQuestionDelay, opts.NextQuestionDelay)
	opts.ResultsDelay = config.TTLDuration(cfg.Game.ResultsDelay, opts.ResultsDelay)
	return opts
}

func bridgeOptions(cfg config.Config) bridge.Options {
	opts := bridge.DefaultOptions()
	opts.PlacementRadius = config.FloatOr(cfg.AR.PlacementRadius, opts.PlacementRadius)
	opts.LineSpacing = config.FloatOr(cfg.AR.LineSpacing, opts.LineSpacing)
	opts.AnchorOffset.Y = config.FloatOr(cfg.AR.AnchorOffsetY, opts.AnchorOffset.Y)
	opts.AnchorOffset.Z = config.FloatOr(cfg.AR.AnchorOffsetZ, opts.AnchorOffset.Z)
	return opts
}
