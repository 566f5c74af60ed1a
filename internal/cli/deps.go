package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"quizdom/internal/app"
	"quizdom/internal/config"
	"quizdom/internal/domain"
	"quizdom/internal/infra/api"
	"quizdom/internal/infra/memory"
	redisstore "quizdom/internal/infra/redis"
	"quizdom/internal/infra/sqlite"
)

// deps holds everything a session needs, built once per command from config.
type deps struct {
	cfg         config.Config
	kv          app.KVStore
	backend     app.Backend
	leaderboard app.LeaderboardFetcher
	catalog     *app.CategoryCatalog
	bank        []domain.Question
	redis       *redis.Client
	tick        time.Duration
	closers     []func() error
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}
	if opts.apiURL != "" {
		cfg.API.BaseURL = opts.apiURL
	}
	if opts.store != "" {
		cfg.Store.Driver = opts.store
	}
	return cfg, cfg.Validate()
}

func buildDeps(ctx context.Context, opts *rootOptions) (*deps, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	d := &deps{cfg: cfg, tick: config.TTLDuration(cfg.Quiz.Tick, time.Second)}

	if cfg.Store.Driver == config.DriverRedis {
		d.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		})
		d.closers = append(d.closers, d.redis.Close)
		if err := d.redis.Ping(ctx).Err(); err != nil {
			d.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Store.Redis.Addr, err)
		}
	}

	switch cfg.Store.Driver {
	case config.DriverMemory:
		d.kv = memory.NewKVStore()
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.Store.SQLite.Path)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.kv = store
		d.closers = append(d.closers, store.Close)
	case config.DriverRedis:
		d.kv = redisstore.NewKVStore(d.redis, cfg.Store.Redis.Prefix)
	}

	var categories app.CategoryRepository
	if cfg.API.BaseURL != "" {
		client := api.NewClient(cfg.API.BaseURL, config.TTLDuration(cfg.API.Timeout, 10*time.Second))
		d.backend = client
		d.leaderboard = client

		ttl := config.TTLDuration(cfg.Categories.TTL, 10*time.Minute)
		if d.redis != nil {
			categories = redisstore.NewCategoryRepository(d.redis, client, ttl, cfg.Store.Redis.Prefix)
		} else {
			categories = memory.NewCategoryRepository(client, ttl)
		}
	}
	d.catalog = app.NewCategoryCatalog(categories, memory.StaticCategories())

	d.bank, err = memory.LoadQuestionBank(cfg.Quiz.BankPath)
	if err != nil {
		d.Close()
		return nil, err
	}
	log.Printf("quizdom ready: store=%s backend=%q questions=%d", cfg.Store.Driver, cfg.API.BaseURL, len(d.bank))
	return d, nil
}

func (d *deps) newSession(renderer app.Renderer, players *app.PlayerStore) *app.QuizSession {
	settings := app.NewSettingsStore(d.kv)
	return app.NewQuizSession(app.Config{
		Backend:      d.backend,
		Bank:         d.bank,
		Catalog:      d.catalog,
		Settings:     settings,
		Leaderboard:  app.NewLeaderboardStore(d.leaderboard, d.kv),
		Players:      players,
		Renderer:     renderer,
		TickInterval: d.tick,
	})
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			log.Printf("close: %v", err)
		}
	}
	d.closers = nil
}
