package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quizdom/internal/app"
	"quizdom/internal/domain"
)

// CategoryRepository caches categories in Redis and falls back to a loader on cache miss.
// Categories are stored as: HSET {prefix}categories {key} {json}
type CategoryRepository struct {
	client *redis.Client
	loader app.CategoryRepository
	ttl    time.Duration
	prefix string
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCategoryRepository(client *redis.Client, loader app.CategoryRepository, ttl time.Duration, prefix string) *CategoryRepository {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &CategoryRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		prefix: prefix,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CategoryRepository) Categories(ctx context.Context) ([]domain.Category, error) {
	key := r.categoriesKey()

	cached, err := r.client.HGetAll(ctx, key).Result()
	if err == nil && len(cached) > 0 {
		return buildCategoriesFromCache(cached), nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		cached, err := r.client.HGetAll(ctx, key).Result()
		if err == nil && len(cached) > 0 {
			return buildCategoriesFromCache(cached), nil
		}

		categories, err := r.loader.Categories(ctx)
		if err != nil {
			return nil, err
		}

		pipe := r.client.Pipeline()
		for _, c := range categories {
			raw, err := json.Marshal(c)
			if err != nil {
				continue
			}
			pipe.HSet(ctx, key, c.Key(), raw)
		}
		if ttl := r.ttlWithJitter(); ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Category), nil
}

func (r *CategoryRepository) categoriesKey() string {
	return r.prefix + "categories"
}

// buildCategoriesFromCache decodes the hash and restores the backend order by ID.
func buildCategoriesFromCache(cached map[string]string) []domain.Category {
	categories := make([]domain.Category, 0, len(cached))
	for _, raw := range cached {
		var c domain.Category
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			continue
		}
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].BackendID() != categories[j].BackendID() {
			return categories[i].BackendID() < categories[j].BackendID()
		}
		return categories[i].Key() < categories[j].Key()
	})
	return categories
}

func (r *CategoryRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
