// Package ratecatalog reads hourly rate cards from Postgres through a Redis
// cache. Cache keys embed a generation counter; Invalidate bumps it so that
// every previously cached entry becomes unreachable at once.
package ratecatalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"estimate-workers/internal/common/errors"
	"estimate-workers/internal/common/logger"
	"estimate-workers/internal/common/metrics"
	"estimate-workers/internal/models"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultKeyPrefix = "ratecatalog"
	DefaultTTL       = 15 * time.Minute
)

type Config struct {
	KeyPrefix string
	TTL       time.Duration
}

// Filter narrows a lookup to the regions and designations a request needs.
type Filter struct {
	Regions      []string
	Designations []string
}

// FilterForLines collects the distinct regions and designations of lines.
func FilterForLines(lines []models.ResourceLine) Filter {
	var f Filter
	for _, l := range lines {
		f.Regions = append(f.Regions, l.Region)
		f.Designations = append(f.Designations, l.Designation)
	}
	return f
}

// Signature is stable across ordering, case and duplicates.
func (f Filter) Signature() string {
	return strings.Join(normalize(f.Regions), ",") + "|" + strings.Join(normalize(f.Designations), ",")
}

func (f Filter) empty() bool {
	return len(normalize(f.Regions)) == 0 || len(normalize(f.Designations)) == 0
}

func normalize(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToUpper(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

type Catalog struct {
	db     *sql.DB
	redis  *redis.Client
	config Config
	logger logger.Logger
}

func New(db *sql.DB, rdb *redis.Client, cfg Config, log logger.Logger) *Catalog {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &Catalog{
		db:     db,
		redis:  rdb,
		config: cfg,
		logger: log.WithFields(map[string]interface{}{"component": "rate-catalog"}),
	}
}

func (c *Catalog) generationKey() string {
	return c.config.KeyPrefix + ":gen"
}

func (c *Catalog) cacheKey(generation int64, f Filter) string {
	return fmt.Sprintf("%s:gen:%d:%s", c.config.KeyPrefix, generation, f.Signature())
}

// Load returns the rate cards matching f. With forceRefresh the cache read is
// skipped but the fresh result is still written back. Cache failures degrade
// to a database read; database failures are RATE_CATALOG_UNAVAILABLE.
func (c *Catalog) Load(ctx context.Context, f Filter, forceRefresh bool) ([]models.RateCard, error) {
	if f.empty() {
		return nil, nil
	}

	generation, cacheOK := c.generation(ctx)
	key := c.cacheKey(generation, f)

	if cacheOK && !forceRefresh {
		if cards, ok := c.readCache(ctx, key); ok {
			metrics.RateCacheLookups.WithLabelValues("hit").Inc()
			return cards, nil
		}
	}

	cards, err := c.query(ctx, f)
	if err != nil {
		return nil, errors.NewRateCatalogUnavailableError(err)
	}

	result := "miss"
	if forceRefresh {
		result = "bypass"
	}
	metrics.RateCacheLookups.WithLabelValues(result).Inc()

	if cacheOK {
		c.writeCache(ctx, key, cards)
	}
	return cards, nil
}

// Invalidate bumps the cache generation and returns the new value.
func (c *Catalog) Invalidate(ctx context.Context) (int64, error) {
	generation, err := c.redis.Incr(ctx, c.generationKey()).Result()
	if err != nil {
		return 0, errors.NewRateCatalogUnavailableError(fmt.Errorf("bump cache generation: %w", err))
	}
	metrics.RateCacheInvalidations.Inc()
	c.logger.Info("rate cache invalidated", map[string]interface{}{"generation": generation})
	return generation, nil
}

func (c *Catalog) generation(ctx context.Context) (int64, bool) {
	val, err := c.redis.Get(ctx, c.generationKey()).Result()
	if err == redis.Nil {
		return 0, true
	}
	if err != nil {
		metrics.RateCacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("rate cache unavailable, reading database", map[string]interface{}{"error": err.Error()})
		return 0, false
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		c.logger.Warn("corrupt rate cache generation", map[string]interface{}{"value": val})
		return 0, false
	}
	return n, true
}

func (c *Catalog) readCache(ctx context.Context, key string) ([]models.RateCard, bool) {
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("rate cache read failed", map[string]interface{}{"error": err.Error()})
		}
		return nil, false
	}
	var cards []models.RateCard
	if err := json.Unmarshal([]byte(val), &cards); err != nil {
		c.logger.Warn("discarding undecodable rate cache entry", map[string]interface{}{"key": key})
		return nil, false
	}
	return cards, true
}

func (c *Catalog) writeCache(ctx context.Context, key string, cards []models.RateCard) {
	data, err := json.Marshal(cards)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.config.TTL).Err(); err != nil {
		c.logger.Warn("rate cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

const rateQuery = `
	SELECT region, designation, hourly_rate, currency
	FROM rate_cards
	WHERE UPPER(region) = ANY($1) AND UPPER(designation) = ANY($2)
	ORDER BY region, designation`

func (c *Catalog) query(ctx context.Context, f Filter) ([]models.RateCard, error) {
	rows, err := c.db.QueryContext(ctx, rateQuery, pq.Array(normalize(f.Regions)), pq.Array(normalize(f.Designations)))
	if err != nil {
		return nil, fmt.Errorf("query rate_cards: %w", err)
	}
	defer rows.Close()

	var cards []models.RateCard
	for rows.Next() {
		var card models.RateCard
		if err := rows.Scan(&card.Region, &card.Designation, &card.HourlyRate, &card.Currency); err != nil {
			return nil, fmt.Errorf("scan rate card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rate_cards: %w", err)
	}
	return cards, nil
}
