package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const priceKeyPrefix = "price:latest:"

// Cache is a Redis-backed latest-price snapshot with an explicit TTL
// and an explicit invalidation call. Cached entries expire on their own
// after the TTL; Invalidate forces a refetch before that.
//
// Redis being down never blocks pricing: every miss or cache error
// falls through to the upstream fetcher.
type Cache struct {
	rdb     *redis.Client
	fetcher PriceFetcher
	ttl     time.Duration
	log     zerolog.Logger
}

// NewCache creates a price cache over rdb, filling misses from fetcher.
func NewCache(rdb *redis.Client, fetcher PriceFetcher, ttl time.Duration, log zerolog.Logger) *Cache {
	return &Cache{
		rdb:     rdb,
		fetcher: fetcher,
		ttl:     ttl,
		log:     log.With().Str("component", "pricecache").Logger(),
	}
}

// LatestPrices returns a price per requested symbol, serving from Redis
// where the TTL has not lapsed and fetching the rest upstream.
func (c *Cache) LatestPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(symbols))
	if len(symbols) == 0 {
		return prices, nil
	}

	keys := make([]string, len(symbols))
	for i, symbol := range symbols {
		keys[i] = priceKeyPrefix + symbol
	}

	var missing []string
	cached, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		c.log.Warn().Err(err).Msg("cache read failed, fetching all symbols upstream")
		missing = symbols
	} else {
		for i, raw := range cached {
			s, ok := raw.(string)
			if !ok {
				missing = append(missing, symbols[i])
				continue
			}
			price, err := decimal.NewFromString(s)
			if err != nil {
				c.log.Warn().Str("symbol", symbols[i]).Str("value", s).Msg("discarding unparsable cached price")
				missing = append(missing, symbols[i])
				continue
			}
			prices[symbols[i]] = price
		}
	}

	if len(missing) == 0 {
		return prices, nil
	}

	fetched, err := c.fetcher.LatestPrices(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest prices: %w", err)
	}

	pipe := c.rdb.Pipeline()
	for symbol, price := range fetched {
		prices[symbol] = price
		pipe.Set(ctx, priceKeyPrefix+symbol, price.String(), c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn().Err(err).Msg("cache write failed")
	}

	return prices, nil
}

// Invalidate drops the cached prices for the given symbols so the next
// read refetches them regardless of remaining TTL.
func (c *Cache) Invalidate(ctx context.Context, symbols ...string) error {
	if len(symbols) == 0 {
		return nil
	}
	keys := make([]string, len(symbols))
	for i, symbol := range symbols {
		keys[i] = priceKeyPrefix + symbol
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached prices: %w", err)
	}
	return nil
}
