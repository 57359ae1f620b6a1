package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nexcard/backend/internal/models"
)

const cardCacheKeyPrefix = "card:link:"

// CardCache is an optional read-through cache for public card fetches. The
// view counter always hits the store; only the document body is cached, so a
// cached response may report a slightly stale view count.
type CardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCardCache(client *redis.Client, ttl time.Duration) *CardCache {
	return &CardCache{client: client, ttl: ttl}
}

// Get reports a cache miss (false) for any error; the cache is best-effort.
func (c *CardCache) Get(ctx context.Context, cardLink string) (*models.Card, bool) {
	val, err := c.client.Get(ctx, cardCacheKeyPrefix+cardLink).Result()
	if err != nil {
		return nil, false
	}

	var card models.Card
	if err := json.Unmarshal([]byte(val), &card); err != nil {
		log.Printf("[CardCache] corrupt entry link=%s err=%v", cardLink, err)
		return nil, false
	}
	return &card, true
}

func (c *CardCache) Set(ctx context.Context, card *models.Card) {
	payload, err := json.Marshal(card)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cardCacheKeyPrefix+card.CardLink, payload, c.ttl).Err(); err != nil {
		log.Printf("[CardCache] set failed link=%s err=%v", card.CardLink, err)
	}
}

func (c *CardCache) Invalidate(ctx context.Context, cardLink string) {
	if err := c.client.Del(ctx, cardCacheKeyPrefix+cardLink).Err(); err != nil {
		log.Printf("[CardCache] invalidate failed link=%s err=%v", cardLink, err)
	}
}
