package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/joimopro25-dot/myimomate3.0-sub001/internal/entity"
)

const leadKeyPrefix = "crm:lead:"

// LeadCache espelha leads no Redis. O contrato é explícito: Patch
// substitui a entrada inteira pelo estado novo, Invalidate remove. A
// fonte de verdade é sempre o Postgres; a cache só evita reads.
type LeadCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLeadCache(client *redis.Client, ttl time.Duration) *LeadCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &LeadCache{client: client, ttl: ttl}
}

func (c *LeadCache) Get(ctx context.Context, leadID string) (*entity.Lead, error) {
	data, err := c.client.Get(ctx, leadKeyPrefix+leadID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	lead := &entity.Lead{}
	if err := json.Unmarshal(data, lead); err != nil {
		// Entrada corrompida: remove e força leitura no banco.
		c.client.Del(ctx, leadKeyPrefix+leadID)
		return nil, nil
	}
	return lead, nil
}

func (c *LeadCache) Patch(ctx context.Context, lead *entity.Lead) error {
	data, err := json.Marshal(lead)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, leadKeyPrefix+lead.ID, data, c.ttl).Err()
}

func (c *LeadCache) Invalidate(ctx context.Context, leadID string) error {
	return c.client.Del(ctx, leadKeyPrefix+leadID).Err()
}
