package ticket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ssokit/slogate/internal/otel"
	"github.com/ssokit/slogate/pkg/metrics"
	"github.com/ssokit/slogate/pkg/service"
)

const redisKeyPrefix = "slogate:ticket:"

type redisRegistry struct {
	client redis.Cmdable
}

var _ Registry = &redisRegistry{}

func NewRedis(client redis.Cmdable) Registry {
	return &redisRegistry{
		client: client,
	}
}

func (r *redisRegistry) Get(ctx context.Context, id string) (*TicketGrantingTicket, error) {
	ctx, span := otel.StartSpan(ctx, "RedisTicketRegistry.Get")
	defer span.End()
	span.SetAttributes(attribute.Bool("redis.key_exists", false))

	var raw string
	err := metrics.ObserveRedisLatency(metrics.RedisOperationRead, func() error {
		var err error
		raw, err = r.client.Get(ctx, redisKeyPrefix+id).Result()
		return err
	})
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, err
	}

	span.SetAttributes(attribute.Bool("redis.key_exists", true))

	tgt := &TicketGrantingTicket{}
	if err := json.Unmarshal([]byte(raw), tgt); err != nil {
		return nil, fmt.Errorf("unmarshalling ticket %q: %w", id, err)
	}

	tgt.relinkSharedServices(make(map[string]*service.Service))

	return tgt, nil
}

func (r *redisRegistry) Add(ctx context.Context, tgt *TicketGrantingTicket) error {
	ctx, span := otel.StartSpan(ctx, "RedisTicketRegistry.Add")
	defer span.End()

	raw, err := json.Marshal(tgt)
	if err != nil {
		return fmt.Errorf("marshalling ticket %q: %w", tgt.ID, err)
	}

	return metrics.ObserveRedisLatency(metrics.RedisOperationWrite, func() error {
		return r.client.Set(ctx, redisKeyPrefix+tgt.ID, raw, 0).Err()
	})
}

func (r *redisRegistry) Delete(ctx context.Context, ids ...string) error {
	ctx, span := otel.StartSpan(ctx, "RedisTicketRegistry.Delete")
	defer span.End()

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, redisKeyPrefix+id)
	}

	err := metrics.ObserveRedisLatency(metrics.RedisOperationDelete, func() error {
		return r.client.Del(ctx, keys...).Err()
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	return nil
}
