package ticket

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ssokit/slogate/internal/retry"
	"github.com/ssokit/slogate/pkg/config"
)

var ErrNotFound = errors.New("ticket not found")

// Registry owns ticket persistence. The logout engine only reads sessions
// during teardown and deletes tickets afterwards.
type Registry interface {
	Get(ctx context.Context, id string) (*TicketGrantingTicket, error)
	Add(ctx context.Context, tgt *TicketGrantingTicket) error
	Delete(ctx context.Context, ids ...string) error
}

func NewRegistry(cfg *config.Config) (Registry, error) {
	if len(cfg.Redis.Address) == 0 && len(cfg.Redis.URI) == 0 {
		log.Warnf("Redis not configured, using in-memory ticket registry; not suitable for multi-pod deployments!")
		return NewMemory(), nil
	}

	redisClient, err := cfg.Redis.Client()
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err = retry.Do(ctx, func(ctx context.Context) error {
		err := redisClient.Ping(ctx).Err()
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	}, retry.WithMax(30*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to configured Redis: %w", err)
	}

	log.Infof("Using Redis as ticket registry")
	return NewRedis(redisClient), nil
}
