package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Pinger adapts a redis client to the readiness check interface.
type Pinger struct {
	client redis.UniversalClient
}

func NewPinger(client redis.UniversalClient) Pinger {
	return Pinger{client: client}
}

func (p Pinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
