package interfaces

import (
	"context"
	"time"

	"github.com/go-redis/redis_rate/v10"
)

type Limiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) error
}

// Clock supplies the current time to the services so date-boundary logic
// can be driven deterministically in tests.
type Clock interface {
	Now() time.Time
}

// RoleManager applies and revokes guild roles on the chat platform. The
// worker sweeps and the exchange flow call it; the engine itself never talks
// to the platform directly.
type RoleManager interface {
	GrantRole(ctx context.Context, guildID, userID, roleID string) error
	RevokeRole(ctx context.Context, guildID, userID, roleID string) error
}
