package pos

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// CartSessions maps a session ID to its current pending order. The
// pointer is the single-writer handle on a cart: exactly one pending
// order is current per session, and no other session may reach it.
type CartSessions struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartSessions(client *redis.Client, ttl time.Duration) *CartSessions {
	return &CartSessions{client: client, ttl: ttl}
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

// Current returns the pending order ID for the session, or ok=false
// when the session has no active cart.
func (c *CartSessions) Current(ctx context.Context, sessionID string) (int64, bool, error) {
	val, err := c.client.Get(ctx, cartKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// Set installs orderID as the session's current cart.
func (c *CartSessions) Set(ctx context.Context, sessionID string, orderID int64) error {
	return c.client.Set(ctx, cartKey(sessionID), strconv.FormatInt(orderID, 10), c.ttl).Err()
}

// Clear drops the session's cart pointer. The order itself is left
// alone; completion keeps it, cancellation deletes it separately.
func (c *CartSessions) Clear(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, cartKey(sessionID)).Err()
}
