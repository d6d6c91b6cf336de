package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redsync/redsync/v4"
	redsync_redis "github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// ErrLockLost is reported when a held lock could not be extended.
var ErrLockLost = errors.New("lock lost")

type Client struct {
	Client *redis.Client
	Lock   *redsync.Redsync
}

func NewClient(addr string) *Client {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	pool := redsync_redis.NewPool(client)

	return &Client{
		Client: client,
		Lock:   redsync.New(pool),
	}
}

func (c *Client) Close() error {
	return c.Client.Close()
}

// WithLock runs fn while holding the distributed mutex called name. The
// lock is extended every ttl/3 until fn returns; if an extension fails, the
// context handed to fn is cancelled.
func (c *Client) WithLock(ctx context.Context, name string, ttl time.Duration, fn func(ctx context.Context) error) error {
	mutex := c.Lock.NewMutex(name, redsync.WithExpiry(ttl))
	if err := mutex.LockContext(ctx); err != nil {
		return fmt.Errorf("error acquiring lock %s: %w", name, err)
	}

	lockCtx, cancel := context.WithCancelCause(ctx)
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(ttl / 3)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-lockCtx.Done():
				return
			case <-ticker.C:
				if ok, err := mutex.ExtendContext(lockCtx); !ok || err != nil {
					slog.Error("error extending lock", "lock", name, "error", err)
					cancel(fmt.Errorf("lost lock %s: %w", name, ErrLockLost))
					return
				}
			}
		}
	}()

	err := fn(lockCtx)
	close(done)
	<-stopped
	if cause := context.Cause(lockCtx); errors.Is(cause, ErrLockLost) {
		err = errors.Join(cause, err)
	}
	cancel(nil)

	if _, unlockErr := mutex.UnlockContext(context.WithoutCancel(ctx)); unlockErr != nil {
		slog.Error("error releasing lock", "lock", name, "error", unlockErr)
	}
	return err
}
