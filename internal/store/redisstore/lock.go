package redisstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/suPer8Hu/brand-assistant/internal/logging"
	"go.uber.org/zap"
)

const (
	turnLockPrefix   = "turnlock:conversation:"
	turnLockPollWait = 50 * time.Millisecond
)

// release only deletes the key if we still hold it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// TurnLocker serializes turns on one conversation across server instances.
// A holder that dies keeps the lock for at most ttl.
type TurnLocker struct {
	store *Store
	ttl   time.Duration
	poll  time.Duration
}

func NewTurnLocker(s *Store, ttl time.Duration) *TurnLocker {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &TurnLocker{store: s, ttl: ttl, poll: turnLockPollWait}
}

func turnLockKey(conversationID uint64) string {
	return fmt.Sprintf("%s%d", turnLockPrefix, conversationID)
}

func (l *TurnLocker) Lock(ctx context.Context, conversationID uint64) (func(), error) {
	key := turnLockKey(conversationID)
	token := uuid.NewString()

	for {
		ok, err := l.store.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis setnx %s: %w", key, err)
		}
		if ok {
			break
		}

		t := time.NewTimer(l.poll)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	var once sync.Once
	unlock := func() {
		once.Do(func() { l.release(ctx, key, token) })
	}
	return unlock, nil
}

func (l *TurnLocker) release(ctx context.Context, key, token string) {
	// the request context may already be cancelled; release regardless
	rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := releaseScript.Run(rctx, l.store.rdb, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		logging.FromContext(ctx).Warn("turn lock release failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
