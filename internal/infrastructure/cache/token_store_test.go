package cache

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"neuropharm-backend/internal/domain/gateway"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// deadlineHook answers commands without a server and remembers, per
// command name, whether the context carried a deadline.
type deadlineHook struct {
	mu        sync.Mutex
	deadlines map[string]bool
	keys      []string
}

func (h *deadlineHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *deadlineHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.mu.Lock()
		_, ok := ctx.Deadline()
		h.deadlines[cmd.Name()] = ok
		h.mu.Unlock()

		switch c := cmd.(type) {
		case *redis.StatusCmd:
			c.SetVal("OK")
		case *redis.IntCmd:
			c.SetVal(1)
		case *redis.ScanCmd:
			c.SetVal(h.keys, 0)
		}
		return nil
	}
}

func (h *deadlineHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func newHookedStore(t *testing.T, timeout time.Duration, keys ...string) (*RedisTokenStore, *deadlineHook) {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { client.Close() })

	hook := &deadlineHook{deadlines: map[string]bool{}, keys: keys}
	client.AddHook(hook)
	return NewRedisTokenStore(client, timeout), hook
}

func TestRedisTokenStoreBoundsEveryCommand(t *testing.T) {
	userID := uuid.New()
	store, hook := newHookedStore(t, time.Second, tokenKey(gateway.TokenKindAccess, userID, "a"))
	ctx := context.Background()

	if err := store.Store(ctx, gateway.TokenKindAccess, userID, "a", time.Minute); err != nil {
		t.Fatalf("Store: %v", err)
	}
	ok, err := store.Exists(ctx, gateway.TokenKindAccess, userID, "a")
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}
	if err := store.Revoke(ctx, gateway.TokenKindAccess, userID, "a"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if err := store.RevokeAll(ctx, userID); err != nil {
		t.Fatalf("RevokeAll: %v", err)
	}

	for _, name := range []string{"set", "exists", "del", "scan"} {
		bounded, seen := hook.deadlines[name]
		if !seen {
			t.Errorf("%s was never sent", name)
			continue
		}
		if !bounded {
			t.Errorf("%s ran without a deadline", name)
		}
	}
}

func TestRedisTokenStoreWithoutTimeout(t *testing.T) {
	store, hook := newHookedStore(t, 0)

	if err := store.Store(context.Background(), gateway.TokenKindRefresh, uuid.New(), "r", time.Minute); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if hook.deadlines["set"] {
		t.Error("a zero timeout should leave the context alone")
	}
}
