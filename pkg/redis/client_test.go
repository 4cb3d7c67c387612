package redis

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestKeys(t *testing.T) {
	if got := stateKey(42); got != "state:42" {
		t.Errorf("stateKey = %q", got)
	}
	if got := quotaKey(-100123); got != "quota:-100123" {
		t.Errorf("quotaKey = %q", got)
	}
}

func TestSaveState_MarshalError(t *testing.T) {
	c := New("127.0.0.1:0", "", 0, time.Minute)
	defer c.Close()

	err := c.SaveState(context.Background(), 1, map[string]any{"bad": make(chan int)})
	if err == nil {
		t.Fatal("expected marshal error")
	}
}

func TestUnreachableServer(t *testing.T) {
	c := New("127.0.0.1:1", "", 0, time.Minute)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var state struct{}
	err := c.GetState(ctx, 1, &state)
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("GetState error = %v, want connection error", err)
	}
	if _, err := c.CheckRateLimit(ctx, 1, 5, time.Minute); err == nil {
		t.Fatal("CheckRateLimit: expected connection error")
	}
}

// quotaHook answers pipelines in place of a server and records them.
type quotaHook struct {
	count    int64
	pipeline [][]string
}

func (h *quotaHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("dial disabled in tests")
	}
}

func (h *quotaHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return next
}

func (h *quotaHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		var names []string
		for _, cmd := range cmds {
			names = append(names, strings.ToLower(cmd.Name()))
			switch cmd := cmd.(type) {
			case *redis.IntCmd:
				h.count++
				cmd.SetVal(h.count)
			case *redis.BoolCmd:
				cmd.SetVal(h.count == 1)
			}
		}
		h.pipeline = append(h.pipeline, names)
		return nil
	}
}

func TestCheckRateLimit_AtomicWindow(t *testing.T) {
	c := New("127.0.0.1:0", "", 0, time.Minute)
	defer c.Close()
	hook := &quotaHook{}
	c.client.AddHook(hook)

	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		ok, err := c.CheckRateLimit(ctx, 9, 2, time.Minute)
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if want := i <= 2; ok != want {
			t.Errorf("call %d: allowed = %v, want %v", i, ok, want)
		}
	}

	if len(hook.pipeline) != 3 {
		t.Fatalf("pipelines = %d, want one per call", len(hook.pipeline))
	}
	got := strings.Join(hook.pipeline[0], " ")
	if got != "multi incr expire exec" {
		t.Errorf("pipeline = %q, want INCR and EXPIRE inside MULTI/EXEC", got)
	}
}
