package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeStore struct {
	lists   map[string][]string
	expires map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		lists:   map[string][]string{},
		expires: map[string]time.Duration{},
	}
}

func (f *fakeStore) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeStore) Set(context.Context, string, any, time.Duration) *redis.StatusCmd {
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeStore) Get(context.Context, string) *redis.StringCmd {
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeStore) SetNX(context.Context, string, any, time.Duration) *redis.BoolCmd {
	return redis.NewBoolResult(true, nil)
}

func (f *fakeStore) Del(context.Context, ...string) *redis.IntCmd {
	return redis.NewIntResult(1, nil)
}

func (f *fakeStore) LPush(_ context.Context, key string, values ...any) *redis.IntCmd {
	for _, value := range values {
		f.lists[key] = append([]string{value.(string)}, f.lists[key]...)
	}
	return redis.NewIntResult(int64(len(f.lists[key])), nil)
}

func (f *fakeStore) LRem(_ context.Context, key string, _ int64, value any) *redis.IntCmd {
	var kept []string
	removed := int64(0)
	for _, existing := range f.lists[key] {
		if existing == value.(string) {
			removed++
			continue
		}
		kept = append(kept, existing)
	}
	f.lists[key] = kept
	return redis.NewIntResult(removed, nil)
}

func (f *fakeStore) LTrim(_ context.Context, key string, start, stop int64) *redis.StatusCmd {
	list := f.lists[key]
	if stop >= int64(len(list)) {
		stop = int64(len(list)) - 1
	}
	if start < int64(len(list)) && start <= stop {
		f.lists[key] = list[start : stop+1]
	} else {
		f.lists[key] = nil
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeStore) LRange(_ context.Context, key string, start, stop int64) *redis.StringSliceCmd {
	list := f.lists[key]
	if stop >= int64(len(list)) {
		stop = int64(len(list)) - 1
	}
	if start >= int64(len(list)) || stop < start {
		return redis.NewStringSliceResult(nil, nil)
	}
	return redis.NewStringSliceResult(list[start:stop+1], nil)
}

func (f *fakeStore) Expire(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	f.expires[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func TestPushRecentDeduplicatesAndCaps(t *testing.T) {
	store := newFakeStore()
	client := &Client{store: store}
	ctx := context.Background()
	key := client.RecentServicesKey("member-1")

	for _, id := range []string{"a", "b", "c", "b"} {
		if err := client.PushRecent(ctx, key, id, 3, time.Hour); err != nil {
			t.Fatalf("push recent: %v", err)
		}
	}

	got, err := client.ListRecent(ctx, key, 3)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	want := []string{"b", "c", "a"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestPushRecentEnforcesCap(t *testing.T) {
	store := newFakeStore()
	client := &Client{store: store}
	ctx := context.Background()
	key := client.RecentServicesKey("member-2")

	for _, id := range []string{"a", "b", "c", "d"} {
		if err := client.PushRecent(ctx, key, id, 2, 0); err != nil {
			t.Fatalf("push recent: %v", err)
		}
	}

	got, err := client.ListRecent(ctx, key, 10)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(got) != 2 || got[0] != "d" || got[1] != "c" {
		t.Fatalf("expected [d c], got %v", got)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.LockKey("cron"); got != "vf:lock:cron" {
		t.Fatalf("unexpected lock key %q", got)
	}
	if got := client.ViewModeKey("m1"); got != "vf:pref:view_mode:m1" {
		t.Fatalf("unexpected pref key %q", got)
	}
}
