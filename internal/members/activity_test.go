package members

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/vitalfit/vitalfit-backend/pkg/enums"
)

type stubCache struct {
	lists  map[string][]string
	values map[string]string
}

func newStubCache() *stubCache {
	return &stubCache{
		lists:  make(map[string][]string),
		values: make(map[string]string),
	}
}

func (c *stubCache) PushRecent(_ context.Context, key, value string, max int64, _ time.Duration) error {
	list := c.lists[key]
	filtered := make([]string, 0, len(list)+1)
	filtered = append(filtered, value)
	for _, existing := range list {
		if existing != value {
			filtered = append(filtered, existing)
		}
	}
	if int64(len(filtered)) > max {
		filtered = filtered[:max]
	}
	c.lists[key] = filtered
	return nil
}

func (c *stubCache) ListRecent(_ context.Context, key string, max int64) ([]string, error) {
	list := c.lists[key]
	if int64(len(list)) > max {
		list = list[:max]
	}
	return list, nil
}

func (c *stubCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.values[key] = value.(string)
	return nil
}

func (c *stubCache) Get(_ context.Context, key string) (string, error) {
	value, ok := c.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (c *stubCache) RecentServicesKey(memberID string) string {
	return "vf:recent:services:" + memberID
}

func (c *stubCache) ViewModeKey(memberID string) string {
	return "vf:pref:view_mode:" + memberID
}

func TestRecordAndListRecentServices(t *testing.T) {
	activity, err := NewActivity(newStubCache())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()
	memberID := uuid.New()
	first := uuid.New()
	second := uuid.New()

	if err := activity.RecordServiceView(ctx, memberID, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := activity.RecordServiceView(ctx, memberID, second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Re-viewing moves the service back to the front.
	if err := activity.RecordServiceView(ctx, memberID, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids, err := activity.RecentServices(ctx, memberID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 || ids[0] != first || ids[1] != second {
		t.Fatalf("unexpected order: %v", ids)
	}
}

func TestViewModeDefaultsToGrid(t *testing.T) {
	activity, _ := NewActivity(newStubCache())
	ctx := context.Background()
	memberID := uuid.New()

	mode, err := activity.ViewMode(ctx, memberID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode != enums.ViewModeGrid {
		t.Fatalf("mode = %s, want grid", mode)
	}

	if err := activity.SaveViewMode(ctx, memberID, enums.ViewModeList); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mode, err = activity.ViewMode(ctx, memberID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode != enums.ViewModeList {
		t.Fatalf("mode = %s, want list", mode)
	}
}

func TestSaveViewModeRejectsUnknownMode(t *testing.T) {
	activity, _ := NewActivity(newStubCache())

	if err := activity.SaveViewMode(context.Background(), uuid.New(), enums.ViewMode("cards")); err == nil {
		t.Fatal("expected invalid mode to fail")
	}
}
