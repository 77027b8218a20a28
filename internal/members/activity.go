package members

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/vitalfit/vitalfit-backend/pkg/enums"
	pkgerrors "github.com/vitalfit/vitalfit-backend/pkg/errors"
)

const (
	recentServicesMax = 20
	recentServicesTTL = 30 * 24 * time.Hour
	viewModeTTL       = 0 // preferences do not expire
)

// activityCache is the redis surface for ephemeral member state, the
// server-side analog of the app's browser storage.
type activityCache interface {
	PushRecent(ctx context.Context, key, value string, max int64, ttl time.Duration) error
	ListRecent(ctx context.Context, key string, max int64) ([]string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	RecentServicesKey(memberID string) string
	ViewModeKey(memberID string) string
}

// Activity tracks recently viewed services and the dashboard view mode.
type Activity struct {
	cache activityCache
}

func NewActivity(cache activityCache) (*Activity, error) {
	if cache == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "activity cache is required")
	}
	return &Activity{cache: cache}, nil
}

// RecordServiceView pushes the service to the top of the member's
// recently-viewed ring.
func (a *Activity) RecordServiceView(ctx context.Context, memberID, serviceID uuid.UUID) error {
	if memberID == uuid.Nil || serviceID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "member and service ids are required")
	}
	key := a.cache.RecentServicesKey(memberID.String())
	if err := a.cache.PushRecent(ctx, key, serviceID.String(), recentServicesMax, recentServicesTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording service view")
	}
	return nil
}

// RecentServices returns the member's recently viewed service ids, newest
// first. Unparseable entries are skipped.
func (a *Activity) RecentServices(ctx context.Context, memberID uuid.UUID) ([]uuid.UUID, error) {
	if memberID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "member id is required")
	}
	key := a.cache.RecentServicesKey(memberID.String())
	raw, err := a.cache.ListRecent(ctx, key, recentServicesMax)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing recent services")
	}

	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(strings.TrimSpace(value))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// SaveViewMode stores the member's grid/list layout preference.
func (a *Activity) SaveViewMode(ctx context.Context, memberID uuid.UUID, mode enums.ViewMode) error {
	if memberID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "member id is required")
	}
	if !mode.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid view mode")
	}
	key := a.cache.ViewModeKey(memberID.String())
	if err := a.cache.Set(ctx, key, string(mode), viewModeTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving view mode")
	}
	return nil
}

// ViewMode returns the stored layout preference, defaulting to grid.
func (a *Activity) ViewMode(ctx context.Context, memberID uuid.UUID) (enums.ViewMode, error) {
	if memberID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "member id is required")
	}
	key := a.cache.ViewModeKey(memberID.String())
	raw, err := a.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return enums.ViewModeGrid, nil
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading view mode")
	}
	mode, err := enums.ParseViewMode(raw)
	if err != nil {
		return enums.ViewModeGrid, nil
	}
	return mode, nil
}
