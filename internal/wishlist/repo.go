package wishlist

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vitalfit/vitalfit-backend/pkg/db/models"
	"github.com/vitalfit/vitalfit-backend/pkg/pagination"
)

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddItem inserts a wishlist entry with its price snapshot and ignores
// duplicates.
func (r *Repository) AddItem(ctx context.Context, item models.WishlistItem) error {
	if item.MemberID == uuid.Nil || item.ServiceID == uuid.Nil {
		return gorm.ErrInvalidValue
	}

	return r.db.WithContext(ctx).
		Exec(`INSERT INTO wishlist_items (member_id, service_id, branch_id, name, price_usd, ref_price, ref_currency, featured_image)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (member_id, service_id) DO NOTHING`,
			item.MemberID, item.ServiceID, item.BranchID, item.Name,
			item.PriceUSD, item.RefPrice, item.RefCurrency, item.FeaturedImage).
		Error
}

// ListSnapshotsBefore returns wishlist rows whose price snapshot was taken
// before the cutoff, oldest first.
func (r *Repository) ListSnapshotsBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Order("created_at ASC").
		Limit(pagination.NormalizeLimit(limit)).
		Find(&items).
		Error
	return items, err
}

// UpdateSnapshot rewrites the stored display prices for a wishlist row.
func (r *Repository) UpdateSnapshot(ctx context.Context, id uuid.UUID, priceUSD, refPrice decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"price_usd": priceUSD,
			"ref_price": refPrice,
		}).
		Error
}

// RemoveItem deletes the member's saved service if it exists.
func (r *Repository) RemoveItem(ctx context.Context, memberID, serviceID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("member_id = ? AND service_id = ?", memberID, serviceID).
		Delete(&models.WishlistItem{}).
		Error
}

// ListItems returns a cursor-paginated page of the member's saved services,
// newest first.
func (r *Repository) ListItems(ctx context.Context, memberID uuid.UUID, cursor string, limit int) (PageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	cursorValue := strings.TrimSpace(cursor)
	decodedCursor, err := pagination.ParseCursor(cursorValue)
	if err != nil {
		return PageDTO{}, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("member_id = ?", memberID)

	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer)

	var records []models.WishlistItem
	if err := query.Find(&records).Error; err != nil {
		return PageDTO{}, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > normalizedLimit {
		resultRows = records[:normalizedLimit]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	items := make([]ItemDTO, 0, len(resultRows))
	for _, record := range resultRows {
		items = append(items, toItemDTO(record))
	}

	meta, err := r.paginationMeta(ctx, memberID, cursorValue, nextCursor)
	if err != nil {
		return PageDTO{}, err
	}

	return PageDTO{Items: items, Pagination: meta}, nil
}

// ListItemIDs returns only the service ids the member has saved.
func (r *Repository) ListItemIDs(ctx context.Context, memberID uuid.UUID, cursor string, limit int) (IDsDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	cursorValue := strings.TrimSpace(cursor)
	decodedCursor, err := pagination.ParseCursor(cursorValue)
	if err != nil {
		return IDsDTO{}, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Select("id", "created_at", "service_id").
		Where("member_id = ?", memberID)

	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer)

	type idRecord struct {
		ID        uuid.UUID
		CreatedAt time.Time
		ServiceID uuid.UUID
	}

	var records []idRecord
	if err := query.Scan(&records).Error; err != nil {
		return IDsDTO{}, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > normalizedLimit {
		resultRows = records[:normalizedLimit]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	ids := make([]uuid.UUID, 0, len(resultRows))
	for _, record := range resultRows {
		ids = append(ids, record.ServiceID)
	}

	meta, err := r.paginationMeta(ctx, memberID, cursorValue, nextCursor)
	if err != nil {
		return IDsDTO{}, err
	}

	return IDsDTO{ServiceIDs: ids, Pagination: meta}, nil
}

func (r *Repository) paginationMeta(ctx context.Context, memberID uuid.UUID, current, next string) (ListPagination, error) {
	total, err := r.countItems(ctx, memberID)
	if err != nil {
		return ListPagination{}, err
	}
	first, err := r.boundaryCursor(ctx, memberID, true)
	if err != nil {
		return ListPagination{}, err
	}
	last, err := r.boundaryCursor(ctx, memberID, false)
	if err != nil {
		return ListPagination{}, err
	}

	prev := ""
	if current != "" {
		prev = current
	}

	return ListPagination{
		Total:   int(total),
		Current: current,
		First:   first,
		Last:    last,
		Prev:    prev,
		Next:    next,
	}, nil
}

func (r *Repository) countItems(ctx context.Context, memberID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("member_id = ?", memberID).
		Count(&count).
		Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) boundaryCursor(ctx context.Context, memberID uuid.UUID, ascending bool) (string, error) {
	order := "created_at DESC, id DESC"
	if ascending {
		order = "created_at ASC, id ASC"
	}

	var row struct {
		CreatedAt time.Time
		ID        uuid.UUID
	}

	query := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Select("created_at", "id").
		Where("member_id = ?", memberID).
		Order(order).
		Limit(1)

	if err := query.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}

	return pagination.EncodeCursor(pagination.Cursor{
		CreatedAt: row.CreatedAt,
		ID:        row.ID,
	}), nil
}

func toItemDTO(record models.WishlistItem) ItemDTO {
	return ItemDTO{
		ServiceID:     record.ServiceID,
		BranchID:      record.BranchID,
		Name:          record.Name,
		PriceUSD:      record.PriceUSD,
		RefPrice:      record.RefPrice,
		RefCurrency:   record.RefCurrency,
		FeaturedImage: record.FeaturedImage,
		CreatedAt:     record.CreatedAt,
	}
}
