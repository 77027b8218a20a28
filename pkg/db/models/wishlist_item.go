package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitalfit/vitalfit-backend/pkg/enums"
)

// WishlistItem links a member to a saved catalog service. The service itself
// lives in the core catalog, so the row carries a display snapshot taken at
// save time.
type WishlistItem struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MemberID       uuid.UUID       `gorm:"column:member_id;type:uuid;not null;index:wishlist_items_member_id_idx;uniqueIndex:wishlist_items_member_service_key"`
	ServiceID      uuid.UUID       `gorm:"column:service_id;type:uuid;not null;uniqueIndex:wishlist_items_member_service_key"`
	BranchID       uuid.UUID       `gorm:"column:branch_id;type:uuid;not null"`
	Name           string          `gorm:"column:name;type:text;not null"`
	PriceUSD       decimal.Decimal `gorm:"column:price_usd;type:numeric(12,2);not null"`
	RefPrice       decimal.Decimal `gorm:"column:ref_price;type:numeric(14,2);not null"`
	RefCurrency    enums.Currency  `gorm:"column:ref_currency;type:text;not null"`
	FeaturedImage  *string         `gorm:"column:featured_image"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}
