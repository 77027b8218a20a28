package wishlist

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitalfit/vitalfit-backend/pkg/enums"
)

// ItemDTO is one saved service with the price snapshot taken when it was
// added.
type ItemDTO struct {
	ServiceID     uuid.UUID       `json:"service_id"`
	BranchID      uuid.UUID       `json:"branch_id"`
	Name          string          `json:"name"`
	PriceUSD      decimal.Decimal `json:"price_usd"`
	RefPrice      decimal.Decimal `json:"ref_price"`
	RefCurrency   enums.Currency  `json:"ref_currency"`
	FeaturedImage *string         `json:"featured_image,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ListPagination carries the cursor metadata for wishlist pages.
type ListPagination struct {
	Total   int    `json:"total"`
	Current string `json:"current"`
	First   string `json:"first"`
	Last    string `json:"last"`
	Prev    string `json:"prev"`
	Next    string `json:"next"`
}

// PageDTO is a cursor-paginated wishlist view.
type PageDTO struct {
	Items      []ItemDTO      `json:"items"`
	Pagination ListPagination `json:"pagination"`
}

// IDsDTO is a lightweight projection containing only service ids.
type IDsDTO struct {
	ServiceIDs []uuid.UUID    `json:"service_ids"`
	Pagination ListPagination `json:"pagination"`
}
