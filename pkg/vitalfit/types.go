package vitalfit

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitalfit/vitalfit-backend/pkg/enums"
)

// RefPrice is a pre-converted display price published by the core API for
// one reference currency. Base prices are always USD.
type RefPrice struct {
	Currency enums.Currency  `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

type Membership struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	PriceUSD     decimal.Decimal `json:"price_usd"`
	RefPrices    []RefPrice      `json:"ref_prices"`
	DurationDays int             `json:"duration_days"`
	Popular      bool            `json:"popular"`
}

type Package struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	PriceUSD     decimal.Decimal `json:"price_usd"`
	RefPrices    []RefPrice      `json:"ref_prices"`
	SessionCount int             `json:"session_count"`
}

type Service struct {
	ID             uuid.UUID        `json:"id"`
	BranchID       uuid.UUID        `json:"branch_id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	PriceUSD       decimal.Decimal  `json:"price_usd"`
	MemberPriceUSD *decimal.Decimal `json:"member_price_usd,omitempty"`
	RefPrices      []RefPrice       `json:"ref_prices"`
	FeaturedImage  *string          `json:"featured_image,omitempty"`
}

type Branch struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	City     string    `json:"city"`
	Address  string    `json:"address"`
	Timezone string    `json:"timezone"`
}

type PaymentMethod struct {
	ID           uuid.UUID               `json:"id"`
	BranchID     uuid.UUID               `json:"branch_id"`
	Kind         enums.PaymentMethodKind `json:"kind"`
	DisplayName  string                  `json:"display_name"`
	Instructions string                  `json:"instructions"`
	AccountInfo  string                  `json:"account_info"`
}

type TaxRate struct {
	BranchID uuid.UUID       `json:"branch_id"`
	Rate     decimal.Decimal `json:"rate"`
}

type InvoiceItem struct {
	ItemID    uuid.UUID       `json:"item_id"`
	Kind      string          `json:"kind"`
	Name      string          `json:"name"`
	AmountUSD decimal.Decimal `json:"amount_usd"`
}

type Payment struct {
	ID         uuid.UUID       `json:"id"`
	InvoiceID  uuid.UUID       `json:"invoice_id"`
	MethodID   uuid.UUID       `json:"method_id"`
	AmountUSD  decimal.Decimal `json:"amount_usd"`
	Reference  string          `json:"reference"`
	ReceiptURL *string         `json:"receipt_url,omitempty"`
	RecordedAt time.Time       `json:"recorded_at"`
}

type Invoice struct {
	ID        uuid.UUID           `json:"id"`
	MemberID  uuid.UUID           `json:"member_id"`
	BranchID  uuid.UUID           `json:"branch_id"`
	Status    enums.InvoiceStatus `json:"status"`
	Items     []InvoiceItem       `json:"items"`
	Payments  []Payment           `json:"payments"`
	TotalUSD  decimal.Decimal     `json:"total_usd"`
	TaxRate   decimal.Decimal     `json:"tax_rate"`
	CreatedAt time.Time           `json:"created_at"`
}

type CheckoutSession struct {
	ID          string    `json:"id"`
	InvoiceID   uuid.UUID `json:"invoice_id"`
	RedirectURL string    `json:"redirect_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// InvoiceCreateParams carries everything the core API needs to open an invoice.
type InvoiceCreateParams struct {
	MemberID     uuid.UUID   `json:"member_id"`
	BranchID     uuid.UUID   `json:"branch_id"`
	MembershipID *uuid.UUID  `json:"membership_id,omitempty"`
	PackageIDs   []uuid.UUID `json:"package_ids,omitempty"`
	ServiceIDs   []uuid.UUID `json:"service_ids,omitempty"`
}

type PaymentParams struct {
	MethodID   uuid.UUID       `json:"method_id"`
	AmountUSD  decimal.Decimal `json:"amount_usd"`
	Reference  string          `json:"reference"`
	ReceiptURL *string         `json:"receipt_url,omitempty"`
}

type CheckoutSessionParams struct {
	InvoiceID uuid.UUID `json:"invoice_id"`
	MethodID  uuid.UUID `json:"method_id"`
	ReturnURL string    `json:"return_url"`
}

// ServicePage is one page of a branch's service catalog.
type ServicePage struct {
	Items      []Service `json:"items"`
	Page       int       `json:"page"`
	TotalPages int       `json:"total_pages"`
}

type InvoicePage struct {
	Items      []Invoice `json:"items"`
	Page       int       `json:"page"`
	TotalPages int       `json:"total_pages"`
}
