package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitalfit/vitalfit-backend/pkg/enums"
	"github.com/vitalfit/vitalfit-backend/pkg/vitalfit"
)

// HistoryEntry is one invoice summarized for the payment history list.
type HistoryEntry struct {
	InvoiceID    uuid.UUID           `json:"invoice_id"`
	Status       enums.InvoiceStatus `json:"status"`
	TotalUSD     decimal.Decimal     `json:"total_usd"`
	PaidUSD      decimal.Decimal     `json:"paid_usd"`
	BalanceUSD   decimal.Decimal     `json:"balance_usd"`
	ItemCount    int                 `json:"item_count"`
	PaymentCount int                 `json:"payment_count"`
	CreatedAt    time.Time           `json:"created_at"`
}

// HistoryPage is one page of the member's payment history.
type HistoryPage struct {
	Entries    []HistoryEntry `json:"entries"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
}

// InvoiceDetail is a single invoice with its line items and payments.
type InvoiceDetail struct {
	Entry    HistoryEntry           `json:"entry"`
	Items    []vitalfit.InvoiceItem `json:"items"`
	Payments []vitalfit.Payment     `json:"payments"`
}
