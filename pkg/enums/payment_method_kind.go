package enums

import "fmt"

// PaymentMethodKind classifies how a branch payment method settles.
type PaymentMethodKind string

const (
	// PaymentMethodCardGateway settles through a hosted checkout session.
	PaymentMethodCardGateway PaymentMethodKind = "card_gateway"
	// PaymentMethodBankTransfer settles through a manually confirmed transfer.
	PaymentMethodBankTransfer PaymentMethodKind = "bank_transfer"
	// PaymentMethodMobilePayment settles through a referenced mobile payment.
	PaymentMethodMobilePayment PaymentMethodKind = "mobile_payment"
	// PaymentMethodCash settles in person at the branch.
	PaymentMethodCash PaymentMethodKind = "cash"
)

var validPaymentMethodKinds = []PaymentMethodKind{
	PaymentMethodCardGateway,
	PaymentMethodBankTransfer,
	PaymentMethodMobilePayment,
	PaymentMethodCash,
}

// IsValid reports whether the kind is recognized.
func (k PaymentMethodKind) IsValid() bool {
	for _, candidate := range validPaymentMethodKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// IsHosted reports whether paying with this kind redirects to an external
// checkout session instead of recording a payment locally.
func (k PaymentMethodKind) IsHosted() bool {
	return k == PaymentMethodCardGateway
}

// RequiresReference reports whether a transaction reference must accompany
// the payment submission.
func (k PaymentMethodKind) RequiresReference() bool {
	return k == PaymentMethodBankTransfer || k == PaymentMethodMobilePayment
}

// ParsePaymentMethodKind converts a raw string into a PaymentMethodKind.
func ParsePaymentMethodKind(value string) (PaymentMethodKind, error) {
	for _, candidate := range validPaymentMethodKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method kind %q", value)
}
