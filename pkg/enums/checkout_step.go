package enums

import "fmt"

// CheckoutStep identifies the wizard position of a checkout session.
type CheckoutStep int

const (
	StepSelectPlan          CheckoutStep = 1
	StepPayment             CheckoutStep = 2
	StepInvoiceConfirmation CheckoutStep = 3
	StepSuccess             CheckoutStep = 4
)

// MaxCheckoutStep is the terminal wizard step.
const MaxCheckoutStep = StepSuccess

// IsValid reports whether the step is inside the wizard range.
func (s CheckoutStep) IsValid() bool {
	return s >= StepSelectPlan && s <= StepSuccess
}

// Next returns the following step, clamped at the terminal step.
func (s CheckoutStep) Next() CheckoutStep {
	if s >= MaxCheckoutStep {
		return MaxCheckoutStep
	}
	return s + 1
}

// ParseCheckoutStep converts a raw integer into a CheckoutStep.
func ParseCheckoutStep(value int) (CheckoutStep, error) {
	step := CheckoutStep(value)
	if !step.IsValid() {
		return 0, fmt.Errorf("invalid checkout step %d", value)
	}
	return step, nil
}
