package enums

import "testing"

func TestParseCurrencyAcceptsSupportedCodes(t *testing.T) {
	for _, code := range []string{"USD", "VES", "EUR", "COP"} {
		currency, err := ParseCurrency(code)
		if err != nil {
			t.Fatalf("expected %s to parse: %v", code, err)
		}
		if !currency.IsValid() {
			t.Fatalf("expected %s to be valid", code)
		}
	}
}

func TestParseCurrencyRejectsUnknownCode(t *testing.T) {
	if _, err := ParseCurrency("BTC"); err == nil {
		t.Fatal("expected unknown currency to fail")
	}
}

func TestCurrencySymbolFallbacks(t *testing.T) {
	if got := CurrencyUSD.Symbol(); got != "$" {
		t.Fatalf("expected $ for USD, got %q", got)
	}
	if got := CurrencyVES.Symbol(); got != "Bs." {
		t.Fatalf("expected Bs. for VES, got %q", got)
	}
	if got := Currency("GBP").Symbol(); got != "GBP" {
		t.Fatalf("expected code fallback, got %q", got)
	}
	if got := Currency("").Symbol(); got != "$" {
		t.Fatalf("expected $ fallback for empty currency, got %q", got)
	}
}

func TestCheckoutStepNextClampsAtSuccess(t *testing.T) {
	if got := StepSelectPlan.Next(); got != StepPayment {
		t.Fatalf("expected step 2, got %d", got)
	}
	if got := StepSuccess.Next(); got != StepSuccess {
		t.Fatalf("expected terminal step to clamp, got %d", got)
	}
}
