package vitalfit

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/vitalfit/vitalfit-backend/pkg/enums"
)

// GetMemberships lists the membership plans, localized and carrying display
// prices for the requested currency.
func (c *Client) GetMemberships(ctx context.Context, locale string, currency enums.Currency) ([]Membership, error) {
	query := url.Values{}
	query.Set("locale", c.normalizeLocale(locale))
	query.Set("currency", string(currency))

	var out []Membership
	if err := c.get(ctx, "get_memberships", "/v1/memberships", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPackages lists the session packages available for purchase.
func (c *Client) GetPackages(ctx context.Context, currency enums.Currency) ([]Package, error) {
	query := url.Values{}
	query.Set("currency", string(currency))

	var out []Package
	if err := c.get(ctx, "get_packages", "/v1/packages", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetServices returns one page of a branch's bookable services.
func (c *Client) GetServices(ctx context.Context, branchID uuid.UUID, currency enums.Currency, page, pageLen int) (*ServicePage, error) {
	query := url.Values{}
	query.Set("branch_id", branchID.String())
	query.Set("currency", string(currency))
	query.Set("page", strconv.Itoa(page))
	query.Set("page_len", strconv.Itoa(pageLen))

	var out ServicePage
	if err := c.get(ctx, "get_services", "/v1/services", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetServiceByID fetches a single service with current pricing.
func (c *Client) GetServiceByID(ctx context.Context, serviceID uuid.UUID, currency enums.Currency) (*Service, error) {
	query := url.Values{}
	query.Set("currency", string(currency))

	var out Service
	path := fmt.Sprintf("/v1/services/%s", serviceID)
	if err := c.get(ctx, "get_service", path, query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBranches lists the gym locations.
func (c *Client) GetBranches(ctx context.Context) ([]Branch, error) {
	var out []Branch
	if err := c.get(ctx, "get_branches", "/v1/branches", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBranchPaymentMethods lists the payment methods a branch accepts.
func (c *Client) GetBranchPaymentMethods(ctx context.Context, branchID uuid.UUID) ([]PaymentMethod, error) {
	path := fmt.Sprintf("/v1/branches/%s/payment-methods", branchID)

	var out []PaymentMethod
	if err := c.get(ctx, "get_branch_payment_methods", path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTaxRate returns the branch's tax rate as a fraction, e.g. 0.16.
func (c *Client) GetTaxRate(ctx context.Context, branchID uuid.UUID) (*TaxRate, error) {
	path := fmt.Sprintf("/v1/branches/%s/tax-rate", branchID)

	var out TaxRate
	if err := c.get(ctx, "get_tax_rate", path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) normalizeLocale(locale string) string {
	trimmed := strings.TrimSpace(locale)
	if trimmed != "" {
		return trimmed
	}
	if c.defaultLocale != "" {
		return c.defaultLocale
	}
	return "es"
}
