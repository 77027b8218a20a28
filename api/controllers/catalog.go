package controllers

import (
	"net/http"
	"strings"

	"github.com/vitalfit/vitalfit-backend/api/responses"
	"github.com/vitalfit/vitalfit-backend/api/validators"
	catalogsvc "github.com/vitalfit/vitalfit-backend/internal/catalog"
	"github.com/vitalfit/vitalfit-backend/pkg/logger"
)

// CatalogMemberships lists the membership plans in the requested locale and
// currency.
func CatalogMemberships(svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		currency, err := validators.QueryCurrency(r, "currency")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		locale := strings.TrimSpace(r.URL.Query().Get("locale"))

		memberships, err := svc.Memberships(ctx, locale, currency)
		if err != nil && memberships == nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, memberships)
	}
}

// CatalogPackages lists the session packs.
func CatalogPackages(svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		currency, err := validators.QueryCurrency(r, "currency")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		packages, err := svc.Packages(ctx, currency)
		if err != nil && packages == nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, packages)
	}
}

// CatalogBranches lists the gym locations.
func CatalogBranches(svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		branches, err := svc.Branches(ctx)
		if err != nil && branches == nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, branches)
	}
}

type servicesResponse struct {
	Items      any  `json:"items"`
	Page       int  `json:"page"`
	TotalPages int  `json:"total_pages"`
	HasMore    bool `json:"has_more"`
}

// CatalogServices returns a branch's extra services. The first call (or a
// branch/currency change) returns page one; `load=more` appends the next
// page, mirroring the storefront's incremental listing.
func CatalogServices(svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		branchID, err := validators.QueryUUID(r, "branch_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		currency, err := validators.QueryCurrency(r, "currency")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var result catalogsvc.ServicesResult
		if strings.EqualFold(r.URL.Query().Get("load"), "more") {
			result, err = svc.MoreServices(ctx, branchID, currency)
		} else {
			result, err = svc.Services(ctx, branchID, currency)
		}
		if err != nil && len(result.Items) == 0 {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, servicesResponse{
			Items:      result.Items,
			Page:       result.Page,
			TotalPages: result.TotalPages,
			HasMore:    result.HasMore(),
		})
	}
}

// CatalogPaymentMethods lists a branch's accepted payment methods.
func CatalogPaymentMethods(svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		branchID, err := validators.QueryUUID(r, "branch_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		methods, err := svc.PaymentMethods(ctx, branchID)
		if err != nil && methods == nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, methods)
	}
}
