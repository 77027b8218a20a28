package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vitalfit/vitalfit-backend/api/responses"
	"github.com/vitalfit/vitalfit-backend/api/validators"
	billingsvc "github.com/vitalfit/vitalfit-backend/internal/billing"
	pkgerrors "github.com/vitalfit/vitalfit-backend/pkg/errors"
	"github.com/vitalfit/vitalfit-backend/pkg/logger"
)

// BillingHistory returns one page of the member's invoices.
func BillingHistory(svc *billingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		memberID, err := requireMember(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		page, err := validators.QueryInt(r, "page", 1)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		history, err := svc.History(ctx, memberID, page)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}

// BillingInvoiceDetail returns a single invoice with its payments.
func BillingInvoiceDetail(svc *billingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		memberID, err := requireMember(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		invoiceID, err := uuid.Parse(chi.URLParam(r, "invoiceId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid invoice id"))
			return
		}

		detail, err := svc.InvoiceDetail(ctx, memberID, invoiceID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}
