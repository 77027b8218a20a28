package controllers

import (
	"net/http"

	"github.com/vitalfit/vitalfit-backend/api/responses"
	receiptsvc "github.com/vitalfit/vitalfit-backend/internal/receipts"
	pkgerrors "github.com/vitalfit/vitalfit-backend/pkg/errors"
	"github.com/vitalfit/vitalfit-backend/pkg/logger"
)

const receiptFormField = "receipt"

// ReceiptUpload accepts a multipart transfer receipt and returns its public
// URL for the payment submission.
func ReceiptUpload(svc *receiptsvc.Service, maxSizeBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		memberID, err := requireMember(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxSizeBytes)
		if err := r.ParseMultipartForm(maxSizeBytes); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "receipt upload too large or malformed"))
			return
		}

		file, header, err := r.FormFile(receiptFormField)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "receipt file is required"))
			return
		}
		defer file.Close()

		url, err := svc.Upload(ctx, receiptsvc.UploadParams{
			MemberID:    memberID,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"receipt_url": url})
	}
}
