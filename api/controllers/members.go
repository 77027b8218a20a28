package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vitalfit/vitalfit-backend/api/responses"
	"github.com/vitalfit/vitalfit-backend/api/validators"
	"github.com/vitalfit/vitalfit-backend/internal/members"
	"github.com/vitalfit/vitalfit-backend/pkg/enums"
	pkgerrors "github.com/vitalfit/vitalfit-backend/pkg/errors"
	"github.com/vitalfit/vitalfit-backend/pkg/logger"
)

// MemberProfile returns the member's local profile.
func MemberProfile(svc members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		memberID, err := requireMember(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		profile, err := svc.GetProfile(ctx, memberID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// MemberProfileSave upserts the member's local profile.
func MemberProfileSave(svc members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		memberID, err := requireMember(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var payload members.ProfileParams
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		profile, err := svc.SaveProfile(ctx, memberID, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// MemberMedicalRecord returns the member's medical questionnaire.
func MemberMedicalRecord(svc members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		memberID, err := requireMember(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		record, err := svc.GetMedicalRecord(ctx, memberID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// MemberMedicalRecordSave upserts the member's medical questionnaire.
func MemberMedicalRecordSave(svc members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		memberID, err := requireMember(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var payload members.MedicalParams
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		record, err := svc.SaveMedicalRecord(ctx, memberID, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

type recordViewPayload struct {
	ServiceID uuid.UUID `json:"service_id" validate:"required"`
}

// MemberRecordServiceView pushes a service onto the recently-viewed list.
func MemberRecordServiceView(activity *members.Activity, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		memberID, err := requireMember(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var payload recordViewPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := activity.RecordServiceView(ctx, memberID, payload.ServiceID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "recorded"})
	}
}

// MemberRecentServices returns the recently viewed service ids, newest first.
func MemberRecentServices(activity *members.Activity, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		memberID, err := requireMember(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		ids, err := activity.RecentServices(ctx, memberID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"service_ids": ids})
	}
}

type viewModePayload struct {
	Mode string `json:"mode" validate:"required"`
}

// MemberSaveViewMode stores the grid/list layout preference.
func MemberSaveViewMode(activity *members.Activity, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		memberID, err := requireMember(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var payload viewModePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		mode, err := enums.ParseViewMode(payload.Mode)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid view mode"))
			return
		}
		if err := activity.SaveViewMode(ctx, memberID, mode); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"mode": string(mode)})
	}
}

// MemberViewMode returns the stored layout preference.
func MemberViewMode(activity *members.Activity, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		memberID, err := requireMember(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		mode, err := activity.ViewMode(ctx, memberID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"mode": string(mode)})
	}
}
