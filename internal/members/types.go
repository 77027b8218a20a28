package members

import (
	"time"

	"github.com/google/uuid"

	"github.com/vitalfit/vitalfit-backend/pkg/db/models"
)

// ProfileDTO is the dashboard profile view.
type ProfileDTO struct {
	MemberID   uuid.UUID  `json:"member_id"`
	Email      string     `json:"email"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Phone      *string    `json:"phone,omitempty"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	AvatarURL  *string    `json:"avatar_url,omitempty"`
	HomeBranch *uuid.UUID `json:"home_branch,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ProfileParams carries a profile create/update submission.
type ProfileParams struct {
	Email      string     `json:"email" validate:"required,email"`
	FirstName  string     `json:"first_name" validate:"required,min=1,max=120"`
	LastName   string     `json:"last_name" validate:"required,min=1,max=120"`
	Phone      *string    `json:"phone,omitempty" validate:"omitempty,max=32"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	AvatarURL  *string    `json:"avatar_url,omitempty" validate:"omitempty,url"`
	HomeBranch *uuid.UUID `json:"home_branch,omitempty"`
}

// MedicalDTO is the self-reported medical questionnaire view.
type MedicalDTO struct {
	MemberID           uuid.UUID `json:"member_id"`
	BloodType          *string   `json:"blood_type,omitempty"`
	Allergies          *string   `json:"allergies,omitempty"`
	Conditions         *string   `json:"conditions,omitempty"`
	Medications        *string   `json:"medications,omitempty"`
	EmergencyContact   *string   `json:"emergency_contact,omitempty"`
	EmergencyPhone     *string   `json:"emergency_phone,omitempty"`
	PhysicianClearance bool      `json:"physician_clearance"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// MedicalParams carries a medical questionnaire submission.
type MedicalParams struct {
	BloodType          *string `json:"blood_type,omitempty" validate:"omitempty,max=8"`
	Allergies          *string `json:"allergies,omitempty"`
	Conditions         *string `json:"conditions,omitempty"`
	Medications        *string `json:"medications,omitempty"`
	EmergencyContact   *string `json:"emergency_contact,omitempty" validate:"omitempty,max=160"`
	EmergencyPhone     *string `json:"emergency_phone,omitempty" validate:"omitempty,max=32"`
	PhysicianClearance bool    `json:"physician_clearance"`
}

func toProfileDTO(record models.MemberProfile) ProfileDTO {
	return ProfileDTO{
		MemberID:   record.MemberID,
		Email:      record.Email,
		FirstName:  record.FirstName,
		LastName:   record.LastName,
		Phone:      record.Phone,
		BirthDate:  record.BirthDate,
		AvatarURL:  record.AvatarURL,
		HomeBranch: record.HomeBranch,
		UpdatedAt:  record.UpdatedAt,
	}
}

func toMedicalDTO(record models.MedicalRecord) MedicalDTO {
	return MedicalDTO{
		MemberID:           record.MemberID,
		BloodType:          record.BloodType,
		Allergies:          record.Allergies,
		Conditions:         record.Conditions,
		Medications:        record.Medications,
		EmergencyContact:   record.EmergencyContact,
		EmergencyPhone:     record.EmergencyPhone,
		PhysicianClearance: record.PhysicianClearance,
		UpdatedAt:          record.UpdatedAt,
	}
}
