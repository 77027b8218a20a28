package models

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord stores the member's self-reported medical questionnaire used
// by branch staff before classes.
type MedicalRecord struct {
	ID                 uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MemberID           uuid.UUID `gorm:"column:member_id;type:uuid;not null;uniqueIndex"`
	BloodType          *string   `gorm:"column:blood_type"`
	Allergies          *string   `gorm:"column:allergies;type:text"`
	Conditions         *string   `gorm:"column:conditions;type:text"`
	Medications        *string   `gorm:"column:medications;type:text"`
	EmergencyContact   *string   `gorm:"column:emergency_contact"`
	EmergencyPhone     *string   `gorm:"column:emergency_phone"`
	PhysicianClearance bool      `gorm:"column:physician_clearance;not null;default:false"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
