package members

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vitalfit/vitalfit-backend/pkg/db/models"
)

// Repository encapsulates profile and medical record persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindProfile returns the member's profile row.
func (r *Repository) FindProfile(ctx context.Context, memberID uuid.UUID) (models.MemberProfile, error) {
	var record models.MemberProfile
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		First(&record).
		Error
	return record, err
}

// UpsertProfile inserts the profile or updates the editable columns when the
// member already has one.
func (r *Repository) UpsertProfile(ctx context.Context, record models.MemberProfile) (models.MemberProfile, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "member_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"email", "first_name", "last_name", "phone",
				"birth_date", "avatar_url", "home_branch", "updated_at",
			}),
		}).
		Create(&record).
		Error
	if err != nil {
		return models.MemberProfile{}, err
	}
	return r.FindProfile(ctx, record.MemberID)
}

// FindMedicalRecord returns the member's questionnaire row.
func (r *Repository) FindMedicalRecord(ctx context.Context, memberID uuid.UUID) (models.MedicalRecord, error) {
	var record models.MedicalRecord
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		First(&record).
		Error
	return record, err
}

// UpsertMedicalRecord inserts or replaces the member's questionnaire.
func (r *Repository) UpsertMedicalRecord(ctx context.Context, record models.MedicalRecord) (models.MedicalRecord, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "member_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"blood_type", "allergies", "conditions", "medications",
				"emergency_contact", "emergency_phone", "physician_clearance", "updated_at",
			}),
		}).
		Create(&record).
		Error
	if err != nil {
		return models.MedicalRecord{}, err
	}
	return r.FindMedicalRecord(ctx, record.MemberID)
}
