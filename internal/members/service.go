package members

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitalfit/vitalfit-backend/pkg/db/models"
	pkgerrors "github.com/vitalfit/vitalfit-backend/pkg/errors"
)

// repository is the persistence surface the service depends on.
type repository interface {
	FindProfile(ctx context.Context, memberID uuid.UUID) (models.MemberProfile, error)
	UpsertProfile(ctx context.Context, record models.MemberProfile) (models.MemberProfile, error)
	FindMedicalRecord(ctx context.Context, memberID uuid.UUID) (models.MedicalRecord, error)
	UpsertMedicalRecord(ctx context.Context, record models.MedicalRecord) (models.MedicalRecord, error)
}

// ServiceParams groups dependencies for the member dashboard service.
type ServiceParams struct {
	Repo repository
}

// Service exposes the member's local profile and medical questionnaire.
type Service interface {
	GetProfile(ctx context.Context, memberID uuid.UUID) (ProfileDTO, error)
	SaveProfile(ctx context.Context, memberID uuid.UUID, params ProfileParams) (ProfileDTO, error)
	GetMedicalRecord(ctx context.Context, memberID uuid.UUID) (MedicalDTO, error)
	SaveMedicalRecord(ctx context.Context, memberID uuid.UUID, params MedicalParams) (MedicalDTO, error)
}

type service struct {
	repo repository
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "members repo is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) GetProfile(ctx context.Context, memberID uuid.UUID) (ProfileDTO, error) {
	if memberID == uuid.Nil {
		return ProfileDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "member id is required")
	}
	record, err := s.repo.FindProfile(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "profile not found")
		}
		return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return toProfileDTO(record), nil
}

func (s *service) SaveProfile(ctx context.Context, memberID uuid.UUID, params ProfileParams) (ProfileDTO, error) {
	if memberID == uuid.Nil {
		return ProfileDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "member id is required")
	}
	record, err := s.repo.UpsertProfile(ctx, models.MemberProfile{
		MemberID:   memberID,
		Email:      params.Email,
		FirstName:  params.FirstName,
		LastName:   params.LastName,
		Phone:      params.Phone,
		BirthDate:  params.BirthDate,
		AvatarURL:  params.AvatarURL,
		HomeBranch: params.HomeBranch,
	})
	if err != nil {
		return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save profile")
	}
	return toProfileDTO(record), nil
}

func (s *service) GetMedicalRecord(ctx context.Context, memberID uuid.UUID) (MedicalDTO, error) {
	if memberID == uuid.Nil {
		return MedicalDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "member id is required")
	}
	record, err := s.repo.FindMedicalRecord(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MedicalDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "medical record not found")
		}
		return MedicalDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load medical record")
	}
	return toMedicalDTO(record), nil
}

func (s *service) SaveMedicalRecord(ctx context.Context, memberID uuid.UUID, params MedicalParams) (MedicalDTO, error) {
	if memberID == uuid.Nil {
		return MedicalDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "member id is required")
	}
	record, err := s.repo.UpsertMedicalRecord(ctx, models.MedicalRecord{
		MemberID:           memberID,
		BloodType:          params.BloodType,
		Allergies:          params.Allergies,
		Conditions:         params.Conditions,
		Medications:        params.Medications,
		EmergencyContact:   params.EmergencyContact,
		EmergencyPhone:     params.EmergencyPhone,
		PhysicianClearance: params.PhysicianClearance,
	})
	if err != nil {
		return MedicalDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save medical record")
	}
	return toMedicalDTO(record), nil
}
