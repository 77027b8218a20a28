package models

import (
	"time"

	"github.com/google/uuid"
)

// MemberProfile caches the dashboard profile for a member. Identity itself is
// owned by the external auth provider; this row only stores what the member
// edits locally.
type MemberProfile struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MemberID   uuid.UUID  `gorm:"column:member_id;type:uuid;not null;uniqueIndex"`
	Email      string     `gorm:"column:email;type:text;not null"`
	FirstName  string     `gorm:"column:first_name;not null"`
	LastName   string     `gorm:"column:last_name;not null"`
	Phone      *string    `gorm:"column:phone"`
	BirthDate  *time.Time `gorm:"column:birth_date"`
	AvatarURL  *string    `gorm:"column:avatar_url"`
	HomeBranch *uuid.UUID `gorm:"column:home_branch;type:uuid"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
