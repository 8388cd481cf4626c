package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/enums"
)

// User is an account holder. Accounts for minors carry a recorded parental
// consent instead of being rejected outright.
type User struct {
	ID               uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Email            string         `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash     string         `gorm:"column:password_hash;not null"`
	FullName         string         `gorm:"column:full_name;not null"`
	DateOfBirth      time.Time      `gorm:"column:date_of_birth;not null"`
	Role             enums.UserRole `gorm:"column:role;not null;default:'customer'"`
	GuardianName     *string        `gorm:"column:guardian_name"`
	GuardianEmail    *string        `gorm:"column:guardian_email"`
	ConsentGrantedAt *time.Time     `gorm:"column:consent_granted_at"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
