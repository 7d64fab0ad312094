package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents the canonical identity entity. Points are the only
// spendable balance; there is no separate wallet table.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	Email        string    `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Points       int       `gorm:"column:points;not null;default:0"`
	IsAdmin      bool      `gorm:"column:is_admin;not null;default:false"`
	AddressLine1 *string   `gorm:"column:address_line1"`
	AddressLine2 *string   `gorm:"column:address_line2"`
	City         *string   `gorm:"column:city"`
	State        *string   `gorm:"column:state"`
	ZipCode      *string   `gorm:"column:zip_code"`
	Country      *string   `gorm:"column:country"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// HasCompleteAddress reports whether the profile carries every field a
// shipping request snapshot needs. Line2 and state stay optional.
func (u User) HasCompleteAddress() bool {
	for _, field := range []*string{u.AddressLine1, u.City, u.ZipCode, u.Country} {
		if field == nil || *field == "" {
			return false
		}
	}
	return true
}
