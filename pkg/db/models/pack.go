package models

import (
	"time"

	"github.com/google/uuid"
)

// Pack is a purchasable gacha pack (oripa). Its draw pool is the set of
// PackCard rows; a card listed twice is twice as likely to be drawn.
type Pack struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string     `gorm:"column:name;not null"`
	Description string     `gorm:"column:description;not null"`
	Price       int        `gorm:"column:price;not null"`
	Cards       []PackCard `gorm:"foreignKey:PackID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
