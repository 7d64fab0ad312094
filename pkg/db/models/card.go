package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sakurapacks/oripa-backend/pkg/enums"
)

// Card is a catalog entry managed by administrators.
type Card struct {
	ID          uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string       `gorm:"column:name;not null"`
	Description string       `gorm:"column:description;not null"`
	Image       string       `gorm:"column:image;not null"`
	Rarity      enums.Rarity `gorm:"column:rarity;type:text;not null"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}
