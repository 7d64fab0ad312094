package models

import (
	"time"

	"github.com/google/uuid"
)

// PackCard links one pack to one card. Duplicate rows are intentional:
// multiplicity is the draw weight.
type PackCard struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PackID    uuid.UUID `gorm:"column:pack_id;type:uuid;not null;index"`
	CardID    uuid.UUID `gorm:"column:card_id;type:uuid;not null;index"`
	Card      *Card     `gorm:"foreignKey:CardID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
