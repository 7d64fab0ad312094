package models

import (
	"time"

	"github.com/google/uuid"
)

// UserCard records one card instance a user acquired from a draw. Once a
// shipping request claims the row, IsShipped is true and ShippingRequestID
// is set until the request is deleted.
type UserCard struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	CardID            uuid.UUID  `gorm:"column:card_id;type:uuid;not null;index"`
	Card              *Card      `gorm:"foreignKey:CardID"`
	IsShipped         bool       `gorm:"column:is_shipped;not null;default:false"`
	ShippingRequestID *uuid.UUID `gorm:"column:shipping_request_id;type:uuid;index"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
}
