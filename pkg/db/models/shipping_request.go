package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sakurapacks/oripa-backend/pkg/enums"
)

// ShippingRequest batches owned cards for physical shipment. The address is
// snapshotted at submission and never re-reads the profile.
type ShippingRequest struct {
	ID              uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	User            *User                `gorm:"foreignKey:UserID"`
	Status          enums.ShippingStatus `gorm:"column:status;type:text;not null;default:'PENDING'"`
	ShippingAddress string               `gorm:"column:shipping_address;not null"`
	RequestDate     time.Time            `gorm:"column:request_date;not null"`
	ShippedDate     *time.Time           `gorm:"column:shipped_date"`
	TrackingNumber  *string              `gorm:"column:tracking_number"`
	UserCards       []UserCard           `gorm:"foreignKey:ShippingRequestID"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
