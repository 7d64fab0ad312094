package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/sakurapacks/oripa-backend/pkg/db/models"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Points       int       `json:"points"`
	IsAdmin      bool      `json:"is_admin"`
	AddressLine1 *string   `json:"address_line1,omitempty"`
	AddressLine2 *string   `json:"address_line2,omitempty"`
	City         *string   `json:"city,omitempty"`
	State        *string   `json:"state,omitempty"`
	ZipCode      *string   `json:"zip_code,omitempty"`
	Country      *string   `json:"country,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name         string
	Email        string
	PasswordHash string
	IsAdmin      bool
}

// UpdateProfileDTO carries the mutable profile fields. Nil pointers leave
// the stored value untouched.
type UpdateProfileDTO struct {
	Name         *string
	AddressLine1 *string
	AddressLine2 *string
	City         *string
	State        *string
	ZipCode      *string
	Country      *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Points:       u.Points,
		IsAdmin:      u.IsAdmin,
		AddressLine1: u.AddressLine1,
		AddressLine2: u.AddressLine2,
		City:         u.City,
		State:        u.State,
		ZipCode:      u.ZipCode,
		Country:      u.Country,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Name:         c.Name,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		IsAdmin:      c.IsAdmin,
	}
}

func (u UpdateProfileDTO) changes() map[string]any {
	changes := map[string]any{}
	if u.Name != nil {
		changes["name"] = *u.Name
	}
	if u.AddressLine1 != nil {
		changes["address_line1"] = *u.AddressLine1
	}
	if u.AddressLine2 != nil {
		changes["address_line2"] = *u.AddressLine2
	}
	if u.City != nil {
		changes["city"] = *u.City
	}
	if u.State != nil {
		changes["state"] = *u.State
	}
	if u.ZipCode != nil {
		changes["zip_code"] = *u.ZipCode
	}
	if u.Country != nil {
		changes["country"] = *u.Country
	}
	return changes
}
