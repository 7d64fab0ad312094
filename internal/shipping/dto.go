package shipping

import (
	"time"

	"github.com/google/uuid"

	"github.com/sakurapacks/oripa-backend/internal/catalog"
	"github.com/sakurapacks/oripa-backend/pkg/db/models"
	"github.com/sakurapacks/oripa-backend/pkg/enums"
)

// RequestCardDTO is one claimed card inside a shipping request.
type RequestCardDTO struct {
	ID   uuid.UUID        `json:"id"`
	Card *catalog.CardDTO `json:"card,omitempty"`
}

// RequestDTO is the transport shape for shipping requests.
type RequestDTO struct {
	ID              uuid.UUID            `json:"id"`
	UserID          uuid.UUID            `json:"user_id"`
	UserName        string               `json:"user_name,omitempty"`
	Status          enums.ShippingStatus `json:"status"`
	ShippingAddress string               `json:"shipping_address"`
	RequestDate     time.Time            `json:"request_date"`
	ShippedDate     *time.Time           `json:"shipped_date,omitempty"`
	TrackingNumber  *string              `json:"tracking_number,omitempty"`
	Cards           []RequestCardDTO     `json:"cards,omitempty"`
}

func FromModel(req *models.ShippingRequest) *RequestDTO {
	if req == nil {
		return nil
	}
	dto := &RequestDTO{
		ID:              req.ID,
		UserID:          req.UserID,
		Status:          req.Status,
		ShippingAddress: req.ShippingAddress,
		RequestDate:     req.RequestDate,
		ShippedDate:     req.ShippedDate,
		TrackingNumber:  req.TrackingNumber,
	}
	if req.User != nil {
		dto.UserName = req.User.Name
	}
	for _, owned := range req.UserCards {
		dto.Cards = append(dto.Cards, RequestCardDTO{
			ID:   owned.ID,
			Card: catalog.CardFromModel(owned.Card),
		})
	}
	return dto
}

func FromModels(reqs []models.ShippingRequest) []RequestDTO {
	dtos := make([]RequestDTO, 0, len(reqs))
	for i := range reqs {
		dtos = append(dtos, *FromModel(&reqs[i]))
	}
	return dtos
}
