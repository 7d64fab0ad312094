package collection

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sakurapacks/oripa-backend/internal/catalog"
	"github.com/sakurapacks/oripa-backend/pkg/db/models"
	pkgerrors "github.com/sakurapacks/oripa-backend/pkg/errors"
	"github.com/sakurapacks/oripa-backend/pkg/pagination"
)

// OwnedCardDTO is one collection entry with its card details.
type OwnedCardDTO struct {
	ID                uuid.UUID        `json:"id"`
	Card              *catalog.CardDTO `json:"card"`
	IsShipped         bool             `json:"is_shipped"`
	ShippingRequestID *uuid.UUID       `json:"shipping_request_id,omitempty"`
	AcquiredAt        time.Time        `json:"acquired_at"`
}

// ListResult is one page of a user's collection.
type ListResult struct {
	Cards      []OwnedCardDTO `json:"cards"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// Service reads a user's card collection.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error)
}

type service struct {
	db *gorm.DB
}

// NewService constructs a collection service.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database required")
	}
	return &service{db: db}, nil
}

// List pages through the user's cards newest-first.
func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	query := s.db.WithContext(ctx).
		Preload("Card").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.UserCard
	if err := query.Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list collection")
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	out := make([]OwnedCardDTO, 0, len(rows))
	for i := range rows {
		out = append(out, OwnedCardDTO{
			ID:                rows[i].ID,
			Card:              catalog.CardFromModel(rows[i].Card),
			IsShipped:         rows[i].IsShipped,
			ShippingRequestID: rows[i].ShippingRequestID,
			AcquiredAt:        rows[i].CreatedAt,
		})
	}
	return &ListResult{Cards: out, NextCursor: next}, nil
}
