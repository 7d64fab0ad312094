package shipping

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sakurapacks/oripa-backend/pkg/db/models"
)

// Repository manages persistence for shipping requests and the cards they
// claim.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindShippable(ctx context.Context, userID uuid.UUID, cardIDs []uuid.UUID) ([]models.UserCard, error)
	CreateRequest(ctx context.Context, request *models.ShippingRequest) error
	ClaimCards(ctx context.Context, requestID uuid.UUID, cardIDs []uuid.UUID) (int64, error)
	FindRequest(ctx context.Context, requestID uuid.UUID) (*models.ShippingRequest, error)
	UpdateRequest(ctx context.Context, request *models.ShippingRequest) error
	MarkClaimedShipped(ctx context.Context, requestID uuid.UUID) error
	ReleaseCards(ctx context.Context, requestID uuid.UUID) error
	DeleteRequest(ctx context.Context, requestID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ShippingRequest, error)
	ListAll(ctx context.Context) ([]models.ShippingRequest, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a shipping repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindShippable resolves the ids that belong to the user and are still free
// to ship: not shipped, not claimed by another request. The matched rows are
// locked for the rest of the transaction on dialects that support it; SQLite
// serializes writers on its own and rejects FOR UPDATE syntax.
func (r *repository) FindShippable(ctx context.Context, userID uuid.UUID, cardIDs []uuid.UUID) ([]models.UserCard, error) {
	query := r.db.WithContext(ctx)
	if query.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var cards []models.UserCard
	if err := query.
		Where("id IN ?", cardIDs).
		Where("user_id = ?", userID).
		Where("is_shipped = ?", false).
		Where("shipping_request_id IS NULL").
		Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *repository) CreateRequest(ctx context.Context, request *models.ShippingRequest) error {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(request).Error
}

// ClaimCards links still-free cards to the request. The eligibility predicate
// is part of the write itself, so a card claimed by a concurrent request
// between the read and this update is left untouched; callers compare the
// returned row count against the requested count.
func (r *repository) ClaimCards(ctx context.Context, requestID uuid.UUID, cardIDs []uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.UserCard{}).
		Where("id IN ?", cardIDs).
		Where("is_shipped = ?", false).
		Where("shipping_request_id IS NULL").
		Updates(map[string]any{
			"shipping_request_id": requestID,
			"is_shipped":          true,
		})
	return result.RowsAffected, result.Error
}

func (r *repository) FindRequest(ctx context.Context, requestID uuid.UUID) (*models.ShippingRequest, error) {
	var request models.ShippingRequest
	if err := r.db.WithContext(ctx).
		Preload("UserCards.Card").
		First(&request, "id = ?", requestID).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) UpdateRequest(ctx context.Context, request *models.ShippingRequest) error {
	return r.db.WithContext(ctx).
		Model(&models.ShippingRequest{}).
		Where("id = ?", request.ID).
		Updates(map[string]any{
			"status":          request.Status,
			"shipped_date":    request.ShippedDate,
			"tracking_number": request.TrackingNumber,
		}).Error
}

// MarkClaimedShipped re-asserts the shipped flag on every card the request
// claims. Safe to run repeatedly.
func (r *repository) MarkClaimedShipped(ctx context.Context, requestID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.UserCard{}).
		Where("shipping_request_id = ?", requestID).
		UpdateColumn("is_shipped", true).Error
}

// ReleaseCards hands every claimed card back to the owner's free pool.
func (r *repository) ReleaseCards(ctx context.Context, requestID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.UserCard{}).
		Where("shipping_request_id = ?", requestID).
		Updates(map[string]any{
			"shipping_request_id": nil,
			"is_shipped":          false,
		}).Error
}

func (r *repository) DeleteRequest(ctx context.Context, requestID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.ShippingRequest{}, "id = ?", requestID).Error
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ShippingRequest, error) {
	var requests []models.ShippingRequest
	if err := r.db.WithContext(ctx).
		Preload("UserCards.Card").
		Where("user_id = ?", userID).
		Order("request_date DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.ShippingRequest, error) {
	var requests []models.ShippingRequest
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("UserCards.Card").
		Order("request_date DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}
