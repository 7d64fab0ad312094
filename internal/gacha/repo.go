package gacha

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sakurapacks/oripa-backend/pkg/db/models"
)

// Repository covers the persistence the draw engine needs beyond the ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindPackWithPool(ctx context.Context, packID uuid.UUID) (*models.Pack, error)
	CreateUserCard(ctx context.Context, card *models.UserCard) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a draw repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindPackWithPool loads the pack with its full draw pool, card details
// included. Duplicate membership rows come back as-is.
func (r *repository) FindPackWithPool(ctx context.Context, packID uuid.UUID) (*models.Pack, error) {
	var pack models.Pack
	if err := r.db.WithContext(ctx).
		Preload("Cards.Card").
		First(&pack, "id = ?", packID).Error; err != nil {
		return nil, err
	}
	return &pack, nil
}

func (r *repository) CreateUserCard(ctx context.Context, card *models.UserCard) error {
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(card).Error
}
