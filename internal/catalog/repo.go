package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sakurapacks/oripa-backend/pkg/db/models"
)

// Repository manages persistence for the card and pack catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repo bound to the supplied transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) CreateCard(ctx context.Context, card *models.Card) error {
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *Repository) FindCard(ctx context.Context, cardID uuid.UUID) (*models.Card, error) {
	var card models.Card
	if err := r.db.WithContext(ctx).First(&card, "id = ?", cardID).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *Repository) ListCards(ctx context.Context) ([]models.Card, error) {
	var cards []models.Card
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *Repository) UpdateCard(ctx context.Context, card *models.Card) error {
	return r.db.WithContext(ctx).
		Model(&models.Card{}).
		Where("id = ?", card.ID).
		Updates(map[string]any{
			"name":        card.Name,
			"description": card.Description,
			"image":       card.Image,
			"rarity":      card.Rarity,
		}).Error
}

func (r *Repository) DeleteCard(ctx context.Context, cardID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Card{}, "id = ?", cardID).Error
}

// CountCardsByID reports how many of the given ids exist, matched as a set.
func (r *Repository) CountCardsByID(ctx context.Context, cardIDs []uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Card{}).
		Where("id IN ?", cardIDs).
		Count(&n).Error
	return n, err
}

// CountOwnedCopies reports how many user collection rows reference the card.
func (r *Repository) CountOwnedCopies(ctx context.Context, cardID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.UserCard{}).
		Where("card_id = ?", cardID).
		Count(&n).Error
	return n, err
}

func (r *Repository) CreatePack(ctx context.Context, pack *models.Pack) error {
	if pack.ID == uuid.Nil {
		pack.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit("Cards").Create(pack).Error
}

func (r *Repository) FindPackWithPool(ctx context.Context, packID uuid.UUID) (*models.Pack, error) {
	var pack models.Pack
	if err := r.db.WithContext(ctx).
		Preload("Cards.Card").
		First(&pack, "id = ?", packID).Error; err != nil {
		return nil, err
	}
	return &pack, nil
}

func (r *Repository) ListPacks(ctx context.Context) ([]models.Pack, error) {
	var packs []models.Pack
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&packs).Error; err != nil {
		return nil, err
	}
	return packs, nil
}

func (r *Repository) UpdatePack(ctx context.Context, pack *models.Pack) error {
	return r.db.WithContext(ctx).
		Model(&models.Pack{}).
		Where("id = ?", pack.ID).
		Updates(map[string]any{
			"name":        pack.Name,
			"description": pack.Description,
			"price":       pack.Price,
		}).Error
}

// ReplacePool wipes the pack's membership rows and writes the new pool.
// Duplicate card ids are preserved as separate rows.
func (r *Repository) ReplacePool(ctx context.Context, packID uuid.UUID, cardIDs []uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Delete(&models.PackCard{}, "pack_id = ?", packID).Error; err != nil {
		return err
	}
	for _, cardID := range cardIDs {
		entry := &models.PackCard{ID: uuid.New(), PackID: packID, CardID: cardID}
		if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeletePoolEntriesForCard removes every membership row the card appears in.
func (r *Repository) DeletePoolEntriesForCard(ctx context.Context, cardID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.PackCard{}, "card_id = ?", cardID).Error
}

func (r *Repository) DeletePack(ctx context.Context, packID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Delete(&models.PackCard{}, "pack_id = ?", packID).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.Pack{}, "id = ?", packID).Error
}
