package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sakurapacks/oripa-backend/pkg/db"
	"github.com/sakurapacks/oripa-backend/pkg/db/models"
	"github.com/sakurapacks/oripa-backend/pkg/enums"
	pkgerrors "github.com/sakurapacks/oripa-backend/pkg/errors"
)

// CardInput is the payload for creating or updating a card.
type CardInput struct {
	Name        string
	Description string
	Image       string
	Rarity      string
}

// CreatePackInput is the payload for creating a pack, pool included.
type CreatePackInput struct {
	Name        string
	Description string
	Price       int
	CardIDs     []uuid.UUID
}

// UpdatePackInput mutates pack fields; a non-nil CardIDs replaces the whole
// pool.
type UpdatePackInput struct {
	Name        *string
	Description *string
	Price       *int
	CardIDs     *[]uuid.UUID
}

// Service exposes catalog administration and public browsing.
type Service interface {
	CreateCard(ctx context.Context, input CardInput) (*CardDTO, error)
	ListCards(ctx context.Context) ([]CardDTO, error)
	UpdateCard(ctx context.Context, cardID uuid.UUID, input CardInput) (*CardDTO, error)
	DeleteCard(ctx context.Context, cardID uuid.UUID) error

	CreatePack(ctx context.Context, input CreatePackInput) (*PackDTO, error)
	GetPack(ctx context.Context, packID uuid.UUID) (*PackDTO, error)
	ListPacks(ctx context.Context) ([]PackDTO, error)
	UpdatePack(ctx context.Context, packID uuid.UUID, input UpdatePackInput) (*PackDTO, error)
	DeletePack(ctx context.Context, packID uuid.UUID) error
}

type service struct {
	db   *db.Client
	repo *Repository
}

// NewService constructs a catalog service.
func NewService(client *db.Client, repo *Repository) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("database client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{db: client, repo: repo}, nil
}

func (s *service) CreateCard(ctx context.Context, input CardInput) (*CardDTO, error) {
	card, err := cardFromInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateCard(ctx, card); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create card")
	}
	return CardFromModel(card), nil
}

func (s *service) ListCards(ctx context.Context) ([]CardDTO, error) {
	cards, err := s.repo.ListCards(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cards")
	}
	out := make([]CardDTO, 0, len(cards))
	for i := range cards {
		out = append(out, *CardFromModel(&cards[i]))
	}
	return out, nil
}

func (s *service) UpdateCard(ctx context.Context, cardID uuid.UUID, input CardInput) (*CardDTO, error) {
	if cardID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card id is required")
	}
	card, err := cardFromInput(input)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindCard(ctx, cardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "card not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load card")
	}
	card.ID = cardID
	if err := s.repo.UpdateCard(ctx, card); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update card")
	}
	updated, err := s.repo.FindCard(ctx, cardID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload card")
	}
	return CardFromModel(updated), nil
}

// DeleteCard removes a card and its pool entries. Cards already drawn into
// a collection stay owned, so those block deletion.
func (s *service) DeleteCard(ctx context.Context, cardID uuid.UUID) error {
	if cardID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "card id is required")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindCard(ctx, cardID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "card not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load card")
		}

		owned, err := repo.CountOwnedCopies(ctx, cardID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count owned copies")
		}
		if owned > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "card is owned by users")
		}

		if err := repo.DeletePoolEntriesForCard(ctx, cardID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove pool entries")
		}
		if err := repo.DeleteCard(ctx, cardID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete card")
		}
		return nil
	})
}

func (s *service) CreatePack(ctx context.Context, input CreatePackInput) (*PackDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be a positive integer")
	}

	var packID uuid.UUID
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := validatePool(ctx, repo, input.CardIDs); err != nil {
			return err
		}

		pack := &models.Pack{
			Name:        strings.TrimSpace(input.Name),
			Description: input.Description,
			Price:       input.Price,
		}
		if err := repo.CreatePack(ctx, pack); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create pack")
		}
		if err := repo.ReplacePool(ctx, pack.ID, input.CardIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write pool")
		}
		packID = pack.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetPack(ctx, packID)
}

func (s *service) GetPack(ctx context.Context, packID uuid.UUID) (*PackDTO, error) {
	if packID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pack id is required")
	}
	pack, err := s.repo.FindPackWithPool(ctx, packID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pack not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load pack")
	}
	return PackFromModel(pack), nil
}

func (s *service) ListPacks(ctx context.Context) ([]PackDTO, error) {
	packs, err := s.repo.ListPacks(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list packs")
	}
	out := make([]PackDTO, 0, len(packs))
	for i := range packs {
		out = append(out, *PackFromModel(&packs[i]))
	}
	return out, nil
}

// UpdatePack mutates pack fields and, when CardIDs is present, replaces the
// whole pool in the same transaction. Draws in flight see either the old
// pool or the new one, never a mix.
func (s *service) UpdatePack(ctx context.Context, packID uuid.UUID, input UpdatePackInput) (*PackDTO, error) {
	if packID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pack id is required")
	}
	if input.Price != nil && *input.Price <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be a positive integer")
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		pack, err := repo.FindPackWithPool(ctx, packID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "pack not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load pack")
		}

		if input.Name != nil {
			pack.Name = strings.TrimSpace(*input.Name)
		}
		if input.Description != nil {
			pack.Description = *input.Description
		}
		if input.Price != nil {
			pack.Price = *input.Price
		}
		if err := repo.UpdatePack(ctx, pack); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update pack")
		}

		if input.CardIDs != nil {
			if err := validatePool(ctx, repo, *input.CardIDs); err != nil {
				return err
			}
			if err := repo.ReplacePool(ctx, packID, *input.CardIDs); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace pool")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetPack(ctx, packID)
}

func (s *service) DeletePack(ctx context.Context, packID uuid.UUID) error {
	if packID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "pack id is required")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindPackWithPool(ctx, packID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "pack not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load pack")
		}
		if err := repo.DeletePack(ctx, packID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete pack")
		}
		return nil
	})
}

func cardFromInput(input CardInput) (*models.Card, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	rarity, err := enums.ParseRarity(input.Rarity)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid rarity")
	}
	return &models.Card{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Image:       input.Image,
		Rarity:      rarity,
	}, nil
}

// validatePool checks every referenced card exists. Duplicates are legal,
// so the existence check runs over the distinct ids.
func validatePool(ctx context.Context, repo *Repository, cardIDs []uuid.UUID) error {
	if len(cardIDs) == 0 {
		return nil
	}
	distinct := map[uuid.UUID]struct{}{}
	for _, id := range cardIDs {
		if id == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "card ids must be valid")
		}
		distinct[id] = struct{}{}
	}
	ids := make([]uuid.UUID, 0, len(distinct))
	for id := range distinct {
		ids = append(ids, id)
	}
	found, err := repo.CountCardsByID(ctx, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check cards")
	}
	if found != int64(len(ids)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown card in pool")
	}
	return nil
}
