package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/sakurapacks/oripa-backend/pkg/db/models"
	"github.com/sakurapacks/oripa-backend/pkg/enums"
)

// CardDTO is the transport shape for catalog cards.
type CardDTO struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Image       string       `json:"image"`
	Rarity      enums.Rarity `json:"rarity"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// PackEntryDTO is one membership row in a pack's draw pool. The same card
// appears once per weight unit.
type PackEntryDTO struct {
	ID   uuid.UUID `json:"id"`
	Card *CardDTO  `json:"card,omitempty"`
}

// PackDTO is the transport shape for packs, pool included when loaded.
type PackDTO struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       int            `json:"price"`
	Cards       []PackEntryDTO `json:"cards,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func CardFromModel(card *models.Card) *CardDTO {
	if card == nil {
		return nil
	}
	return &CardDTO{
		ID:          card.ID,
		Name:        card.Name,
		Description: card.Description,
		Image:       card.Image,
		Rarity:      card.Rarity,
		CreatedAt:   card.CreatedAt,
		UpdatedAt:   card.UpdatedAt,
	}
}

func PackFromModel(pack *models.Pack) *PackDTO {
	if pack == nil {
		return nil
	}
	dto := &PackDTO{
		ID:          pack.ID,
		Name:        pack.Name,
		Description: pack.Description,
		Price:       pack.Price,
		CreatedAt:   pack.CreatedAt,
		UpdatedAt:   pack.UpdatedAt,
	}
	for _, entry := range pack.Cards {
		dto.Cards = append(dto.Cards, PackEntryDTO{
			ID:   entry.ID,
			Card: CardFromModel(entry.Card),
		})
	}
	return dto
}
