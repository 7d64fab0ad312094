package gacha

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sakurapacks/oripa-backend/internal/ledger"
	"github.com/sakurapacks/oripa-backend/pkg/db"
	"github.com/sakurapacks/oripa-backend/pkg/db/models"
	pkgerrors "github.com/sakurapacks/oripa-backend/pkg/errors"
	"github.com/sakurapacks/oripa-backend/pkg/metrics"
)

// DrawResult is what a successful draw hands back to the caller.
type DrawResult struct {
	Card   *models.Card
	Points int
}

// Service runs pack draws.
type Service interface {
	Draw(ctx context.Context, userID, packID uuid.UUID) (*DrawResult, error)
}

type service struct {
	db      *db.Client
	packs   Repository
	ledger  ledger.Repository
	metrics *metrics.DrawMetrics
	pick    func(n int) int
}

// ServiceParams bundles the dependencies required to build a draw service.
type ServiceParams struct {
	DB          *db.Client
	PackRepo    Repository
	LedgerRepo  ledger.Repository
	DrawMetrics *metrics.DrawMetrics

	// Pick overrides the uniform index selection. Leave nil outside tests.
	Pick func(n int) int
}

// NewService constructs a draw service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client required")
	}
	if params.PackRepo == nil {
		return nil, fmt.Errorf("pack repository required")
	}
	if params.LedgerRepo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	pick := params.Pick
	if pick == nil {
		pick = rand.Intn
	}
	return &service{
		db:      params.DB,
		packs:   params.PackRepo,
		ledger:  params.LedgerRepo,
		metrics: params.DrawMetrics,
		pick:    pick,
	}, nil
}

// Draw resolves one pull: load the pack and its pool, lock the user row,
// debit the price and grant one card picked uniformly over the membership
// rows. Everything happens in a single transaction; any failure leaves both
// balance and collection untouched.
func (s *service) Draw(ctx context.Context, userID, packID uuid.UUID) (*DrawResult, error) {
	if userID == uuid.Nil || packID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and pack id are required")
	}

	started := time.Now()
	var (
		result    *DrawResult
		packName  string
		packPrice int
	)

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		packs := s.packs.WithTx(tx)
		balances := s.ledger.WithTx(tx)

		pack, err := packs.FindPackWithPool(ctx, packID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "pack not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load pack")
		}
		packName = pack.Name
		packPrice = pack.Price
		if len(pack.Cards) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyPack, "pack has no cards")
		}

		user, err := balances.FindForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
		}

		if err := ledger.Debit(ctx, balances, user, pack.Price); err != nil {
			return err
		}

		membership := pack.Cards[s.pick(len(pack.Cards))]
		drawn := membership.Card
		if drawn == nil {
			return pkgerrors.New(pkgerrors.CodeInternal, "pack membership missing card")
		}

		owned := &models.UserCard{
			UserID: user.ID,
			CardID: drawn.ID,
		}
		if err := packs.CreateUserCard(ctx, owned); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "grant card")
		}

		result = &DrawResult{Card: drawn, Points: user.Points}
		return nil
	})
	if err != nil {
		s.metrics.IncFailure(packName, failureCode(err))
		return nil, err
	}

	s.metrics.ObserveDuration(packName, time.Since(started))
	s.metrics.IncSuccess(packName, string(result.Card.Rarity))
	s.metrics.AddPointsSpent(packName, packPrice)
	return result, nil
}

func failureCode(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return string(typed.Code())
	}
	return string(pkgerrors.CodeInternal)
}
