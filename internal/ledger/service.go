package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sakurapacks/oripa-backend/pkg/db"
	"github.com/sakurapacks/oripa-backend/pkg/db/models"
	pkgerrors "github.com/sakurapacks/oripa-backend/pkg/errors"
)

// Service defines operations that move a user's point balance.
type Service interface {
	Charge(ctx context.Context, userID uuid.UUID, amount int) (*models.User, error)
}

type service struct {
	db   *db.Client
	repo Repository
}

// NewService wires a ledger service with the provided database and repository.
func NewService(client *db.Client, repo Repository) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("database client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{db: client, repo: repo}, nil
}

// Charge credits points to the user and returns the updated row. The load
// and the increment share one transaction so concurrent charges serialize.
func (s *service) Charge(ctx context.Context, userID uuid.UUID, amount int) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be a positive integer")
	}

	var updated *models.User
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		user, err := repo.FindForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
		}

		user.Points += amount
		if err := repo.SetPoints(ctx, user.ID, user.Points); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update points")
		}

		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Debit decrements the user's balance inside the caller's transaction. The
// caller must have loaded the user via FindForUpdate on the same tx.
func Debit(ctx context.Context, repo Repository, user *models.User, amount int) error {
	if amount <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be a positive integer")
	}
	if user.Points < amount {
		return pkgerrors.New(pkgerrors.CodeInsufficientBalance, "insufficient points")
	}

	user.Points -= amount
	if err := repo.SetPoints(ctx, user.ID, user.Points); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update points")
	}
	return nil
}
