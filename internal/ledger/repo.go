package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sakurapacks/oripa-backend/pkg/db/models"
)

// Repository manages persistence for point balances.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindForUpdate(ctx context.Context, userID uuid.UUID) (*models.User, error)
	SetPoints(ctx context.Context, userID uuid.UUID, points int) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindForUpdate loads the user row, holding a row lock for the rest of the
// transaction on dialects that support it. SQLite serializes writers on its
// own and rejects FOR UPDATE syntax.
func (r *repository) FindForUpdate(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	query := r.db.WithContext(ctx)
	if query.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var user models.User
	if err := query.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) SetPoints(ctx context.Context, userID uuid.UUID, points int) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("points", points).Error
}
