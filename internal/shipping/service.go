package shipping

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sakurapacks/oripa-backend/internal/users"
	"github.com/sakurapacks/oripa-backend/pkg/db"
	"github.com/sakurapacks/oripa-backend/pkg/db/models"
	"github.com/sakurapacks/oripa-backend/pkg/enums"
	pkgerrors "github.com/sakurapacks/oripa-backend/pkg/errors"
)

// SetStatusInput carries an admin status change.
type SetStatusInput struct {
	Status         enums.ShippingStatus
	ShippedDate    *time.Time
	TrackingNumber *string
}

// Service drives the shipping request workflow.
type Service interface {
	Submit(ctx context.Context, userID uuid.UUID, cardIDs []uuid.UUID) (*models.ShippingRequest, error)
	SetStatus(ctx context.Context, requestID uuid.UUID, input SetStatusInput) (*models.ShippingRequest, error)
	Delete(ctx context.Context, requestID uuid.UUID) error
	History(ctx context.Context, userID uuid.UUID) ([]models.ShippingRequest, error)
	ListAll(ctx context.Context) ([]models.ShippingRequest, error)
}

type service struct {
	db       *db.Client
	requests Repository
	users    *users.Repository
}

// ServiceParams bundles the dependencies for the shipping workflow.
type ServiceParams struct {
	DB          *db.Client
	RequestRepo Repository
	UserRepo    *users.Repository
}

// NewService constructs a shipping service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client required")
	}
	if params.RequestRepo == nil {
		return nil, fmt.Errorf("shipping repository required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{
		db:       params.DB,
		requests: params.RequestRepo,
		users:    params.UserRepo,
	}, nil
}

// Submit creates a PENDING request claiming the given cards. The user's
// address is snapshotted into the request; later profile edits do not touch
// requests already submitted.
func (s *service) Submit(ctx context.Context, userID uuid.UUID, cardIDs []uuid.UUID) (*models.ShippingRequest, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if len(cardIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one card is required")
	}
	unique := map[uuid.UUID]struct{}{}
	for _, id := range cardIDs {
		if id == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "card ids must be valid")
		}
		unique[id] = struct{}{}
	}
	if len(unique) != len(cardIDs) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card ids must be distinct")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if !user.HasCompleteAddress() {
		return nil, pkgerrors.New(pkgerrors.CodeIncompleteAddress, "shipping address is incomplete").
			WithDetails(missingAddressFields(user))
	}

	var created *models.ShippingRequest
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.requests.WithTx(tx)

		shippable, err := repo.FindShippable(ctx, userID, cardIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve cards")
		}
		if len(shippable) != len(cardIDs) {
			return pkgerrors.New(pkgerrors.CodeInvalidSelection, "some cards are not eligible for shipping")
		}

		request := &models.ShippingRequest{
			UserID:          userID,
			Status:          enums.ShippingStatusPending,
			ShippingAddress: snapshotAddress(user),
			RequestDate:     time.Now().UTC(),
		}
		if err := repo.CreateRequest(ctx, request); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create request")
		}
		claimed, err := repo.ClaimCards(ctx, request.ID, cardIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "claim cards")
		}
		// A concurrent request can claim one of these cards after the
		// eligibility read; the claim predicate skips it and the count
		// mismatch rolls the whole submission back.
		if claimed != int64(len(cardIDs)) {
			return pkgerrors.New(pkgerrors.CodeInvalidSelection, "some cards are not eligible for shipping")
		}

		created = request
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// SetStatus applies an admin status change and keeps the claimed cards'
// shipped flag consistent with the new status.
func (s *service) SetStatus(ctx context.Context, requestID uuid.UUID, input SetStatusInput) (*models.ShippingRequest, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id is required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid shipping status")
	}

	var updated *models.ShippingRequest
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.requests.WithTx(tx)

		request, err := repo.FindRequest(ctx, requestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "shipping request not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load request")
		}

		if !transitionAllowed(request.Status, input.Status) {
			return pkgerrors.New(pkgerrors.CodeValidation, "status transition not allowed")
		}

		request.Status = input.Status
		if input.ShippedDate != nil {
			request.ShippedDate = input.ShippedDate
		}
		if input.TrackingNumber != nil {
			request.TrackingNumber = input.TrackingNumber
		}
		if err := repo.UpdateRequest(ctx, request); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update request")
		}

		if input.Status.RequiresShippedCards() {
			if err := repo.MarkClaimedShipped(ctx, requestID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark cards shipped")
			}
		}

		updated = request
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a request, first releasing every claimed card back to the
// owner's free pool.
func (s *service) Delete(ctx context.Context, requestID uuid.UUID) error {
	if requestID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "request id is required")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.requests.WithTx(tx)

		if _, err := repo.FindRequest(ctx, requestID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "shipping request not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load request")
		}

		if err := repo.ReleaseCards(ctx, requestID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "release cards")
		}
		if err := repo.DeleteRequest(ctx, requestID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete request")
		}
		return nil
	})
}

func (s *service) History(ctx context.Context, userID uuid.UUID) ([]models.ShippingRequest, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	requests, err := s.requests.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list requests")
	}
	return requests, nil
}

func (s *service) ListAll(ctx context.Context) ([]models.ShippingRequest, error) {
	requests, err := s.requests.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list requests")
	}
	return requests, nil
}

// transitionAllowed is the single decision point for status changes. The
// current policy accepts any pair of valid statuses; tightening it to a
// monotonic PENDING -> PROCESSING -> SHIPPED -> DELIVERED flow only needs a
// change here.
func transitionAllowed(from, to enums.ShippingStatus) bool {
	return from.IsValid() && to.IsValid()
}

func snapshotAddress(user *models.User) string {
	parts := make([]string, 0, 6)
	for _, field := range []*string{
		user.AddressLine1,
		user.AddressLine2,
		user.City,
		user.State,
		user.ZipCode,
		user.Country,
	} {
		if field != nil && strings.TrimSpace(*field) != "" {
			parts = append(parts, strings.TrimSpace(*field))
		}
	}
	return strings.Join(parts, ", ")
}

func missingAddressFields(user *models.User) map[string]any {
	missing := []string{}
	for _, field := range []struct {
		name  string
		value *string
	}{
		{"address_line1", user.AddressLine1},
		{"city", user.City},
		{"zip_code", user.ZipCode},
		{"country", user.Country},
	} {
		if field.value == nil || *field.value == "" {
			missing = append(missing, field.name)
		}
	}
	return map[string]any{"missing": missing}
}
