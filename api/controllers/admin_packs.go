package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/sakurapacks/oripa-backend/api/responses"
	"github.com/sakurapacks/oripa-backend/api/validators"
	"github.com/sakurapacks/oripa-backend/internal/catalog"
	pkgerrors "github.com/sakurapacks/oripa-backend/pkg/errors"
	"github.com/sakurapacks/oripa-backend/pkg/logger"
)

type createPackRequest struct {
	Name        string      `json:"name" validate:"required,min=1,max=200"`
	Description string      `json:"description" validate:"max=2000"`
	Price       int         `json:"price" validate:"required,min=1"`
	CardIDs     []uuid.UUID `json:"card_ids" validate:"required,min=1,dive,required"`
}

type updatePackRequest struct {
	Name        *string      `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string      `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price       *int         `json:"price,omitempty" validate:"omitempty,min=1"`
	CardIDs     *[]uuid.UUID `json:"card_ids,omitempty" validate:"omitempty,min=1"`
}

// AdminListPacks lists every pack with its pool.
func AdminListPacks(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		packs, err := svc.ListPacks(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, packs)
	}
}

// AdminGetPack returns one pack with its pool.
func AdminGetPack(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		packID, err := packIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pack, err := svc.GetPack(r.Context(), packID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, pack)
	}
}

// AdminCreatePack creates a pack together with its draw pool. Duplicate
// card ids are allowed; multiplicity is the draw weight.
func AdminCreatePack(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body createPackRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pack, err := svc.CreatePack(r.Context(), catalog.CreatePackInput{
			Name:        validators.SanitizeString(body.Name, 200),
			Description: validators.SanitizeString(body.Description, 2000),
			Price:       body.Price,
			CardIDs:     body.CardIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, pack)
	}
}

// AdminUpdatePack mutates pack fields; when card_ids is present the whole
// pool is replaced with the supplied list.
func AdminUpdatePack(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		packID, err := packIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updatePackRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pack, err := svc.UpdatePack(r.Context(), packID, catalog.UpdatePackInput{
			Name:        body.Name,
			Description: body.Description,
			Price:       body.Price,
			CardIDs:     body.CardIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, pack)
	}
}

// AdminDeletePack removes a pack and its pool.
func AdminDeletePack(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		packID, err := packIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeletePack(r.Context(), packID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
