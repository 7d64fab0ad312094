package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sakurapacks/oripa-backend/api/responses"
	"github.com/sakurapacks/oripa-backend/api/validators"
	"github.com/sakurapacks/oripa-backend/internal/shipping"
	"github.com/sakurapacks/oripa-backend/pkg/enums"
	pkgerrors "github.com/sakurapacks/oripa-backend/pkg/errors"
	"github.com/sakurapacks/oripa-backend/pkg/logger"
)

type setShippingStatusRequest struct {
	Status         string     `json:"status" validate:"required"`
	ShippedDate    *time.Time `json:"shipped_date,omitempty"`
	TrackingNumber *string    `json:"tracking_number,omitempty" validate:"omitempty,max=100"`
}

func shippingRequestIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "requestId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request id")
	}
	return id, nil
}

// AdminListShippingRequests lists every request across users, newest-first.
func AdminListShippingRequests(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping service unavailable"))
			return
		}

		requests, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, shipping.FromModels(requests))
	}
}

// AdminSetShippingStatus moves a request through the fulfillment workflow.
func AdminSetShippingStatus(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping service unavailable"))
			return
		}

		requestID, err := shippingRequestIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setShippingStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseShippingStatus(strings.TrimSpace(body.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		request, err := svc.SetStatus(r.Context(), requestID, shipping.SetStatusInput{
			Status:         status,
			ShippedDate:    body.ShippedDate,
			TrackingNumber: body.TrackingNumber,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, shipping.FromModel(request))
	}
}

// AdminDeleteShippingRequest removes a request and releases its cards back
// to the owner's unshipped pool.
func AdminDeleteShippingRequest(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping service unavailable"))
			return
		}

		requestID, err := shippingRequestIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), requestID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
