package controllers

import (
	"net/http"

	"github.com/sakurapacks/oripa-backend/api/responses"
	"github.com/sakurapacks/oripa-backend/api/validators"
	"github.com/sakurapacks/oripa-backend/internal/ledger"
	pkgerrors "github.com/sakurapacks/oripa-backend/pkg/errors"
	"github.com/sakurapacks/oripa-backend/pkg/logger"
)

type chargeRequest struct {
	Amount int `json:"amount" validate:"required,min=1"`
}

// ChargePoints credits the authenticated user's balance. There is no payment
// processor behind this; the amount is credited directly.
func ChargePoints(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body chargeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Charge(r.Context(), userID, body.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int{"points": user.Points})
	}
}
