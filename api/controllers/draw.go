package controllers

import (
	"net/http"

	"github.com/sakurapacks/oripa-backend/api/responses"
	"github.com/sakurapacks/oripa-backend/internal/catalog"
	"github.com/sakurapacks/oripa-backend/internal/gacha"
	pkgerrors "github.com/sakurapacks/oripa-backend/pkg/errors"
	"github.com/sakurapacks/oripa-backend/pkg/logger"
)

type drawResponse struct {
	Card   *catalog.CardDTO `json:"card"`
	Points int              `json:"points"`
}

// DrawPack performs one draw from the pack in the URL against the
// authenticated user's balance.
func DrawPack(svc gacha.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "draw service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		packID, err := packIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Draw(r.Context(), userID, packID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, drawResponse{
			Card:   catalog.CardFromModel(result.Card),
			Points: result.Points,
		})
	}
}
