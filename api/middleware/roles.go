package middleware

import (
	"net/http"

	"github.com/sakurapacks/oripa-backend/api/responses"
	pkgerrors "github.com/sakurapacks/oripa-backend/pkg/errors"
	"github.com/sakurapacks/oripa-backend/pkg/logger"
)

// RequireAdmin rejects requests whose token lacks the admin flag. A non-admin
// session gets the same 401 as no session at all; clients cannot probe which
// admin routes exist.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdminFromContext(r.Context()) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
