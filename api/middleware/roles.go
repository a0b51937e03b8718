package middleware

import (
	"net/http"

	"github.com/rafaelortiz/vendtrack-backend/api/responses"
	pkgerrors "github.com/rafaelortiz/vendtrack-backend/pkg/errors"
	"github.com/rafaelortiz/vendtrack-backend/pkg/logger"
)

// RequireRole gates a route on the caller holding the named role. Admins
// pass regardless.
func RequireRole(role string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if !HasRole(ctx, role) && !IsAdminFromContext(ctx) {
				responses.WriteError(ctx, logg, w, pkgerrors.Newf(pkgerrors.CodeForbidden, "%s role required", role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
