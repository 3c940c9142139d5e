package middleware

import (
	"net/http"

	"github.com/casalia/realty-backend/api/responses"
	"github.com/casalia/realty-backend/pkg/enums"
	pkgerrors "github.com/casalia/realty-backend/pkg/errors"
	"github.com/casalia/realty-backend/pkg/logger"
)

// RequireAnyRole rejects requests whose actor holds none of the given roles.
func RequireAnyRole(logg *logger.Logger, roles ...enums.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actorRoles := RolesFromContext(r.Context())
			for _, held := range actorRoles {
				for _, wanted := range roles {
					if held == wanted {
						next.ServeHTTP(w, r)
						return
					}
				}
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
		})
	}
}
