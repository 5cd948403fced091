package middlewares

import (
	"medblock-service/internal/app/models"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/exceptions"
	"medblock-service/internal/pkg/utils"
	"net/http"
)

// Authenticate resolves the bearer credential into an Identity and places it
// on the request context. Nothing downstream reads the raw header again.
func (m *Middlewares) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.IdentityResolver.Resolve(r.Context(), r.Header.Get(constvars.HeaderAuthorization))
		if err != nil {
			if exceptions.HasCode(err, exceptions.CodeUnauthenticated) {
				w.Header().Set(constvars.HeaderWWWAuthenticate, constvars.AuthSchemeBearer)
			}
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}

		ctx := models.ContextWithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
