package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const cartTokenHeader = "X-Cart-Token"

// CartSession resolves the cart owner key for the request. Authenticated
// users own their cart by user id; guests get a token that the client
// must echo back on subsequent requests. The resolved token is always
// mirrored into the response so the client can persist it.
func CartSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner := UserIDFromContext(r.Context())
			if owner == "" {
				owner = strings.TrimSpace(r.Header.Get(cartTokenHeader))
			}
			if owner == "" {
				owner = uuid.NewString()
			}

			w.Header().Set(cartTokenHeader, owner)
			next.ServeHTTP(w, r.WithContext(WithCartOwner(r.Context(), owner)))
		})
	}
}
