package middleware

import (
	"net/http"
	"strings"

	"docjays/internal/auth"
	"docjays/internal/httputil"
)

// publicPaths are reachable without a token.
var publicPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// Auth validates the bearer token and stamps the caller's identity and
// source client into the request context. When verifier is nil (dev mode
// without an identity provider) every request runs as a fixed dev user.
// Authorization policy is not enforced here; the platform's permission
// layer sits in front of this service.
func Auth(verifier auth.JWTVerifier, devUserID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			// Opaque label for the calling surface (editor, cli, assistant)
			if client := r.Header.Get("X-Source-Client"); client != "" {
				r = httputil.WithSourceClient(r, client)
			}

			if verifier == nil {
				next.ServeHTTP(w, httputil.WithUserID(r, devUserID))
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.GetUserID()))
		})
	}
}
