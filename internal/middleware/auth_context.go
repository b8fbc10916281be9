package middleware

import (
	"context"
	"net/http"
	"strings"

	"pet-adoption/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// Headers del modo dev.
const (
	DebugUserIDHeader    = "X-Debug-User-ID"
	DebugUserEmailHeader = "X-Debug-User-Email"
	DebugUserNameHeader  = "X-Debug-User-Name"
)

// AuthContext:
// - Si verifier != nil y viene Bearer token => intenta Verify() y setea claims.
// - Si verifier == nil => modo dev: si viene X-Debug-User-ID => setea claims (email y nombre opcionales).
// - Si no hay claims, el request sigue igual; los handlers decidirán si exigen auth.
func AuthContext(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				if uid := strings.TrimSpace(r.Header.Get(DebugUserIDHeader)); uid != "" {
					claims := auth.Claims{
						UserID: uid,
						Email:  strings.TrimSpace(r.Header.Get(DebugUserEmailHeader)),
						Name:   strings.TrimSpace(r.Header.Get(DebugUserNameHeader)),
					}
					next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
					return
				}

				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				// No cortamos aquí. El handler decide 401.
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	return c, ok
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
