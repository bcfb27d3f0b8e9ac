package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/shelfspace/shelfspace/internal/platform/httpx"
	"github.com/shelfspace/shelfspace/internal/shared"
)

// Guard rejects requests that do not carry a valid bearer access token.
// It is stateless: verification is signature and expiry only, with no
// credential-store lookups or side effects.
type Guard struct {
	tokens *TokenIssuer
}

// NewGuard constructs the request guard around a token issuer.
func NewGuard(tokens *TokenIssuer) *Guard {
	return &Guard{tokens: tokens}
}

// RequireAuth verifies the bearer token and attaches the subject id to the
// request context before the business handler runs.
func (g *Guard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			httpx.RespondError(w, fmt.Errorf("%w: missing bearer token", httpx.ErrUnauthorized))
			return
		}
		userID, err := g.tokens.Verify(raw)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		ctx := shared.ContextWithUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
