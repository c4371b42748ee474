package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/genesislab/siteadmin/internal/admins"
	"github.com/genesislab/siteadmin/internal/platform/httpx"
	"github.com/genesislab/siteadmin/internal/shared"
)

// Middleware authenticates bearer tokens.
type Middleware struct {
	Tokens   *TokenIssuer
	Accounts Accounts
	Logger   *slog.Logger
}

// Authenticate resolves the bearer token to its admin and stores the
// Principal in the request context. The account is reloaded so role changes
// take effect before the token expires.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := httpx.BearerToken(r)
		if token == "" {
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}
		id, _, err := m.Tokens.Parse(token)
		if err != nil {
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}
		account, err := m.Accounts.AccountByID(r.Context(), id)
		if errors.Is(err, admins.ErrAdminNotFound) {
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}
		if err != nil {
			if m.Logger != nil {
				m.Logger.Error("authenticate", slog.Any("error", err))
			}
			httpx.RespondError(w, err)
			return
		}
		ctx := shared.ContextWithPrincipal(r.Context(), shared.Principal{
			AdminID: account.ID,
			RoleID:  account.RoleID,
			Email:   account.Email,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
