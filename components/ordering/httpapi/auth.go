package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/goliatone/go-reorder/components/ordering"
	"github.com/goliatone/go-reorder/pkg/session"
)

var errUnauthorized = errors.New("httpapi: unauthorized")

// TokenVerifier resolves the admin behind a bearer token.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (session.User, error)
}

// BearerToken extracts the token of an Authorization header.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Authorize verifies the header and returns a context carrying the session and
// the actor used for activity records.
func Authorize(ctx context.Context, verifier TokenVerifier, header string) (context.Context, error) {
	if verifier == nil {
		return ctx, nil
	}
	token := BearerToken(header)
	if token == "" {
		return ctx, errUnauthorized
	}
	user, err := verifier.VerifyToken(ctx, token)
	if err != nil {
		return ctx, errors.Join(errUnauthorized, err)
	}
	s := session.New()
	if err := s.Login(token, user); err != nil {
		return ctx, errors.Join(errUnauthorized, err)
	}
	ctx = session.ContextWithSession(ctx, s)
	return ordering.ContextWithActor(ctx, ordering.ActorContext{
		ActorID:  user.ID,
		UserID:   user.ID,
		TenantID: user.TenantID,
	}), nil
}

// RequireBearer rejects requests without a valid bearer token.
func RequireBearer(verifier TokenVerifier) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, err := Authorize(r.Context(), verifier, r.Header.Get("Authorization"))
			if err != nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
