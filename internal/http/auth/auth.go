// Package auth verifies API callers and gates ledger routes by membership role.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kitty/internal/http/respond"
	"github.com/MrJamesThe3rd/kitty/internal/membership"
)

// CookieName carries the access token for browser clients.
const CookieName = "access_token"

type userKey struct{}

type roleKey struct{}

type cachedRole struct {
	ledgerID int64
	role     membership.Role
}

// Claims is the token payload; the subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
}

// Middleware rejects requests without a valid HS256 token and stores the
// caller's user id in the request context.
func Middleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFromRequest(r)
			if raw == "" {
				respond.Error(w, r, respond.ErrUnauthorized)
				return
			}

			userID, err := ParseToken(secret, raw)
			if err != nil {
				respond.Error(w, r, fmt.Errorf("%w: %w", respond.ErrUnauthorized, err))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// ParseToken verifies raw and returns the user id in its subject.
func ParseToken(secret []byte, raw string) (uuid.UUID, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid subject: %w", err)
	}

	return userID, nil
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}

	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return ""
}

func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userKey{}, id)
}

// UserID returns the authenticated caller.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userKey{}).(uuid.UUID)
	return id, ok
}

// RoleSource resolves a user's role in a ledger.
type RoleSource interface {
	RoleOf(ctx context.Context, ledgerID int64, userID uuid.UUID) (membership.Role, error)
}

// RequireRole admits callers whose role in the {ledgerID} ledger satisfies
// min. The resolved role is kept in the context so nested checks reuse it.
func RequireRole(src RoleSource, min membership.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ledgerID, err := respond.IDParam(r, "ledgerID")
			if err != nil {
				respond.Error(w, r, err)
				return
			}

			role, err := Resolve(r.Context(), src, ledgerID)
			if err != nil {
				respond.Error(w, r, err)
				return
			}

			if !role.Satisfies(min) {
				respond.Error(w, r, respond.ErrForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), roleKey{}, cachedRole{ledgerID: ledgerID, role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Resolve returns the caller's role in ledgerID. Non-members are forbidden.
func Resolve(ctx context.Context, src RoleSource, ledgerID int64) (membership.Role, error) {
	if cached, ok := ctx.Value(roleKey{}).(cachedRole); ok && cached.ledgerID == ledgerID {
		return cached.role, nil
	}

	userID, ok := UserID(ctx)
	if !ok {
		return "", respond.ErrUnauthorized
	}

	role, err := src.RoleOf(ctx, ledgerID, userID)
	if errors.Is(err, membership.ErrMemberNotFound) {
		return "", respond.ErrForbidden
	}

	return role, err
}

// Role returns the role resolved by RequireRole for the current ledger.
func Role(ctx context.Context) (membership.Role, bool) {
	cached, ok := ctx.Value(roleKey{}).(cachedRole)
	return cached.role, ok
}
