package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go-rbac-service/internal/model"
	"go-rbac-service/pkg/apierror"
)

// AuthenticatedOnly is the reserved permission value meaning "a valid token
// is sufficient"; the gate skips the repository read for it.
const AuthenticatedOnly = "AUTHENTICATED-ONLY"

type tokenVerifier interface {
	Verify(tokenString string) (*model.AuthClaims, error)
}

type permissionChecker interface {
	HasPermission(ctx context.Context, userID int64, permission string) (bool, error)
}

type contextKey string

const authClaimsContextKey contextKey = "auth_claims"

// AuthMiddleware gates protected routes: authenticate via the token verifier,
// then, unless the route only requires authentication, authorize via a single
// permission lookup. It holds no per-request state and no cache.
type AuthMiddleware struct {
	verifier    tokenVerifier
	permissions permissionChecker
}

func NewAuthMiddleware(verifier tokenVerifier, permissions permissionChecker) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, permissions: permissions}
}

// RequirePermission builds the per-route gate. Every failure short-circuits
// into exactly one terminal response; on pass the decoded claims are attached
// to the request context for downstream handlers.
func (m *AuthMiddleware) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := strings.TrimSpace(r.Header.Get("Authorization"))
			if header == "" {
				writeGateError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing token")
				return
			}

			if !strings.HasPrefix(header, "Bearer ") {
				writeGateError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token format")
				return
			}

			claims, err := m.verifier.Verify(strings.TrimSpace(header[7:]))
			if err != nil {
				if errors.Is(err, model.ErrTokenExpired) {
					writeGateError(w, http.StatusUnauthorized, "UNAUTHORIZED", "token expired")
					return
				}
				writeGateError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
				return
			}

			if permission != AuthenticatedOnly {
				granted, err := m.permissions.HasPermission(r.Context(), claims.UserID, permission)
				if err != nil {
					status, code, message := http.StatusInternalServerError, "INTERNAL_ERROR", "authorization check failed"
					var apiErr *apierror.APIError
					if errors.As(err, &apiErr) {
						status, code, message = apiErr.HTTPStatus, apiErr.Code, apiErr.Message
					}
					writeGateError(w, status, code, message)
					return
				}
				if !granted {
					writeGateError(w, http.StatusForbidden, "FORBIDDEN", "forbidden")
					return
				}
			}

			ctx := context.WithValue(r.Context(), authClaimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ClaimsFromContext(ctx context.Context) (*model.AuthClaims, bool) {
	claims, ok := ctx.Value(authClaimsContextKey).(*model.AuthClaims)
	return claims, ok
}

func writeGateError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    code,
			Message: message,
		},
	})
}
