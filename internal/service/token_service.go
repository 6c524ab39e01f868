package service

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-rbac-service/internal/model"
)

// TokenService issues and verifies HS256-signed identity tokens. The signing
// secret is loaded once at startup and never re-read; it holds no per-request
// state, so concurrent use needs no synchronization.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// WithClock replaces the wall clock. Tests use this to pin expiry boundaries.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Issue signs claims binding subjectID to a ttl-long validity window. The
// subject is the numeric user id; usernames never appear in claims.
func (s *TokenService) Issue(subjectID int64, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", errors.New("token ttl must be positive")
	}

	now := s.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(subjectID, 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify decodes and checks the token. A token is expired for all purposes
// once exp <= now. Subjects that are not numeric ids (the legacy
// username-subject token format) are rejected as malformed.
func (s *TokenService) Verify(tokenString string) (*model.AuthClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)

	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, model.ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, model.ErrTokenSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, model.ErrTokenExpired
	case err != nil:
		return nil, model.ErrTokenInvalid
	}

	if !parsed.Valid {
		return nil, model.ErrTokenInvalid
	}

	subjectID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || subjectID <= 0 {
		return nil, model.ErrTokenMalformed
	}

	out := &model.AuthClaims{
		UserID:  subjectID,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
