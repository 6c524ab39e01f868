package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"go-rbac-service/internal/model"
	"go-rbac-service/pkg/apierror"
)

// UserStore is the credential-store contract the auth flows need.
type UserStore interface {
	Create(ctx context.Context, username string, passwordHash string) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	FindByID(ctx context.Context, id int64) (model.User, error)
}

type AuthService struct {
	users      UserStore
	tokens     *TokenService
	bcryptCost int
	accessTTL  time.Duration
}

func NewAuthService(users UserStore, tokens *TokenService, bcryptCost int, accessTTL time.Duration) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}

	return &AuthService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		accessTTL:  accessTTL,
	}
}

// Register creates a user with a freshly salted bcrypt hash and auto-issues a
// token, same as a successful login.
func (s *AuthService) Register(ctx context.Context, username string, password string, confirmPassword string) (model.TokenResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.TokenResponse{}, apierror.BadRequest("username and password are required", "")
	}
	if password != confirmPassword {
		return model.TokenResponse{}, apierror.BadRequest("passwords do not match", "")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return model.TokenResponse{}, apierror.Internal("failed to hash password")
	}

	user, err := s.users.Create(ctx, username, string(hash))
	if err != nil {
		return model.TokenResponse{}, err
	}

	return s.issueFor(user)
}

// Login verifies credentials and issues a token. User-not-found and
// wrong-password both surface the same rejection so callers cannot probe
// which half of a credential was wrong. bcrypt's comparison is constant time
// with respect to mismatch position.
func (s *AuthService) Login(ctx context.Context, username string, password string) (model.TokenResponse, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		var apiErr *apierror.APIError
		if errors.As(err, &apiErr) && apiErr.Code == "UNAVAILABLE" {
			return model.TokenResponse{}, err
		}
		return model.TokenResponse{}, apierror.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.TokenResponse{}, apierror.Unauthorized("invalid credentials")
	}

	return s.issueFor(user)
}

func (s *AuthService) GetUserByID(ctx context.Context, id int64) (model.AuthUser, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.AuthUser{}, err
	}
	return model.AuthUser{ID: user.ID, Username: user.Username}, nil
}

func (s *AuthService) issueFor(user model.User) (model.TokenResponse, error) {
	token, err := s.tokens.Issue(user.ID, s.accessTTL)
	if err != nil {
		return model.TokenResponse{}, apierror.Internal("failed to sign token")
	}

	return model.TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.accessTTL.Seconds()),
		User:      model.AuthUser{ID: user.ID, Username: user.Username},
	}, nil
}
