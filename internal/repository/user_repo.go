package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-rbac-service/internal/model"
	"go-rbac-service/pkg/apierror"
)

type UserRepository struct {
	pool      *pgxpool.Pool
	opTimeout time.Duration
}

func NewUserRepository(pool *pgxpool.Pool, opTimeout time.Duration) *UserRepository {
	return &UserRepository{pool: pool, opTimeout: opTimeout}
}

func (r *UserRepository) Create(ctx context.Context, username string, passwordHash string) (model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	now := time.Now().UTC()

	var u model.User
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $3)
		 RETURNING id, username, password_hash, created_at, updated_at`,
		strings.TrimSpace(username), passwordHash, now).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)

	if isUniqueViolation(err) {
		return model.User{}, apierror.DuplicateName("username already exists", username)
	}
	if err != nil {
		return model.User{}, wrapStoreErr("create user", err)
	}
	return u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at, updated_at
		 FROM users WHERE username = $1`, strings.TrimSpace(username)).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, apierror.NotFound("user not found", username)
	}
	if err != nil {
		return model.User{}, wrapStoreErr("find user by username", err)
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at, updated_at
		 FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, apierror.NotFound("user not found", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return model.User{}, wrapStoreErr("find user by id", err)
	}
	return u, nil
}
