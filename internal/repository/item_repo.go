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

type ItemRepository struct {
	pool      *pgxpool.Pool
	opTimeout time.Duration
}

func NewItemRepository(pool *pgxpool.Pool, opTimeout time.Duration) *ItemRepository {
	return &ItemRepository{pool: pool, opTimeout: opTimeout}
}

func (r *ItemRepository) List(ctx context.Context) ([]model.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx,
		`SELECT id, name, created_at FROM items ORDER BY id`)
	if err != nil {
		return nil, wrapStoreErr("list items", err)
	}
	defer rows.Close()

	items := make([]model.Item, 0)
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.CreatedAt); err != nil {
			return nil, wrapStoreErr("scan item", err)
		}
		items = append(items, it)
	}
	return items, wrapStoreErr("list items", rows.Err())
}

func (r *ItemRepository) Create(ctx context.Context, name string) (model.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	var it model.Item
	err := r.pool.QueryRow(ctx,
		`INSERT INTO items (name, created_at) VALUES ($1, $2)
		 RETURNING id, name, created_at`,
		strings.TrimSpace(name), time.Now().UTC()).
		Scan(&it.ID, &it.Name, &it.CreatedAt)
	if err != nil {
		return model.Item{}, wrapStoreErr("create item", err)
	}
	return it, nil
}

func (r *ItemRepository) Update(ctx context.Context, id int64, name string) (model.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	var it model.Item
	err := r.pool.QueryRow(ctx,
		`UPDATE items SET name = $2 WHERE id = $1
		 RETURNING id, name, created_at`,
		id, strings.TrimSpace(name)).
		Scan(&it.ID, &it.Name, &it.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Item{}, apierror.NotFound("item not found", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return model.Item{}, wrapStoreErr("update item", err)
	}
	return it, nil
}

func (r *ItemRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return wrapStoreErr("delete item", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("item not found", strconv.FormatInt(id, 10))
	}
	return nil
}
