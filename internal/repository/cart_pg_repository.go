package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/sqlite-cart/internal/domain"
	"github.com/nikolayk812/sqlite-cart/internal/port"
	"github.com/shopspring/decimal"
)

type pgCartRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCart returns a repository backed by a pool from storage.OpenPostgres.
func NewPostgresCart(pool *pgxpool.Pool) port.CartRepository {
	return &pgCartRepository{
		pool: pool,
	}
}

func (r *pgCartRepository) AddItem(ctx context.Context, item domain.CartItem) (domain.MutationResult, error) {
	if r.pool == nil {
		return domain.MutationResult{}, domain.ErrUninitialized
	}

	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO cart (title, price, description) VALUES ($1, $2, $3) RETURNING id`,
		nullTitle(item.Title), nullFloat(item.Price), nullString(item.Description),
	).Scan(&id)
	if err != nil {
		return domain.MutationResult{}, storeError("pool.AddItem", err)
	}

	return domain.MutationResult{LastInsertID: id, RowsAffected: 1}, nil
}

func (r *pgCartRepository) ListItems(ctx context.Context) ([]domain.CartItem, error) {
	if r.pool == nil {
		return nil, domain.ErrUninitialized
	}

	rows, err := r.pool.Query(ctx, `SELECT id, title, price, description FROM cart ORDER BY id`)
	if err != nil {
		return nil, storeError("pool.ListItems", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CartItem, error) {
		var (
			item        domain.CartItem
			price       *float64
			description *string
		)
		if err := row.Scan(&item.ID, &item.Title, &price, &description); err != nil {
			return domain.CartItem{}, err
		}
		if price != nil {
			item.Price = domain.NewPrice(decimal.NewFromFloat(*price))
		}
		item.Description = description
		return item, nil
	})
	if err != nil {
		return nil, storeError("pgx.CollectRows", err)
	}

	if items == nil {
		items = []domain.CartItem{}
	}

	return items, nil
}

func (r *pgCartRepository) UpdatePrice(ctx context.Context, id int64, price decimal.Decimal) (domain.MutationResult, error) {
	return r.exec(ctx, "pool.UpdatePrice", `UPDATE cart SET price = $1 WHERE id = $2`, price.InexactFloat64(), id)
}

func (r *pgCartRepository) DeleteItem(ctx context.Context, id int64) (domain.MutationResult, error) {
	return r.exec(ctx, "pool.DeleteItem", `DELETE FROM cart WHERE id = $1`, id)
}

func (r *pgCartRepository) DeleteAll(ctx context.Context) (domain.MutationResult, error) {
	return r.exec(ctx, "pool.DeleteAll", `DELETE FROM cart`)
}

func (r *pgCartRepository) exec(ctx context.Context, op, query string, args ...any) (domain.MutationResult, error) {
	if r.pool == nil {
		return domain.MutationResult{}, domain.ErrUninitialized
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return domain.MutationResult{}, storeError(op, err)
	}

	return domain.MutationResult{RowsAffected: tag.RowsAffected()}, nil
}
