package repository

import (
	"context"
	"database/sql"

	"github.com/nikolayk812/sqlite-cart/internal/db"
	"github.com/nikolayk812/sqlite-cart/internal/domain"
	"github.com/nikolayk812/sqlite-cart/internal/port"
	"github.com/shopspring/decimal"
)

type cartRepository struct {
	q *db.Queries
}

// NewCart returns a repository backed by an SQLite handle from storage.OpenSQLite.
// A nil handle yields a repository whose every call fails with domain.ErrUninitialized.
func NewCart(conn *sql.DB) port.CartRepository {
	if conn == nil {
		return &cartRepository{}
	}

	return &cartRepository{
		q: db.New(conn),
	}
}

// NewCartWithTx scopes a repository to an open transaction. Used by tests
// and diagnostics that need to roll writes back.
func NewCartWithTx(tx *sql.Tx) port.CartRepository {
	return &cartRepository{
		q: db.New(tx),
	}
}

func (r *cartRepository) AddItem(ctx context.Context, item domain.CartItem) (domain.MutationResult, error) {
	if r.q == nil {
		return domain.MutationResult{}, domain.ErrUninitialized
	}

	result, err := r.q.AddItem(ctx, db.AddItemParams{
		Title:       nullTitle(item.Title),
		Price:       nullFloat(item.Price),
		Description: nullString(item.Description),
	})
	if err != nil {
		return domain.MutationResult{}, storeError("q.AddItem", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.MutationResult{}, storeError("result.LastInsertId", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.MutationResult{}, storeError("result.RowsAffected", err)
	}

	return domain.MutationResult{LastInsertID: id, RowsAffected: rowsAffected}, nil
}

func (r *cartRepository) ListItems(ctx context.Context) ([]domain.CartItem, error) {
	if r.q == nil {
		return nil, domain.ErrUninitialized
	}

	rows, err := r.q.ListItems(ctx)
	if err != nil {
		return nil, storeError("q.ListItems", err)
	}

	return mapCartRowsToDomain(rows), nil
}

func (r *cartRepository) UpdatePrice(ctx context.Context, id int64, price decimal.Decimal) (domain.MutationResult, error) {
	if r.q == nil {
		return domain.MutationResult{}, domain.ErrUninitialized
	}

	rowsAffected, err := r.q.UpdatePrice(ctx, db.UpdatePriceParams{
		Price: nullFloat(domain.NewPrice(price)),
		ID:    id,
	})
	if err != nil {
		return domain.MutationResult{}, storeError("q.UpdatePrice", err)
	}

	return domain.MutationResult{RowsAffected: rowsAffected}, nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, id int64) (domain.MutationResult, error) {
	if r.q == nil {
		return domain.MutationResult{}, domain.ErrUninitialized
	}

	rowsAffected, err := r.q.DeleteItem(ctx, id)
	if err != nil {
		return domain.MutationResult{}, storeError("q.DeleteItem", err)
	}

	return domain.MutationResult{RowsAffected: rowsAffected}, nil
}

func (r *cartRepository) DeleteAll(ctx context.Context) (domain.MutationResult, error) {
	if r.q == nil {
		return domain.MutationResult{}, domain.ErrUninitialized
	}

	rowsAffected, err := r.q.DeleteAll(ctx)
	if err != nil {
		return domain.MutationResult{}, storeError("q.DeleteAll", err)
	}

	return domain.MutationResult{RowsAffected: rowsAffected}, nil
}

// nullTitle maps an empty title to NULL so the NOT NULL column rejects it.
func nullTitle(title string) sql.NullString {
	return sql.NullString{String: title, Valid: title != ""}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFloat(d decimal.NullDecimal) sql.NullFloat64 {
	if !d.Valid {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: d.Decimal.InexactFloat64(), Valid: true}
}

func mapCartRowToDomain(row db.Cart) domain.CartItem {
	item := domain.CartItem{
		ID:    row.ID,
		Title: row.Title,
	}

	if row.Price.Valid {
		item.Price = domain.NewPrice(decimal.NewFromFloat(row.Price.Float64))
	}

	if row.Description.Valid {
		description := row.Description.String
		item.Description = &description
	}

	return item
}

func mapCartRowsToDomain(rows []db.Cart) []domain.CartItem {
	items := make([]domain.CartItem, 0, len(rows))

	for _, row := range rows {
		items = append(items, mapCartRowToDomain(row))
	}

	return items
}
