package db

import (
	"context"
	"database/sql"
)

const addItem = `
INSERT INTO cart (title, price, description) VALUES (?, ?, ?)
`

type AddItemParams struct {
	Title       sql.NullString
	Price       sql.NullFloat64
	Description sql.NullString
}

func (q *Queries) AddItem(ctx context.Context, arg AddItemParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, addItem, arg.Title, arg.Price, arg.Description)
}

const listItems = `
SELECT id, title, price, description FROM cart ORDER BY id
`

func (q *Queries) ListItems(ctx context.Context) ([]Cart, error) {
	rows, err := q.db.QueryContext(ctx, listItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Cart
	for rows.Next() {
		var i Cart
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Price,
			&i.Description,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updatePrice = `
UPDATE cart SET price = ? WHERE id = ?
`

type UpdatePriceParams struct {
	Price sql.NullFloat64
	ID    int64
}

func (q *Queries) UpdatePrice(ctx context.Context, arg UpdatePriceParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updatePrice, arg.Price, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteItem = `
DELETE FROM cart WHERE id = ?
`

func (q *Queries) DeleteItem(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteItem, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteAll = `
DELETE FROM cart
`

func (q *Queries) DeleteAll(ctx context.Context) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAll)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
