package port

import (
	"context"

	"github.com/nikolayk812/sqlite-cart/internal/domain"
	"github.com/shopspring/decimal"
)

type CartRepository interface {
	AddItem(ctx context.Context, item domain.CartItem) (domain.MutationResult, error)
	ListItems(ctx context.Context) ([]domain.CartItem, error)
	UpdatePrice(ctx context.Context, id int64, price decimal.Decimal) (domain.MutationResult, error)
	DeleteItem(ctx context.Context, id int64) (domain.MutationResult, error)
	DeleteAll(ctx context.Context) (domain.MutationResult, error)
}
