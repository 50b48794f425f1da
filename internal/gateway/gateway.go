// Package gateway is the single point of access to persisted cart state.
//
// A Gateway wraps a port.CartRepository and applies the logging policy:
// successful writes are logged at info, writes that touch no rows are logged
// at warn and returned as ordinary results, and failures are logged at error
// and returned to the caller unchanged.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/nikolayk812/sqlite-cart/internal/config"
	"github.com/nikolayk812/sqlite-cart/internal/domain"
	"github.com/nikolayk812/sqlite-cart/internal/port"
	"github.com/nikolayk812/sqlite-cart/internal/repository"
	"github.com/nikolayk812/sqlite-cart/internal/storage"
	"github.com/shopspring/decimal"
)

type Gateway struct {
	repo   port.CartRepository
	logger *slog.Logger
	close  func() error
	closed atomic.Bool
}

// New wraps an already initialized repository. The caller keeps ownership of
// the underlying connection.
func New(repo port.CartRepository, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		repo:   repo,
		logger: logger,
	}
}

// Open initializes the store selected by cfg and returns a Gateway owning its
// connection. Failures are logged and returned.
func Open(ctx context.Context, cfg config.Store, logger *slog.Logger) (*Gateway, error) {
	if logger == nil {
		logger = slog.Default()
	}

	g, err := open(ctx, cfg, logger)
	if err != nil {
		logger.ErrorContext(ctx, "failed to initialize database", "driver", cfg.Driver, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "database initialized successfully", "driver", cfg.Driver)
	return g, nil
}

func open(ctx context.Context, cfg config.Store, logger *slog.Logger) (*Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cfg.Validate: %w", err)
	}

	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := storage.OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("storage.OpenPostgres: %w", err)
		}

		g := New(repository.NewPostgresCart(pool), logger)
		g.close = func() error {
			pool.Close()
			return nil
		}
		return g, nil
	default:
		db, err := storage.OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("storage.OpenSQLite: %w", err)
		}

		g := New(repository.NewCart(db), logger)
		g.close = db.Close
		return g, nil
	}
}

// Close releases the connection opened by Open. Further calls fail with
// domain.ErrUninitialized. Close is safe to call more than once.
func (g *Gateway) Close() error {
	if g == nil || !g.closed.CompareAndSwap(false, true) {
		return nil
	}
	if g.close == nil {
		return nil
	}
	return g.close()
}

// ready logs msg and returns domain.ErrUninitialized when the gateway cannot serve calls.
func (g *Gateway) ready(ctx context.Context, msg string) error {
	if g == nil || g.repo == nil || g.closed.Load() {
		g.log().ErrorContext(ctx, msg, "error", domain.ErrUninitialized)
		return domain.ErrUninitialized
	}
	return nil
}

func (g *Gateway) log() *slog.Logger {
	if g == nil || g.logger == nil {
		return slog.Default()
	}
	return g.logger
}

func (g *Gateway) AddItem(ctx context.Context, item domain.CartItem) (domain.MutationResult, error) {
	if err := g.ready(ctx, "error adding to cart"); err != nil {
		return domain.MutationResult{}, err
	}

	result, err := g.repo.AddItem(ctx, item)
	if err != nil {
		g.logger.ErrorContext(ctx, "error adding to cart", "title", item.Title, "error", err)
		return result, err
	}

	g.logger.InfoContext(ctx, "item added to cart", "id", result.LastInsertID, "changes", result.RowsAffected)
	return result, nil
}

func (g *Gateway) ListItems(ctx context.Context) ([]domain.CartItem, error) {
	if err := g.ready(ctx, "error fetching cart items"); err != nil {
		return nil, err
	}

	items, err := g.repo.ListItems(ctx)
	if err != nil {
		g.logger.ErrorContext(ctx, "error fetching cart items", "error", err)
		return nil, err
	}

	g.logger.DebugContext(ctx, "fetched cart items", "count", len(items))
	return items, nil
}

func (g *Gateway) UpdatePrice(ctx context.Context, id int64, price decimal.Decimal) (domain.MutationResult, error) {
	if err := g.ready(ctx, "error updating cart item"); err != nil {
		return domain.MutationResult{}, err
	}

	result, err := g.repo.UpdatePrice(ctx, id, price)
	if err != nil {
		g.logger.ErrorContext(ctx, "error updating cart item", "id", id, "error", err)
		return result, err
	}

	if result.RowsAffected == 0 {
		g.logger.WarnContext(ctx, "no item found to update", "id", id)
	} else {
		g.logger.InfoContext(ctx, "item updated", "id", id, "price", price.String())
	}
	return result, nil
}

func (g *Gateway) DeleteItem(ctx context.Context, id int64) (domain.MutationResult, error) {
	if err := g.ready(ctx, "error deleting cart item"); err != nil {
		return domain.MutationResult{}, err
	}

	result, err := g.repo.DeleteItem(ctx, id)
	if err != nil {
		g.logger.ErrorContext(ctx, "error deleting cart item", "id", id, "error", err)
		return result, err
	}

	if result.RowsAffected == 0 {
		g.logger.WarnContext(ctx, "no item found to delete", "id", id)
	} else {
		g.logger.InfoContext(ctx, "item deleted", "id", id)
	}
	return result, nil
}

func (g *Gateway) DeleteAll(ctx context.Context) (domain.MutationResult, error) {
	if err := g.ready(ctx, "error clearing the cart"); err != nil {
		return domain.MutationResult{}, err
	}

	result, err := g.repo.DeleteAll(ctx)
	if err != nil {
		g.logger.ErrorContext(ctx, "error clearing the cart", "error", err)
		return result, err
	}

	if result.RowsAffected == 0 {
		g.logger.WarnContext(ctx, "no items found to clear from the cart")
	} else {
		g.logger.InfoContext(ctx, "all items deleted", "changes", result.RowsAffected)
	}
	return result, nil
}
