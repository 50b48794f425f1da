package gateway_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/sqlite-cart/internal/config"
	"github.com/nikolayk812/sqlite-cart/internal/domain"
	"github.com/nikolayk812/sqlite-cart/internal/gateway"
	"github.com/nikolayk812/sqlite-cart/internal/logging"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logRecord struct {
	Level string `json:"level"`
	Msg   string `json:"msg"`
}

func records(t *testing.T, buf *bytes.Buffer) []logRecord {
	t.Helper()

	var out []logRecord
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var r logRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r))
		out = append(out, r)
	}
	require.NoError(t, scanner.Err())
	buf.Reset()
	return out
}

func openGateway(t *testing.T) (*gateway.Gateway, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	g, err := gateway.Open(t.Context(), config.Store{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "cart.db"),
	}, logging.New("debug", &buf))
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close() })

	assert.Equal(t, []logRecord{{Level: "INFO", Msg: "database initialized successfully"}}, records(t, &buf))
	return g, &buf
}

func TestGatewayLifecycle(t *testing.T) {
	g, buf := openGateway(t)
	ctx := t.Context()

	added, err := g.AddItem(ctx, domain.CartItem{
		Title: "Shirt",
		Price: domain.NewPrice(decimal.RequireFromString("19.99")),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MutationResult{LastInsertID: 1, RowsAffected: 1}, added)
	assert.Equal(t, []logRecord{{Level: "INFO", Msg: "item added to cart"}}, records(t, buf))

	items, err := g.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Shirt", items[0].Title)
	assert.Nil(t, items[0].Description)
	assert.Equal(t, []logRecord{{Level: "DEBUG", Msg: "fetched cart items"}}, records(t, buf))

	updated, err := g.UpdatePrice(ctx, 1, decimal.RequireFromString("9.99"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated.RowsAffected)
	assert.Equal(t, []logRecord{{Level: "INFO", Msg: "item updated"}}, records(t, buf))

	deleted, err := g.DeleteItem(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted.RowsAffected)
	assert.Equal(t, []logRecord{{Level: "INFO", Msg: "item deleted"}}, records(t, buf))

	items, err = g.ListItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	records(t, buf)
}

func TestGatewayZeroRowsAreWarnings(t *testing.T) {
	g, buf := openGateway(t)
	ctx := t.Context()

	result, err := g.UpdatePrice(ctx, 42, decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.Zero(t, result.RowsAffected)

	result, err = g.DeleteItem(ctx, 42)
	require.NoError(t, err)
	assert.Zero(t, result.RowsAffected)

	result, err = g.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.RowsAffected)

	assert.Equal(t, []logRecord{
		{Level: "WARN", Msg: "no item found to update"},
		{Level: "WARN", Msg: "no item found to delete"},
		{Level: "WARN", Msg: "no items found to clear from the cart"},
	}, records(t, buf))
}

func TestGatewayDeleteAll(t *testing.T) {
	g, buf := openGateway(t)
	ctx := t.Context()

	for i := 0; i < 3; i++ {
		_, err := g.AddItem(ctx, domain.CartItem{Title: gofakeit.ProductName()})
		require.NoError(t, err)
	}
	records(t, buf)

	result, err := g.DeleteAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, result.RowsAffected)
	assert.Equal(t, []logRecord{{Level: "INFO", Msg: "all items deleted"}}, records(t, buf))
}

func TestGatewayConstraintErrorIsLoggedAndReturned(t *testing.T) {
	g, buf := openGateway(t)
	ctx := t.Context()

	_, err := g.AddItem(ctx, domain.CartItem{Price: domain.NewPrice(decimal.NewFromInt(5))})
	require.ErrorIs(t, err, domain.ErrConstraint)

	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "q.AddItem", storeErr.Op)

	assert.Equal(t, []logRecord{{Level: "ERROR", Msg: "error adding to cart"}}, records(t, buf))

	items, err := g.ListItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGatewayReturnsRepositoryErrorUnchanged(t *testing.T) {
	wantErr := &domain.StoreError{Op: "q.ListItems", Kind: domain.ErrStore, Err: errors.New("disk I/O error")}

	var buf bytes.Buffer
	g := gateway.New(failingRepository{err: wantErr}, logging.New("info", &buf))
	ctx := t.Context()

	_, err := g.ListItems(ctx)
	assert.Same(t, wantErr, err)

	_, err = g.AddItem(ctx, domain.CartItem{Title: "Mug"})
	assert.Same(t, wantErr, err)

	_, err = g.UpdatePrice(ctx, 1, decimal.NewFromInt(1))
	assert.Same(t, wantErr, err)

	_, err = g.DeleteItem(ctx, 1)
	assert.Same(t, wantErr, err)

	_, err = g.DeleteAll(ctx)
	assert.Same(t, wantErr, err)

	assert.Equal(t, []logRecord{
		{Level: "ERROR", Msg: "error fetching cart items"},
		{Level: "ERROR", Msg: "error adding to cart"},
		{Level: "ERROR", Msg: "error updating cart item"},
		{Level: "ERROR", Msg: "error deleting cart item"},
		{Level: "ERROR", Msg: "error clearing the cart"},
	}, records(t, &buf))
}

func TestGatewayUninitialized(t *testing.T) {
	closed, _ := openGateway(t)
	require.NoError(t, closed.Close())

	gateways := map[string]*gateway.Gateway{
		"nil":    nil,
		"zero":   {},
		"closed": closed,
	}

	for name, g := range gateways {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()

			_, err := g.AddItem(ctx, domain.CartItem{Title: "Shirt"})
			assert.ErrorIs(t, err, domain.ErrUninitialized)

			_, err = g.ListItems(ctx)
			assert.ErrorIs(t, err, domain.ErrUninitialized)

			_, err = g.UpdatePrice(ctx, 1, decimal.NewFromInt(1))
			assert.ErrorIs(t, err, domain.ErrUninitialized)

			_, err = g.DeleteItem(ctx, 1)
			assert.ErrorIs(t, err, domain.ErrUninitialized)

			_, err = g.DeleteAll(ctx)
			assert.ErrorIs(t, err, domain.ErrUninitialized)

			assert.NoError(t, g.Close())
		})
	}
}

func TestGatewayUninitializedIsLogged(t *testing.T) {
	g, buf := openGateway(t)
	require.NoError(t, g.Close())
	ctx := t.Context()

	_, err := g.AddItem(ctx, domain.CartItem{Title: "Shirt"})
	require.ErrorIs(t, err, domain.ErrUninitialized)
	_, err = g.ListItems(ctx)
	require.ErrorIs(t, err, domain.ErrUninitialized)
	_, err = g.UpdatePrice(ctx, 1, decimal.NewFromInt(1))
	require.ErrorIs(t, err, domain.ErrUninitialized)
	_, err = g.DeleteItem(ctx, 1)
	require.ErrorIs(t, err, domain.ErrUninitialized)
	_, err = g.DeleteAll(ctx)
	require.ErrorIs(t, err, domain.ErrUninitialized)

	assert.Equal(t, []logRecord{
		{Level: "ERROR", Msg: "error adding to cart"},
		{Level: "ERROR", Msg: "error fetching cart items"},
		{Level: "ERROR", Msg: "error updating cart item"},
		{Level: "ERROR", Msg: "error deleting cart item"},
		{Level: "ERROR", Msg: "error clearing the cart"},
	}, records(t, buf))
}

func TestOpenFailureIsLoggedAndReturned(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.Store
		wantError string
	}{
		{
			name:      "unknown driver",
			cfg:       config.Store{Driver: "mysql"},
			wantError: "cfg.Validate",
		},
		{
			name:      "unreachable sqlite path",
			cfg:       config.Store{Driver: config.DriverSQLite, Path: "/nonexistent/dir/cart.db"},
			wantError: "storage.OpenSQLite",
		},
		{
			name:      "postgres without dsn",
			cfg:       config.Store{Driver: config.DriverPostgres},
			wantError: "cfg.Validate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			g, err := gateway.Open(t.Context(), tt.cfg, logging.New("info", &buf))
			require.Error(t, err)
			assert.Nil(t, g)
			assert.Contains(t, err.Error(), tt.wantError)

			assert.Equal(t, []logRecord{{Level: "ERROR", Msg: "failed to initialize database"}}, records(t, &buf))
		})
	}
}

func TestReopenKeepsItems(t *testing.T) {
	ctx := t.Context()
	cfg := config.Store{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "cart.db")}

	g, err := gateway.Open(ctx, cfg, logging.Discard())
	require.NoError(t, err)
	_, err = g.AddItem(ctx, domain.CartItem{Title: "Shirt"})
	require.NoError(t, err)
	require.NoError(t, g.Close())

	g, err = gateway.Open(ctx, cfg, logging.Discard())
	require.NoError(t, err)
	defer g.Close()

	items, err := g.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Shirt", items[0].Title)
}

type failingRepository struct {
	err error
}

func (r failingRepository) AddItem(context.Context, domain.CartItem) (domain.MutationResult, error) {
	return domain.MutationResult{}, r.err
}

func (r failingRepository) ListItems(context.Context) ([]domain.CartItem, error) {
	return nil, r.err
}

func (r failingRepository) UpdatePrice(context.Context, int64, decimal.Decimal) (domain.MutationResult, error) {
	return domain.MutationResult{}, r.err
}

func (r failingRepository) DeleteItem(context.Context, int64) (domain.MutationResult, error) {
	return domain.MutationResult{}, r.err
}

func (r failingRepository) DeleteAll(context.Context) (domain.MutationResult, error) {
	return domain.MutationResult{}, r.err
}
