// Package view holds the headless cart screen: it reloads the cart when the
// screen gains focus, forwards remove and clear actions to the store and keeps
// per-line quantities in memory only.
package view

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nikolayk812/sqlite-cart/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const (
	EmptyMessage    = "Your cart is empty"
	CheckoutMessage = "Checkout is coming soon"
)

// Store is the part of the gateway the cart screen needs.
type Store interface {
	ListItems(ctx context.Context) ([]domain.CartItem, error)
	DeleteItem(ctx context.Context, id int64) (domain.MutationResult, error)
	DeleteAll(ctx context.Context) (domain.MutationResult, error)
}

type State int

const (
	StateLoading State = iota
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Line is a fetched cart item plus its transient quantity.
type Line struct {
	Item     domain.CartItem
	Quantity int
}

// Cart is not safe for concurrent use; it belongs to the UI loop.
type Cart struct {
	store     Store
	logger    *slog.Logger
	unit      currency.Unit
	sessionID uuid.UUID

	state State
	lines []Line
}

type Option func(*Cart)

func WithCurrency(unit currency.Unit) Option {
	return func(c *Cart) {
		c.unit = unit
	}
}

func New(store Store, logger *slog.Logger, opts ...Option) *Cart {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Cart{
		store:     store,
		unit:      currency.USD,
		sessionID: uuid.New(),
		state:     StateLoading,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logger.With("view", "cart", "session", c.sessionID.String())

	return c
}

func (c *Cart) State() State {
	return c.state
}

// Lines returns a copy of the rendered lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Focus reloads the cart. Quantities reset to 1. On failure the previous
// lines stay on screen.
func (c *Cart) Focus(ctx context.Context) {
	c.state = StateLoading

	items, err := c.store.ListItems(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "error fetching cart items", "error", err)
		c.state = StateLoaded
		return
	}

	lines := make([]Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, Line{Item: item, Quantity: 1})
	}

	c.lines = lines
	c.state = StateLoaded
}

func (c *Cart) Remove(ctx context.Context, id int64) {
	if _, err := c.store.DeleteItem(ctx, id); err != nil {
		c.logger.ErrorContext(ctx, "error removing item from cart", "id", id, "error", err)
		return
	}

	c.Focus(ctx)
}

func (c *Cart) Clear(ctx context.Context) {
	if _, err := c.store.DeleteAll(ctx); err != nil {
		c.logger.ErrorContext(ctx, "error clearing cart", "error", err)
		return
	}

	c.lines = nil
}

func (c *Cart) Increase(id int64) {
	c.adjust(id, 1)
}

// Decrease never takes a quantity below 1.
func (c *Cart) Decrease(id int64) {
	c.adjust(id, -1)
}

func (c *Cart) adjust(id int64, delta int) {
	for i := range c.lines {
		if c.lines[i].Item.ID == id {
			c.lines[i].Quantity = max(c.lines[i].Quantity+delta, 1)
		}
	}
}

// Checkout has no persisted effect.
func (c *Cart) Checkout() string {
	c.logger.Info("checkout requested", "lines", len(c.lines))
	return CheckoutMessage
}

// Total sums priced lines times their quantity.
func (c *Cart) Total() domain.Money {
	total := decimal.Zero
	for _, line := range c.lines {
		if !line.Item.Price.Valid {
			continue
		}
		total = total.Add(line.Item.Price.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return domain.Money{Amount: total, Currency: c.unit}
}

func (c *Cart) Render(w io.Writer) error {
	if c.state == StateLoading {
		_, err := fmt.Fprintln(w, "Loading...")
		return err
	}

	if c.Empty() {
		_, err := fmt.Fprintln(w, EmptyMessage)
		return err
	}

	if _, err := fmt.Fprintf(w, "Items in cart: %d\n", len(c.lines)); err != nil {
		return err
	}

	for _, line := range c.lines {
		price := "n/a"
		if line.Item.Price.Valid {
			price = domain.Money{Amount: line.Item.Price.Decimal, Currency: c.unit}.String()
		}

		if _, err := fmt.Fprintf(w, "[%d] %s\n    %s x %d\n", line.Item.ID, line.Item.Title, price, line.Quantity); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Total: %s\n", c.Total())
	return err
}
