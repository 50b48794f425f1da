package cli

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/nikolayk812/sqlite-cart/internal/config"
	"github.com/nikolayk812/sqlite-cart/internal/domain"
	"github.com/nikolayk812/sqlite-cart/internal/gateway"
	"github.com/nikolayk812/sqlite-cart/internal/logging"
	"github.com/nikolayk812/sqlite-cart/internal/view"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Error codes used in json/yaml error envelopes.
const (
	CodeUsage         = "E001"
	CodeOpen          = "E002"
	CodeConstraint    = "E003"
	CodeStore         = "E004"
	CodeUninitialized = "E005"
)

type itemOutput struct {
	ID          int64   `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Price       *string `json:"price" yaml:"price"`
	Description *string `json:"description" yaml:"description"`
}

type resultOutput struct {
	LastInsertID int64 `json:"last_insert_id,omitempty" yaml:"last_insert_id,omitempty"`
	RowsAffected int64 `json:"rows_affected" yaml:"rows_affected"`
}

func NewInitCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the cart database if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := openGateway(cmd, opts)
			if err != nil {
				return err
			}
			defer g.Close()

			cfg := opts.storeConfig()
			data := map[string]string{"driver": cfg.Driver}
			text := fmt.Sprintf("database initialized (%s)\n", cfg.Driver)
			if cfg.Driver == config.DriverSQLite {
				data["path"] = cfg.Path
				text = fmt.Sprintf("database initialized (%s: %s)\n", cfg.Driver, cfg.Path)
			}
			return opts.formatter(cmd).Success(data, text)
		},
	}
}

func NewAddCommand(opts *RootOptions) *cobra.Command {
	var (
		title       string
		price       string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item to the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			item := domain.CartItem{Title: title}

			if cmd.Flags().Changed("price") {
				amount, err := decimal.NewFromString(price)
				if err != nil {
					return usageError(cmd, opts, fmt.Sprintf("invalid price %q", price), err)
				}
				item.Price = domain.NewPrice(amount)
			}
			if cmd.Flags().Changed("description") {
				item.Description = &description
			}

			g, err := openGateway(cmd, opts)
			if err != nil {
				return err
			}
			defer g.Close()

			result, err := g.AddItem(cmd.Context(), item)
			if err != nil {
				return storeFailure(cmd, opts, "add item", err)
			}

			return opts.formatter(cmd).Success(toResultOutput(result),
				fmt.Sprintf("added item %d\n", result.LastInsertID))
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "item title (required by the store)")
	cmd.Flags().StringVar(&price, "price", "", "item price")
	cmd.Flags().StringVar(&description, "description", "", "item description")

	return cmd
}

func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all items in the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := openGateway(cmd, opts)
			if err != nil {
				return err
			}
			defer g.Close()

			items, err := g.ListItems(cmd.Context())
			if err != nil {
				return storeFailure(cmd, opts, "list items", err)
			}

			out := make([]itemOutput, 0, len(items))
			for _, item := range items {
				out = append(out, toItemOutput(item))
			}

			text, err := itemsTable(out)
			if err != nil {
				return err
			}

			return opts.formatter(cmd).Success(out, text)
		},
	}
}

func NewUpdatePriceCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update-price <id> <price>",
		Short: "Change the price of an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(cmd, opts, args[0])
			if err != nil {
				return err
			}

			price, err := decimal.NewFromString(args[1])
			if err != nil {
				return usageError(cmd, opts, fmt.Sprintf("invalid price %q", args[1]), err)
			}

			g, err := openGateway(cmd, opts)
			if err != nil {
				return err
			}
			defer g.Close()

			result, err := g.UpdatePrice(cmd.Context(), id, price)
			if err != nil {
				return storeFailure(cmd, opts, "update price", err)
			}

			text := fmt.Sprintf("updated item %d\n", id)
			if result.RowsAffected == 0 {
				text = fmt.Sprintf("no item with id %d\n", id)
			}
			return opts.formatter(cmd).Success(toResultOutput(result), text)
		},
	}
}

func NewRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove one item from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(cmd, opts, args[0])
			if err != nil {
				return err
			}

			g, err := openGateway(cmd, opts)
			if err != nil {
				return err
			}
			defer g.Close()

			result, err := g.DeleteItem(cmd.Context(), id)
			if err != nil {
				return storeFailure(cmd, opts, "remove item", err)
			}

			text := fmt.Sprintf("removed item %d\n", id)
			if result.RowsAffected == 0 {
				text = fmt.Sprintf("no item with id %d\n", id)
			}
			return opts.formatter(cmd).Success(toResultOutput(result), text)
		},
	}
}

func NewClearCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every item from the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := openGateway(cmd, opts)
			if err != nil {
				return err
			}
			defer g.Close()

			result, err := g.DeleteAll(cmd.Context())
			if err != nil {
				return storeFailure(cmd, opts, "clear cart", err)
			}

			return opts.formatter(cmd).Success(toResultOutput(result),
				fmt.Sprintf("removed %d items\n", result.RowsAffected))
		},
	}
}

func NewViewCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Render the cart screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			unit, err := config.Config{Currency: opts.Currency}.CurrencyUnit()
			if err != nil {
				return usageError(cmd, opts, "invalid currency", err)
			}

			g, err := openGateway(cmd, opts)
			if err != nil {
				return err
			}
			defer g.Close()

			ctx := cmd.Context()
			cart := view.New(g, logging.FromContext(ctx), view.WithCurrency(unit))
			cart.Focus(ctx)

			var buf bytes.Buffer
			if err := cart.Render(&buf); err != nil {
				return err
			}

			lines := cart.Lines()
			out := make([]itemOutput, 0, len(lines))
			for _, line := range lines {
				out = append(out, toItemOutput(line.Item))
			}
			data := map[string]any{
				"items": out,
				"total": cart.Total().String(),
			}

			return opts.formatter(cmd).Success(data, buf.String())
		},
	}
}

func openGateway(cmd *cobra.Command, opts *RootOptions) (*gateway.Gateway, error) {
	ctx := cmd.Context()

	g, err := gateway.Open(ctx, opts.storeConfig(), logging.FromContext(ctx))
	if err != nil {
		_ = opts.formatter(cmd).Error(CodeOpen, err.Error())
		return nil, WrapExitError(ExitCommandError, "open store", err)
	}
	return g, nil
}

func parseID(cmd *cobra.Command, opts *RootOptions, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, usageError(cmd, opts, fmt.Sprintf("invalid id %q", arg), err)
	}
	return id, nil
}

func usageError(cmd *cobra.Command, opts *RootOptions, message string, err error) error {
	_ = opts.formatter(cmd).Error(CodeUsage, message)
	return WrapExitError(ExitCommandError, message, err)
}

func storeFailure(cmd *cobra.Command, opts *RootOptions, message string, err error) error {
	code := CodeStore
	switch {
	case errors.Is(err, domain.ErrConstraint):
		code = CodeConstraint
	case errors.Is(err, domain.ErrUninitialized):
		code = CodeUninitialized
	}

	_ = opts.formatter(cmd).Error(code, fmt.Sprintf("%s: %v", message, err))
	return WrapExitError(ExitFailure, message, err)
}

func toItemOutput(item domain.CartItem) itemOutput {
	out := itemOutput{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
	}
	if item.Price.Valid {
		price := item.Price.Decimal.String()
		out.Price = &price
	}
	return out
}

func toResultOutput(result domain.MutationResult) resultOutput {
	return resultOutput{
		LastInsertID: result.LastInsertID,
		RowsAffected: result.RowsAffected,
	}
}

func itemsTable(items []itemOutput) (string, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tTITLE\tPRICE\tDESCRIPTION")
	for _, item := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", item.ID, item.Title, orDash(item.Price), orDash(item.Description))
	}

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("tabwriter.Flush: %w", err)
	}
	return buf.String(), nil
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
