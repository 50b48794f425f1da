package cli

import (
	"fmt"
	"slices"

	"github.com/nikolayk812/sqlite-cart/internal/config"
	"github.com/nikolayk812/sqlite-cart/internal/logging"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format   string // "text" | "json" | "yaml"
	Driver   string
	DBPath   string
	DSN      string
	LogLevel string
	Currency string
}

var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand builds the cart CLI. Flag defaults come from cfg.
func NewRootCommand(cfg config.Config) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "cart",
		Short:         "Local shopping cart",
		Long:          "Manage a shopping cart kept in an embedded SQLite database.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				msg := fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
				return NewExitError(ExitCommandError, msg)
			}

			logger := logging.New(opts.LogLevel, cmd.ErrOrStderr())
			cmd.SetContext(logging.IntoContext(cmd.Context(), logger))
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	flags.StringVar(&opts.Driver, "driver", cfg.Store.Driver, "store driver (sqlite|postgres)")
	flags.StringVar(&opts.DBPath, "db", cfg.Store.Path, "sqlite database path")
	flags.StringVar(&opts.DSN, "dsn", cfg.Store.DSN, "postgres connection string")
	flags.StringVar(&opts.LogLevel, "log-level", cfg.LogLevel, "log level (debug|info|warn|error)")
	flags.StringVar(&opts.Currency, "currency", cfg.Currency, "ISO currency used to display prices")

	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewUpdatePriceCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))
	cmd.AddCommand(NewViewCommand(opts))

	return cmd
}

func (o *RootOptions) storeConfig() config.Store {
	return config.Store{
		Driver: o.Driver,
		Path:   o.DBPath,
		DSN:    o.DSN,
	}
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}
