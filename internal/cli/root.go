// Package cli implements the abacus command line, which evaluates catalog
// calculators in-process without a running server.
package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"abacus/internal/calculation/service"
	"abacus/internal/catalog"
	"abacus/internal/registry"
)

// NewRootCmd creates the abacus root command with every subcommand attached.
func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "abacus",
		Short:   "Run catalog calculators from the command line",
		Version: version,
		Long: `abacus evaluates the calculators in the built-in catalog. Every calculation
is validated, computed and analyzed into a Low, Medium or High tier.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewShowCmd())
	cmd.AddCommand(NewCalcCmd())
	return cmd
}

// newService bootstraps a fresh catalog. The CLI does not record usage or
// audit events.
func newService() (*service.Service, error) {
	reg := registry.New()
	if err := catalog.Bootstrap(reg); err != nil {
		return nil, err
	}
	return service.New(reg, service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}
