package cli

import (
	"github.com/spf13/cobra"
)

// NewShowCmd creates the show command.
func NewShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show <calculator-id>",
		Short:   "Show a calculator and its input fields",
		Example: `  abacus show loan-payment`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			desc, err := svc.Describe(args[0])
			if err != nil {
				return err
			}
			renderDescriptor(cmd.OutOrStdout(), desc)
			return nil
		},
	}
}
