package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered calculators",
		Example: `  abacus list
  abacus list --category finance`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			descs := svc.List(category)
			if len(descs) == 0 {
				return fmt.Errorf("no calculators in category %q", category)
			}
			renderList(cmd.OutOrStdout(), descs)
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "only list calculators in this category")
	return cmd
}
