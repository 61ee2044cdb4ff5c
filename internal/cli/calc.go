package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"abacus/internal/calculator"
	dErrors "abacus/pkg/domain-errors"
)

// NewCalcCmd creates the calc command.
func NewCalcCmd() *cobra.Command {
	var (
		sets    []string
		file    string
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "calc <calculator-id>",
		Short: "Run a calculator",
		Long: `Runs a calculator with inputs from --set flags and an optional YAML file.
--set values override values from the file.`,
		Example: `  abacus calc simple-interest --set amount=10000 --set rate=5 --set time=1
  abacus calc loan-payment --file loan.yaml --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := buildInputs(file, sets)
			if err != nil {
				return err
			}
			svc, err := newService()
			if err != nil {
				return err
			}
			result, err := svc.Evaluate(cmd.Context(), args[0], inputs)
			if err != nil {
				renderFieldErrors(cmd.ErrOrStderr(), err)
				return err
			}
			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			renderResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "input as field=value (repeatable)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file of inputs")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as JSON")
	return cmd
}

// buildInputs merges file inputs with --set pairs. Values stay as text; the
// calculator's binder parses numbers and booleans.
func buildInputs(file string, sets []string) (calculator.Inputs, error) {
	inputs := calculator.Inputs{}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read inputs: %w", err)
		}
		if err := yaml.Unmarshal(data, &inputs); err != nil {
			return nil, fmt.Errorf("parse inputs %s: %w", file, err)
		}
	}
	for _, kv := range sets {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: want field=value", kv)
		}
		inputs[key] = strings.TrimSpace(value)
	}
	return inputs, nil
}

// fieldErrors extracts per-field messages from a validation failure.
func fieldErrors(err error) []dErrors.FieldError {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return de.Fields
	}
	return nil
}
