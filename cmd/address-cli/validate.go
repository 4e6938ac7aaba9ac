package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"address-validator/internal/app"
	"address-validator/internal/models"
	validateaddress "address-validator/internal/resolvers/address/validate-address"
)

var errAddressInvalid = errors.New("address did not validate")

func newValidateCmd() *cobra.Command {
	var input validateaddress.Input

	cmd := &cobra.Command{
		Use:   "validate [postcode suburb state]",
		Short: "Check that a postcode, suburb and state belong together",
		Example: `  address-cli validate 2000 Sydney NSW
  address-cli validate --postcode 3000 --suburb Melbourne --state VIC`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 3 {
				return fmt.Errorf("expected postcode, suburb and state, got %d arguments", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 3 {
				input = validateaddress.Input{Postcode: args[0], Suburb: args[1], State: args[2]}
			}
			return runValidate(cmd, input)
		},
	}

	cmd.Flags().StringVar(&input.Postcode, "postcode", "", "Postcode, e.g. 2000")
	cmd.Flags().StringVar(&input.Suburb, "suburb", "", "Suburb or locality name")
	cmd.Flags().StringVar(&input.State, "state", "", "State code, e.g. NSW")

	return cmd
}

func runValidate(cmd *cobra.Command, input validateaddress.Input) error {
	return withApp(func(a *app.App) error {
		result := a.Validator.Execute(cmd.Context(), &input)
		if err := writeValidation(cmd.OutOrStdout(), result, globalJSON); err != nil {
			return err
		}
		if !result.IsValid() {
			return errAddressInvalid
		}
		return nil
	})
}

func writeValidation(w io.Writer, result *models.ValidationResult, asJSON bool) error {
	if asJSON {
		return printJSON(w, result)
	}
	_, err := fmt.Fprintf(w, "%s: %s\n", result.Outcome, result.Message)
	return err
}
