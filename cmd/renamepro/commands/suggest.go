package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/renamepro/cmd/renamepro/opts"
	"github.com/walteh/renamepro/pkg/filename"
	"github.com/walteh/renamepro/pkg/job"
	"gitlab.com/tozd/go/errors"
)

// NewSuggestCmd creates the suggest command
func NewSuggestCmd(build opts.Builder) *cobra.Command {
	var (
		jobNumber string
		customer  string
		company   string
		sku       string
		quantity  string
		poNumber  string
	)

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest a canonical job folder name",
		Long: `Suggest builds a folder name in the canonical
Job#_Customer_Company_SKU x Qty_(PO#) format from individual components and
checks that the result is safe on every platform.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "suggest").Logger().WithContext(ctx)

			ro, err := build(cmd)
			if err != nil {
				return errors.Errorf("initializing: %w", err)
			}

			if jobNumber == "" {
				return errors.Errorf("--job is required")
			}

			name := job.SuggestFolderName(jobNumber, customer, company, sku, quantity, poNumber)

			if ok, reason := filename.Validate(name); !ok {
				sanitized := filename.Sanitize(name, "_")
				ro.Reporter.Warning(fmt.Sprintf("suggested name needed sanitizing (%s)", reason))
				name = sanitized
			}

			if ok, reason := job.ValidateFolderName(ctx, name); !ok {
				return errors.Errorf("suggested name does not round-trip: %s", reason)
			}

			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}

	cmd.Flags().StringVar(&jobNumber, "job", "", "job number (required)")
	cmd.Flags().StringVar(&customer, "customer", "", "customer name")
	cmd.Flags().StringVar(&company, "company", "", "company name")
	cmd.Flags().StringVar(&sku, "sku", "", "product SKU")
	cmd.Flags().StringVar(&quantity, "qty", "", "quantity")
	cmd.Flags().StringVar(&poNumber, "po", "", "purchase order number")

	return cmd
}
