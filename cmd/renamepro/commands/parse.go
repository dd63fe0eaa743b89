package commands

import (
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/renamepro/cmd/renamepro/opts"
	"github.com/walteh/renamepro/pkg/job"
	"gitlab.com/tozd/go/errors"
)

// NewParseCmd creates the parse command
func NewParseCmd(build opts.Builder) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "parse <folder-name>",
		Short: "Parse a job folder name into its components",
		Long: `Parse extracts job number, customer, company, SKU, quantity and PO number
from a folder name in the Job#_Customer_Company_SKU x Qty_(PO#) format.
Malformed names degrade to partial results; use --strict to fail instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "parse").Logger().WithContext(ctx)

			if _, err := build(cmd); err != nil {
				return errors.Errorf("initializing: %w", err)
			}

			if strict {
				if ok, reason := job.ValidateFolderName(ctx, args[0]); !ok {
					return errors.Errorf("invalid folder name: %s", reason)
				}
			}

			info := job.Parse(ctx, args[0])

			data := pterm.TableData{
				{"Field", "Value"},
				{"Job Number", info.JobNumber},
				{"Customer", info.Customer},
				{"Company", info.Company},
				{"SKU", info.SKU},
				{"Quantity", info.Quantity},
				{"PO Number", info.PONumber},
			}

			return pterm.DefaultTable.
				WithHasHeader().
				WithWriter(cmd.OutOrStdout()).
				WithData(data).
				Render()
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail on names without a numeric job number")

	return cmd
}
