package commands

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/renamepro/cmd/renamepro/opts"
	"gitlab.com/tozd/go/errors"
)

// NewRevisionsCmd creates the revisions command
func NewRevisionsCmd(build opts.Builder) *cobra.Command {
	var (
		dir string
		ext string
	)

	cmd := &cobra.Command{
		Use:   "revisions <base-pattern>",
		Short: "Show existing revisions and the suggested next one",
		Long: `Revisions scans a directory for files named <base-pattern>_<N|FINAL>.<ext>
and reports which revision tokens exist plus the one a new file would get.
Without --ext, all common design extensions are scanned.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "revisions").Logger().WithContext(ctx)

			ro, err := build(cmd)
			if err != nil {
				return errors.Errorf("initializing: %w", err)
			}

			basePattern := args[0]
			existing := ro.Detector.Existing(ctx, dir, basePattern, ext)
			next := ro.Detector.Next(ctx, dir, basePattern, ext)

			if len(existing) == 0 {
				ro.Reporter.Infof("no existing revisions for %q in %s", basePattern, dir)
			} else {
				ro.Reporter.Infof("existing revisions: %s", strings.Join(existing, ", "))
			}
			ro.Reporter.Success(fmt.Sprintf("next revision: %s", next))

			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "directory to scan")
	cmd.Flags().StringVar(&ext, "ext", "", "file extension to scan (default: all design extensions)")

	return cmd
}
