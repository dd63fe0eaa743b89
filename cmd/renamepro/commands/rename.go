package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/renamepro/cmd/renamepro/opts"
	"github.com/walteh/renamepro/pkg/filename"
	"github.com/walteh/renamepro/pkg/job"
	"github.com/walteh/renamepro/pkg/rename"
	"gitlab.com/tozd/go/errors"
)

// revisionAuto asks the revision detector instead of using a literal token.
const revisionAuto = "auto"

// NewRenameCmd creates the rename command
func NewRenameCmd(build opts.Builder) *cobra.Command {
	var (
		destDir     string
		jobFolder   string
		purpose     string
		artworkRef  string
		revisionTok string
		sku         string
		duplicates  string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "rename [globs...]",
		Short: "Rename and move files into a job folder",
		Long: `Rename collects the source files matching the given globs, composes a
canonical name for each one from the job folder's metadata, and moves them
into the destination folder as one undoable batch. It will:
1. Parse job metadata out of the destination folder name
2. Infer the next revision from files already present (with --revision auto)
3. Move every file, applying the duplicate policy per file
4. Journal the finished session`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "rename").Logger().WithContext(ctx)

			ro, err := build(cmd)
			if err != nil {
				return errors.Errorf("initializing: %w", err)
			}

			sources, err := rename.CollectSources(ctx, args, ro.Config.IgnorePatterns)
			if err != nil {
				return errors.Errorf("collecting sources: %w", err)
			}
			if len(sources) == 0 {
				return errors.Errorf("no source files matched")
			}

			var usable []string
			for _, check := range rename.ValidateSources(ctx, sources) {
				if !check.OK {
					ro.Reporter.Warning(fmt.Sprintf("%s: %s", check.Path, check.Error))
					continue
				}
				usable = append(usable, check.Path)
			}
			if len(usable) == 0 {
				return errors.Errorf("no usable source files")
			}

			// Relative destinations resolve under the configured job folder
			// base directory when one is set.
			resolved := destDir
			if base := ro.Config.JobFolders.BaseDirectory; base != "" && !filepath.IsAbs(destDir) {
				resolved = filepath.Join(base, destDir)
			}

			absDest, err := filepath.Abs(resolved)
			if err != nil {
				return errors.Errorf("resolving destination: %w", err)
			}

			folderName := jobFolder
			if folderName == "" {
				folderName = filepath.Base(absDest)
			}

			info := job.Parse(ctx, folderName)
			if !info.IsValid() {
				return errors.Errorf("could not extract a job number from %q; pass --job-folder", folderName)
			}

			skuTok := sku
			if skuTok == "" {
				skuTok = info.SKU
			}
			if skuTok != "" && len(ro.Config.ProductSKUs) > 0 && !containsString(ro.Config.ProductSKUs, skuTok) {
				ro.Reporter.Warning(fmt.Sprintf("SKU %q is not in the configured product list", skuTok))
			}

			mode, err := resolveDuplicateMode(ro, duplicates)
			if err != nil {
				return err
			}

			mappings := make([]rename.FileMapping, 0, len(usable))
			for _, src := range usable {
				rev := revisionTok
				if rev == revisionAuto {
					base := filename.Compose(src, info.JobNumber, skuTok, artworkRef, purpose, "")
					base = strings.TrimSuffix(base, filepath.Ext(base))
					rev = ro.Detector.Next(ctx, absDest, base, strings.ToLower(filepath.Ext(src)))
				}
				mappings = append(mappings, rename.FileMapping{
					SourcePath: src,
					DestName:   filename.Compose(src, info.JobNumber, skuTok, artworkRef, purpose, rev),
				})
			}

			ro.Reporter.Header(fmt.Sprintf("renaming %d file(s) for Job #%s", len(mappings), info.JobNumber))

			if ro.Config.ConfirmRename {
				proceed, err := pterm.DefaultInteractiveConfirm.
					WithDefaultText(fmt.Sprintf("Rename %d file(s) into %s?", len(mappings), absDest)).
					Show()
				if err != nil {
					return errors.Errorf("prompting for confirmation: %w", err)
				}
				if !proceed {
					ro.Reporter.Warning("rename cancelled")
					return nil
				}
			}

			bar, err := pterm.DefaultProgressbar.
				WithTotal(len(mappings)).
				WithWriter(cmd.OutOrStdout()).
				WithTitle("renaming").
				Start()
			if err != nil {
				return errors.Errorf("starting progress bar: %w", err)
			}

			onProgress := func(current, total int, destName string) {
				bar.UpdateTitle(destName)
				bar.Increment()
			}

			wait := ro.Executor.ExecuteAsync(ctx, mappings, absDest, info.JobNumber, mode, onProgress, nil)
			session, err := wait()
			bar.Stop()
			if err != nil {
				return errors.Errorf("executing batch: %w", err)
			}

			ro.Reporter.Session(session)

			if err := ro.Journal.Append(ctx, session); err != nil {
				ro.Reporter.Warning(fmt.Sprintf("could not journal session: %v", err))
			}

			if session.SuccessCount() > 0 {
				rememberJobFolder(ctx, ro, folderName)
			}

			if interactive {
				runInteractiveLoop(cmd, ro)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&destDir, "dest", ".", "destination job folder")
	cmd.Flags().StringVar(&jobFolder, "job-folder", "", "job folder name to parse (defaults to destination basename)")
	cmd.Flags().StringVar(&purpose, "purpose", "", "file purpose token (e.g. PROOF, PRINT)")
	cmd.Flags().StringVar(&artworkRef, "artwork-ref", "", "artwork reference, rendered in parentheses")
	cmd.Flags().StringVar(&revisionTok, "revision", revisionAuto, "revision token, or 'auto' to infer from existing files")
	cmd.Flags().StringVar(&sku, "sku", "", "product SKU (overrides the one parsed from the folder name)")
	cmd.Flags().StringVar(&duplicates, "duplicates", "", "duplicate policy: ask, skip, increment or overwrite")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "stay open for undo/redo after the batch")

	return cmd
}

// resolveDuplicateMode turns the flag (or configured) mode into a concrete
// policy. "ask" is resolved here with an interactive prompt so the executor
// only ever sees skip, increment or overwrite.
func resolveDuplicateMode(ro *opts.RootOpts, flagValue string) (rename.DuplicateMode, error) {
	raw := flagValue
	if raw == "" {
		raw = ro.Config.Duplicates.Mode
	}

	mode, err := rename.ParseDuplicateMode(raw)
	if err != nil {
		return "", errors.Errorf("parsing duplicate mode: %w", err)
	}

	if mode != rename.DuplicateAsk {
		return mode, nil
	}

	choice, err := pterm.DefaultInteractiveSelect.
		WithOptions([]string{string(rename.DuplicateSkip), string(rename.DuplicateIncrement), string(rename.DuplicateOverwrite)}).
		WithDefaultText("A destination file may already exist. How should duplicates be handled?").
		Show()
	if err != nil {
		return "", errors.Errorf("prompting for duplicate mode: %w", err)
	}

	return rename.DuplicateMode(choice), nil
}

// rememberJobFolder puts the folder at the front of the recent list and
// persists it when a YAML config file is actually present on disk.
func rememberJobFolder(ctx context.Context, ro *opts.RootOpts, folderName string) {
	ro.Config.RememberFolder(folderName)

	if _, err := os.Stat(ro.ConfigPath); err != nil {
		return
	}

	if err := ro.Config.Save(ctx, ro.ConfigPath); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", ro.ConfigPath).Msg("could not persist recent folders")
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// runInteractiveLoop reads undo/redo commands from stdin until "done". The
// ledger only lives for this process, so this loop is the sole window in
// which a CLI batch can be reverted.
func runInteractiveLoop(cmd *cobra.Command, ro *opts.RootOpts) {
	ctx := cmd.Context()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for {
		if desc := ro.Ledger.UndoDescription(); desc != "" {
			ro.Reporter.Infof("%s", desc)
		}
		if desc := ro.Ledger.RedoDescription(); desc != "" {
			ro.Reporter.Infof("%s", desc)
		}
		fmt.Fprint(cmd.OutOrStdout(), "undo/redo/done> ")

		if !scanner.Scan() {
			return
		}

		switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
		case "undo":
			result := ro.Ledger.Undo(ctx)
			if result.OK {
				ro.Reporter.Success(result.Message)
			} else {
				ro.Reporter.Warning(result.Message)
			}
		case "redo":
			result := ro.Ledger.Redo(ctx)
			if result.OK {
				ro.Reporter.Success(result.Message)
			} else {
				ro.Reporter.Warning(result.Message)
			}
		case "done", "quit", "exit", "":
			return
		default:
			ro.Reporter.Warning("unknown command (expected undo, redo or done)")
		}
	}
}
