package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/shelf/internal/export"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Database string
}

// ExportResult is the JSON payload of a successful export.
type ExportResult struct {
	Database string `json:"database"`
	Books    int    `json:"books"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy the catalog into a SQLite database",
		Long: `Copy the catalog into the books table of a SQLite database.

The table is rebuilt on every export; the JSON catalog stays the source
of truth.

Example:
  shelf export --db ./catalog.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return formatter.Fail(err)
	}
	defer sess.Close()

	n, err := export.Write(cmd.Context(), opts.Database, sess.store.All())
	if err != nil {
		sess.logger.Error("catalog export failed", "db", opts.Database, "error", err)
		return formatter.Fail(&OpError{Code: ErrCodeExportFailed, Message: "failed to export catalog", Exit: ExitCommandError, Err: err})
	}
	sess.logger.Info("catalog exported", "db", opts.Database, "books", n)

	return formatter.Emit(
		ExportResult{Database: opts.Database, Books: n},
		fmt.Sprintf("✓ Exported %d book(s) to %s", n, opts.Database),
	)
}
