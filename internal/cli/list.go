package cli

import (
	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show every book in the catalog",
		Long: `Show every book in the catalog in the order it was added.

Text output prints one book per line; JSON output returns the catalog
records exactly as stored.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}

	return cmd
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	sess, err := openSession(opts, cmd)
	if err != nil {
		return formatter.Fail(err)
	}
	defer sess.Close()

	books := sess.store.All()
	text := msgEmpty
	if len(books) > 0 {
		text = renderBooks(books)
	}
	return formatter.Emit(nonNil(books), text)
}
