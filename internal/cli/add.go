package cli

import (
	"github.com/spf13/cobra"
)

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <title> <author> <isbn>",
		Short: "Add a book to the catalog",
		Long: `Add a book to the catalog and save it.

All three fields are required and the ISBN must not already be in the
catalog. New books start out available.

Example:
  shelf add "Dune" "Frank Herbert" 9780441013593`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(rootOpts, cmd, args[0], args[1], args[2])
		},
	}

	return cmd
}

func runAdd(opts *RootOptions, cmd *cobra.Command, title, author, isbn string) error {
	formatter := newFormatter(opts, cmd)

	sess, err := openSession(opts, cmd)
	if err != nil {
		return formatter.Fail(err)
	}
	defer sess.Close()

	b, err := sess.addBook(title, author, isbn)
	if err != nil {
		return formatter.Fail(err)
	}

	formatter.VerboseLog("Catalog %s now holds %d book(s)", sess.store.Path(), sess.store.Len())
	return formatter.Emit(b, "✓ "+msgAdded)
}
