package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/shelf/internal/book"
)

// NewIssueCommand creates the issue command.
func NewIssueCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue <isbn>",
		Short: "Mark a book as issued",
		Long: `Mark the book with the given ISBN as issued and save the catalog.

Fails if no book has that ISBN or the book is already issued.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCirculation(rootOpts, cmd, args[0], (*session).issueBook, msgIssued)
		},
	}

	return cmd
}

// NewReturnCommand creates the return command.
func NewReturnCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "return <isbn>",
		Short: "Mark a book as returned",
		Long: `Mark the book with the given ISBN as available again and save the catalog.

Fails if no book has that ISBN or the book is not issued.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCirculation(rootOpts, cmd, args[0], (*session).returnBook, msgReturned)
		},
	}

	return cmd
}

func runCirculation(opts *RootOptions, cmd *cobra.Command, isbn string, op func(*session, string) (*book.Book, error), done string) error {
	formatter := newFormatter(opts, cmd)

	sess, err := openSession(opts, cmd)
	if err != nil {
		return formatter.Fail(err)
	}
	defer sess.Close()

	b, err := op(sess, isbn)
	if err != nil {
		return formatter.Fail(err)
	}
	return formatter.Emit(b, "✓ "+done)
}
