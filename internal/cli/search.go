package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/shelf/internal/book"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	Title string
	ISBN  string
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find books by title or ISBN",
		Long: `Find books by title or ISBN.

--title matches any book whose title contains the text, ignoring case.
--isbn matches the one book with exactly that ISBN.
Exactly one of the two must be given.

Examples:
  shelf search --title dune
  shelf search --isbn 9780441013593 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "title keyword (case-insensitive substring)")
	cmd.Flags().StringVar(&opts.ISBN, "isbn", "", "exact ISBN")

	return cmd
}

func runSearch(opts *SearchOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	byTitle := cmd.Flags().Changed("title")
	byISBN := cmd.Flags().Changed("isbn")
	if byTitle == byISBN {
		return formatter.Fail(&OpError{
			Code:    ErrCodeSearchArgs,
			Message: "exactly one of --title or --isbn is required",
			Exit:    ExitCommandError,
		})
	}

	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return formatter.Fail(err)
	}
	defer sess.Close()

	var results []*book.Book
	if byTitle {
		results = sess.store.SearchByTitle(opts.Title)
	} else if b, ok := sess.store.SearchByISBN(opts.ISBN); ok {
		results = []*book.Book{b}
	}

	text := msgNoResult
	if len(results) > 0 {
		text = renderBooks(results)
	}
	return formatter.Emit(nonNil(results), text)
}
