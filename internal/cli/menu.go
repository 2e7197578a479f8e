package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/shelf/internal/book"
)

// errQuit ends the menu loop: the input ran out or the process was interrupted.
var errQuit = errors.New("quit")

// NewMenuCommand creates the menu command.
func NewMenuCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Open the interactive menu",
		Long: `Open the interactive menu.

The menu reads choices and fields line by line from standard input:
  1. Add Book
  2. Issue Book
  3. Return Book
  4. View All Books
  5. Search Book
  6. Exit

Ctrl-C or end of input also exits. This is what shelf runs when no
subcommand is given.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(rootOpts, cmd)
		},
	}

	return cmd
}

func runMenu(opts *RootOptions, cmd *cobra.Command) error {
	sess, err := openSession(opts, cmd)
	if err != nil {
		return newFormatter(opts, cmd).Fail(err)
	}
	defer sess.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	m := &menu{
		sess:  sess,
		out:   cmd.OutOrStdout(),
		lines: readLines(ctx, cmd.InOrStdin()),
		ctx:   ctx,
	}
	return m.run()
}

// menu is the numbered interactive loop.
type menu struct {
	sess  *session
	out   io.Writer
	lines <-chan string
	ctx   context.Context
}

func (m *menu) run() error {
	for {
		m.printMenu()
		choice, err := m.prompt("Enter choice: ")
		if err != nil {
			return m.quit(err)
		}

		switch choice {
		case "1":
			err = m.addBook()
		case "2":
			err = m.circulate("Issue Book", "Enter ISBN to issue: ", (*session).issueBook, msgIssued)
		case "3":
			err = m.circulate("Return Book", "Enter ISBN to return: ", (*session).returnBook, msgReturned)
		case "4":
			m.viewBooks()
		case "5":
			err = m.searchBook()
		case "6":
			fmt.Fprintln(m.out, "Exiting program. Goodbye!")
			m.sess.logger.Info("program exited by user")
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid choice.")
		}
		if err != nil {
			return m.quit(err)
		}
	}
}

// quit handles end of input and interrupts; neither is an error.
func (m *menu) quit(err error) error {
	if !errors.Is(err, errQuit) {
		return err
	}
	if m.ctx.Err() != nil {
		fmt.Fprintln(m.out, "\nProgram interrupted (Ctrl+C). Exiting safely.")
		m.sess.logger.Warn("program interrupted by user")
		return nil
	}
	fmt.Fprintln(m.out, "\nEnd of input. Goodbye!")
	m.sess.logger.Info("program exited at end of input")
	return nil
}

func (m *menu) printMenu() {
	fmt.Fprint(m.out, `
============================
   LIBRARY MAIN MENU
============================
1. Add Book
2. Issue Book
3. Return Book
4. View All Books
5. Search Book
6. Exit
============================
`)
}

// prompt writes label and waits for the next line.
func (m *menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	select {
	case <-m.ctx.Done():
		return "", errQuit
	case line, ok := <-m.lines:
		if !ok {
			return "", errQuit
		}
		return line, nil
	}
}

func (m *menu) addBook() error {
	fmt.Fprintln(m.out, "\n--- Add New Book ---")
	title, err := m.prompt("Enter title: ")
	if err != nil {
		return err
	}
	author, err := m.prompt("Enter author: ")
	if err != nil {
		return err
	}
	isbn, err := m.prompt("Enter ISBN: ")
	if err != nil {
		return err
	}

	if _, err := m.sess.addBook(title, author, isbn); err != nil {
		m.report(err)
		return nil
	}
	fmt.Fprintln(m.out, msgAdded)
	return nil
}

func (m *menu) circulate(heading, label string, op func(*session, string) (*book.Book, error), done string) error {
	fmt.Fprintf(m.out, "\n--- %s ---\n", heading)
	isbn, err := m.prompt(label)
	if err != nil {
		return err
	}
	if _, err := op(m.sess, isbn); err != nil {
		m.report(err)
		return nil
	}
	fmt.Fprintln(m.out, done)
	return nil
}

func (m *menu) viewBooks() {
	fmt.Fprintln(m.out, "\n--- All Books in Library ---")
	books := m.sess.store.All()
	if len(books) == 0 {
		fmt.Fprintln(m.out, msgEmpty)
		return
	}
	fmt.Fprintln(m.out, renderBooks(books))
}

func (m *menu) searchBook() error {
	fmt.Fprintln(m.out, "\n--- Search Book ---")
	fmt.Fprintln(m.out, "1. By Title")
	fmt.Fprintln(m.out, "2. By ISBN")
	choice, err := m.prompt("Choose option: ")
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		q, err := m.prompt("Enter title keyword: ")
		if err != nil {
			return err
		}
		results := m.sess.store.SearchByTitle(q)
		if len(results) == 0 {
			fmt.Fprintln(m.out, msgNoResult)
			return nil
		}
		fmt.Fprintln(m.out, "\n--- Results ---")
		fmt.Fprintln(m.out, renderBooks(results))
	case "2":
		isbn, err := m.prompt("Enter ISBN: ")
		if err != nil {
			return err
		}
		b, ok := m.sess.store.SearchByISBN(isbn)
		if !ok {
			fmt.Fprintln(m.out, "No book found with that ISBN.")
			return nil
		}
		fmt.Fprintln(m.out, "\n--- Book Found ---")
		fmt.Fprintln(m.out, b)
	default:
		fmt.Fprintln(m.out, "Invalid choice.")
	}
	return nil
}

// report prints a failed operation's message.
func (m *menu) report(err error) {
	var opErr *OpError
	if errors.As(err, &opErr) {
		fmt.Fprintln(m.out, opErr.Message)
		return
	}
	fmt.Fprintln(m.out, err)
}

// readLines feeds trimmed input lines into a channel until EOF or ctx ends,
// so a blocked read never keeps the menu from seeing an interrupt.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
