package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shelf/internal/book"
	"github.com/roach88/shelf/internal/export"
)

func TestAddCommand(t *testing.T) {
	env := newCLIEnv(t)

	r := env.run("", "add", "Dune", "Frank Herbert", "111")
	require.NoError(t, r.err)
	assert.Equal(t, "✓ Book added successfully!\n", r.stdout)

	want := `[
    {
        "title": "Dune",
        "author": "Frank Herbert",
        "isbn": "111",
        "issued": false
    }
]`
	assert.Equal(t, want, env.readCatalog())
}

func TestAddCommandTrimsFields(t *testing.T) {
	env := newCLIEnv(t)

	env.mustRun("add", "  Dune ", " Frank Herbert", "111  ")

	r := env.mustRun("--format", "json", "search", "--isbn", "111")
	assert.Contains(t, r.stdout, `"title":"Dune","author":"Frank Herbert","isbn":"111"`)
}

func TestAddCommandJSON(t *testing.T) {
	env := newCLIEnv(t)

	r := env.run("", "--format", "json", "add", "Dune", "Frank Herbert", "111")
	require.NoError(t, r.err)
	assert.Equal(t,
		`{"status":"ok","data":{"title":"Dune","author":"Frank Herbert","isbn":"111","issued":false}}`+"\n",
		r.stdout)
}

func TestAddCommandRejects(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantOut  string
		wantCode int
	}{
		{
			name:     "blank title",
			args:     []string{"add", "  ", "Frank Herbert", "333"},
			wantOut:  "Error [E002]: All fields are required.\n",
			wantCode: ExitFailure,
		},
		{
			name:     "blank isbn",
			args:     []string{"add", "Children of Dune", "Frank Herbert", ""},
			wantOut:  "Error [E002]: All fields are required.\n",
			wantCode: ExitFailure,
		},
		{
			name:     "duplicate isbn",
			args:     []string{"add", "Dune (reprint)", "Frank Herbert", "111"},
			wantOut:  "Error [E003]: A book with this ISBN already exists.\n",
			wantCode: ExitFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newCLIEnv(t)
			env.mustRun("add", "Dune", "Frank Herbert", "111")
			before := env.readCatalog()

			r := env.run("", tt.args...)

			require.Error(t, r.err)
			assert.Equal(t, tt.wantCode, GetExitCode(r.err))
			assert.Equal(t, tt.wantOut, r.stdout)
			assert.Equal(t, before, env.readCatalog(), "catalog must not change")
		})
	}
}

func TestAddCommandArgCount(t *testing.T) {
	env := newCLIEnv(t)

	r := env.run("", "add", "Dune", "Frank Herbert")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "accepts 3 arg(s)")
}

func TestIssueAndReturnCommands(t *testing.T) {
	env := newCLIEnv(t)
	env.seedDune()

	r := env.mustRun("issue", "111")
	assert.Equal(t, "✓ Book issued successfully!\n", r.stdout)

	r = env.run("", "issue", "111")
	require.Error(t, r.err)
	assert.Equal(t, ExitFailure, GetExitCode(r.err))
	assert.Equal(t, "Error [E005]: Book is already issued.\n", r.stdout)

	r = env.mustRun("return", "111")
	assert.Equal(t, "✓ Book returned successfully!\n", r.stdout)

	r = env.run("", "return", "111")
	require.Error(t, r.err)
	assert.Equal(t, ExitFailure, GetExitCode(r.err))
	assert.Equal(t, "Error [E006]: Book is already available.\n", r.stdout)
}

func TestIssueCommandPersists(t *testing.T) {
	env := newCLIEnv(t)
	env.seedDune()

	env.mustRun("issue", "222")

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(env.readCatalog()), &records))
	require.Len(t, records, 2)
	assert.Equal(t, false, records[0]["issued"])
	assert.Equal(t, true, records[1]["issued"])
}

func TestIssueCommandJSON(t *testing.T) {
	env := newCLIEnv(t)
	env.seedDune()

	r := env.mustRun("--format", "json", "issue", "111")

	var resp struct {
		Status string    `json:"status"`
		Data   book.Book `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, book.Book{Title: "Dune", Author: "Frank Herbert", ISBN: "111", Issued: true}, resp.Data)
}

func TestCirculationNotFound(t *testing.T) {
	for _, verb := range []string{"issue", "return"} {
		t.Run(verb, func(t *testing.T) {
			env := newCLIEnv(t)
			env.seedDune()
			before := env.readCatalog()

			r := env.run("", verb, "999")

			require.Error(t, r.err)
			assert.Equal(t, ExitFailure, GetExitCode(r.err))
			assert.Equal(t, "Error [E004]: Book not found.\n", r.stdout)
			assert.Equal(t, before, env.readCatalog())
		})
	}
}

func TestListCommandEmpty(t *testing.T) {
	env := newCLIEnv(t)

	r := env.mustRun("list")
	assert.Equal(t, "Library is empty.\n", r.stdout)
	assert.Equal(t, "[]", env.readCatalog(), "missing catalog is created on first load")

	r = env.mustRun("--format", "json", "list")
	assert.Equal(t, `{"status":"ok","data":[]}`+"\n", r.stdout)
}

func TestListCommandGolden(t *testing.T) {
	env := newCLIEnv(t)
	env.seedDune()
	env.mustRun("issue", "111")

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	r := env.mustRun("list")
	g.Assert(t, "list_text", []byte(r.stdout))

	r = env.mustRun("--format", "json", "ls")
	g.Assert(t, "list_json", []byte(r.stdout))
}

func TestListCommandCorruptedCatalog(t *testing.T) {
	env := newCLIEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(env.catalogPath), 0o755))
	require.NoError(t, os.WriteFile(env.catalogPath, []byte("{not json"), 0o644))

	r := env.mustRun("list")

	assert.Equal(t, "Library is empty.\n", r.stdout)
	assert.Contains(t, r.stderr, "is corrupted. Resetting file.")
	assert.Equal(t, "[]", env.readCatalog())
	assert.Contains(t, env.readLog(), `msg="catalog file corrupted, creating a new one"`)
}

func TestSearchCommandByTitle(t *testing.T) {
	env := newCLIEnv(t)
	env.seedDune()
	env.mustRun("add", "Neuromancer", "William Gibson", "333")

	r := env.mustRun("search", "--title", "DUNE")
	assert.Equal(t,
		"Dune by Frank Herbert (ISBN: 111) - Available\nDune Messiah by Frank Herbert (ISBN: 222) - Available\n",
		r.stdout)

	r = env.mustRun("search", "--title", "foundation")
	assert.Equal(t, "No books found.\n", r.stdout)
}

func TestSearchCommandEmptyTitleMatchesAll(t *testing.T) {
	env := newCLIEnv(t)
	env.seedDune()

	r := env.mustRun("--format", "json", "search", "--title", "")

	var resp struct {
		Data []book.Book `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &resp))
	assert.Len(t, resp.Data, 2)
}

func TestSearchCommandByISBN(t *testing.T) {
	env := newCLIEnv(t)
	env.seedDune()

	r := env.mustRun("search", "--isbn", "222")
	assert.Equal(t, "Dune Messiah by Frank Herbert (ISBN: 222) - Available\n", r.stdout)

	r = env.mustRun("--format", "json", "search", "--isbn", "22")
	assert.Equal(t, `{"status":"ok","data":[]}`+"\n", r.stdout)
}

func TestSearchCommandFlagRules(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"neither", []string{"search"}},
		{"both", []string{"search", "--title", "dune", "--isbn", "111"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newCLIEnv(t)

			r := env.run("", tt.args...)

			require.Error(t, r.err)
			assert.Equal(t, ExitCommandError, GetExitCode(r.err))
			assert.Contains(t, r.stdout, "Error [E009]")
		})
	}
}

func TestExportCommand(t *testing.T) {
	env := newCLIEnv(t)
	env.seedDune()
	env.mustRun("issue", "222")
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	r := env.mustRun("export", "--db", dbPath)
	assert.Equal(t, "✓ Exported 2 book(s) to "+dbPath+"\n", r.stdout)

	books, err := export.Read(context.Background(), dbPath)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "111", books[0].ISBN)
	assert.False(t, books[0].Issued)
	assert.True(t, books[1].Issued)

	assert.Contains(t, env.readLog(), `msg="catalog exported"`)
}

func TestExportCommandJSON(t *testing.T) {
	env := newCLIEnv(t)
	env.seedDune()
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	r := env.mustRun("--format", "json", "export", "--db", dbPath)

	var resp struct {
		Status string       `json:"status"`
		Data   ExportResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &resp))
	assert.Equal(t, ExportResult{Database: dbPath, Books: 2}, resp.Data)
}

func TestExportCommandRequiresDB(t *testing.T) {
	env := newCLIEnv(t)

	r := env.run("", "export")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), `required flag(s) "db" not set`)
}

func TestExportCommandFailure(t *testing.T) {
	env := newCLIEnv(t)
	env.seedDune()
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	r := env.run("", "export", "--db", filepath.Join(blocker, "catalog.db"))

	require.Error(t, r.err)
	assert.Equal(t, ExitCommandError, GetExitCode(r.err))
	assert.Contains(t, r.stdout, "Error [E010]: failed to export catalog")
}

func TestAuditLogRecordsSession(t *testing.T) {
	env := newCLIEnv(t)

	env.mustRun("add", "Dune", "Frank Herbert", "111")
	env.mustRun("issue", "111")

	log := env.readLog()
	assert.Contains(t, log, `level=WARN msg="catalog file not found, creating a new one" session=test-session`)
	assert.Contains(t, log, `msg="book added via cli" session=test-session title=Dune isbn=111`)
	assert.Contains(t, log, `msg="book issued via cli" session=test-session isbn=111`)
	assert.Contains(t, log, "time=2024-01-01T09:00:")
	assert.NotContains(t, log, "level=DEBUG", "debug records need --verbose")
}

func TestVerboseMirrorsLogsToStderr(t *testing.T) {
	env := newCLIEnv(t)

	r := env.mustRun("-v", "--format", "json", "add", "Dune", "Frank Herbert", "111")

	assert.Contains(t, r.stderr, "session started")
	assert.Contains(t, r.stderr, "Catalog "+env.catalogPath+" now holds 1 book(s)")
	assert.Contains(t, env.readLog(), "level=DEBUG")

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &resp), "stdout must stay pure JSON")
}

func TestCirculationJSONErrorKind(t *testing.T) {
	env := newCLIEnv(t)
	env.seedDune()
	env.mustRun("issue", "111")

	tests := []struct {
		args     []string
		wantCode string
		wantKind string
	}{
		{[]string{"issue", "999"}, ErrCodeNotFound, "NOT_FOUND"},
		{[]string{"issue", "111"}, ErrCodeAlreadyIssued, "INVALID_STATE_TRANSITION"},
		{[]string{"return", "222"}, ErrCodeAlreadyAvailable, "INVALID_STATE_TRANSITION"},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			r := env.run("", append([]string{"--format", "json"}, tt.args...)...)
			require.Error(t, r.err)

			var resp struct {
				Status string `json:"status"`
				Error  struct {
					Code    string            `json:"code"`
					Details map[string]string `json:"details"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal([]byte(r.stdout), &resp))
			assert.Equal(t, "error", resp.Status)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, map[string]string{"kind": tt.wantKind}, resp.Error.Details)
		})
	}
}
