package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roach88/shelf/internal/config"
	"github.com/roach88/shelf/internal/testutil"
)

// cliEnv is an isolated catalog and audit log for command tests.
type cliEnv struct {
	t           *testing.T
	catalogPath string
	logPath     string
	clock       *testutil.DeterministicClock
}

// cliRun is the captured outcome of one command execution.
type cliRun struct {
	stdout string
	stderr string
	err    error
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	for _, k := range []string{config.EnvCatalog, config.EnvLog, config.EnvLogLevel} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	return &cliEnv{
		t:           t,
		catalogPath: filepath.Join(dir, "data", "catalog.json"),
		logPath:     filepath.Join(dir, "logs", "app.log"),
		clock:       testutil.NewDeterministicClock(),
	}
}

// run executes the root command with args, feeding stdin to the menu.
func (e *cliEnv) run(stdin string, args ...string) cliRun {
	e.t.Helper()
	return e.runContext(context.Background(), strings.NewReader(stdin), args...)
}

// runContext executes the root command under ctx, reading menu input from in.
func (e *cliEnv) runContext(ctx context.Context, in io.Reader, args ...string) cliRun {
	e.t.Helper()
	opts := &RootOptions{
		SessionGen: testutil.NewFixedSessionGenerator("test-session"),
		Now:        e.clock.Now,
	}
	cmd := newRootCommand(opts)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetIn(in)
	cmd.SetArgs(append([]string{"--catalog", e.catalogPath, "--log", e.logPath}, args...))

	err := cmd.ExecuteContext(ctx)
	return cliRun{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// mustRun executes args and fails the test on error.
func (e *cliEnv) mustRun(args ...string) cliRun {
	e.t.Helper()
	r := e.run("", args...)
	if r.err != nil {
		e.t.Fatalf("%v failed: %v\nstdout: %s", args, r.err, r.stdout)
	}
	return r
}

func (e *cliEnv) readCatalog() string {
	e.t.Helper()
	data, err := os.ReadFile(e.catalogPath)
	if err != nil {
		e.t.Fatalf("ReadFile() failed: %v", err)
	}
	return string(data)
}

func (e *cliEnv) readLog() string {
	e.t.Helper()
	data, err := os.ReadFile(e.logPath)
	if err != nil {
		e.t.Fatalf("ReadFile() failed: %v", err)
	}
	return string(data)
}

// seedDune adds the two Dune books used across tests.
func (e *cliEnv) seedDune() {
	e.t.Helper()
	e.mustRun("add", "Dune", "Frank Herbert", "111")
	e.mustRun("add", "Dune Messiah", "Frank Herbert", "222")
}
