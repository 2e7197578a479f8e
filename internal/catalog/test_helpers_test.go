package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/shelf/internal/testutil"
)

// testEnv bundles a store with its captured console and audit output.
type testEnv struct {
	path    string
	console *bytes.Buffer
	logs    *testutil.LogRecorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{
		path:    filepath.Join(t.TempDir(), "data", "catalog.json"),
		console: &bytes.Buffer{},
		logs:    testutil.NewLogRecorder(),
	}
}

func (e *testEnv) open() *Store {
	return New(e.path, WithLogger(e.logs.Logger()), WithConsole(e.console))
}

func (e *testEnv) writeFile(t *testing.T, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(e.path), 0o755); err != nil {
		t.Fatalf("MkdirAll() failed: %v", err)
	}
	if err := os.WriteFile(e.path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
}

func (e *testEnv) readFile(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(e.path)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	return string(data)
}
