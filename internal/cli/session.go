package cli

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/shelf/internal/audit"
	"github.com/roach88/shelf/internal/catalog"
	"github.com/roach88/shelf/internal/config"
)

// SessionIDGenerator produces the id tagged on every audit record of a run.
type SessionIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 session ids.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// session is everything one command run needs: resolved config, the audit
// sink and the loaded catalog.
type session struct {
	id     string
	cfg    config.Config
	sink   *audit.Sink
	logger *slog.Logger
	store  *catalog.Store
}

// openSession resolves config, opens the audit log and loads the catalog.
// Catalog load problems never fail here; they are reported on stderr by
// the store itself.
func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	cfgPath, required := opts.ConfigPath, true
	if cfgPath == "" {
		cfgPath, required = config.DefaultConfigFile, false
	}
	cfg, err := config.Load(cfgPath, required)
	if err != nil {
		return nil, &OpError{Code: ErrCodeConfig, Message: "failed to load config", Exit: ExitCommandError, Err: err}
	}
	if opts.CatalogPath != "" {
		cfg.CatalogPath = opts.CatalogPath
	}
	if opts.LogPath != "" {
		cfg.LogPath = opts.LogPath
	}

	level, err := audit.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, &OpError{Code: ErrCodeConfig, Message: "failed to load config", Exit: ExitCommandError, Err: err}
	}
	auditOpts := audit.Options{Level: level, Now: opts.Now}
	if opts.Verbose {
		auditOpts.Level = slog.LevelDebug
		auditOpts.Console = cmd.ErrOrStderr()
	}
	sink, err := audit.Open(cfg.LogPath, auditOpts)
	if err != nil {
		return nil, &OpError{Code: ErrCodeConfig, Message: "failed to open audit log", Exit: ExitCommandError, Err: err}
	}

	gen := opts.SessionGen
	if gen == nil {
		gen = UUIDv7Generator{}
	}
	id := gen.Generate()
	logger := sink.Logger().With("session", id)
	logger.Debug("session started", "command", cmd.Name(), "catalog", cfg.CatalogPath)

	store := catalog.New(cfg.CatalogPath,
		catalog.WithLogger(logger),
		catalog.WithConsole(cmd.ErrOrStderr()),
	)

	return &session{id: id, cfg: cfg, sink: sink, logger: logger, store: store}, nil
}

// Close closes the audit log.
func (s *session) Close() {
	if err := s.sink.Close(); err != nil {
		slog.Error("error closing audit log", "error", err)
	}
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}
