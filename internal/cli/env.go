package cli

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/teachingtorch/torch/internal/catalog"
	"github.com/teachingtorch/torch/internal/paths"
	"github.com/teachingtorch/torch/internal/s3store"
	"github.com/teachingtorch/torch/internal/session"
	"github.com/teachingtorch/torch/internal/storage"
	"github.com/teachingtorch/torch/internal/uploads"
	"github.com/teachingtorch/torch/pkg/sqlite"
	"github.com/teachingtorch/torch/pkg/types"
)

// env is everything a command needs once the backend is open.
type env struct {
	cfg     types.Config
	log     *zap.Logger
	kv      types.KVStore
	catalog *catalog.Store
	session *session.Session
	uploads *uploads.Manager
}

// openEnv loads the configuration, opens the backend and initializes the
// catalog. The caller must call close.
func openEnv(ctx context.Context, flags *rootFlags) (*env, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	cfg, err := loadConfig(configDir, flags.dataDir)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(flags.verbose)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	kv, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}
	log.Debug("backend open", zap.String("backend", cfg.Backend), zap.String("data_dir", cfg.DataDir))

	store := catalog.New(kv, catalog.Options{Logger: log, ResetInterval: cfg.ResetInterval})
	return &env{
		cfg:     cfg,
		log:     log,
		kv:      kv,
		catalog: store,
		session: session.New(kv, store, log),
		uploads: uploads.New(kv, store, uploads.Options{Logger: log}),
	}, nil
}

// close releases the backend and flushes the logger.
func (e *env) close() error {
	err := e.kv.Close()
	_ = e.log.Sync()
	return err
}

// requireAdmin fails unless an admin session is active.
func (e *env) requireAdmin() error {
	if err := e.session.Require(); err != nil {
		return fmt.Errorf("%w: run \"torch login\" first", err)
	}
	return nil
}

// openStore opens the KVStore named by cfg.Backend.
func openStore(ctx context.Context, cfg types.Config) (types.KVStore, error) {
	switch cfg.Backend {
	case types.BackendFile:
		return storage.OpenDir(cfg.DataDir)
	case types.BackendSQLite:
		return sqlite.Open(cfg.DataDir)
	case types.BackendMemory:
		return storage.NewMemory(), nil
	case types.BackendS3:
		return s3store.New(ctx, cfg.S3)
	case "":
		return nil, types.ErrBackendEmpty
	default:
		return nil, fmt.Errorf("%q: %w", cfg.Backend, types.ErrBackendUnknown)
	}
}

// newLogger returns a development logger when verbose is set, otherwise a
// production logger that only reports warnings and errors.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// withEnv opens the environment, runs fn, and closes it, joining any close
// error onto fn's.
func withEnv(ctx context.Context, flags *rootFlags, fn func(*env) error) error {
	e, err := openEnv(ctx, flags)
	if err != nil {
		return err
	}
	return errors.Join(fn(e), e.close())
}

// withAdmin is withEnv for commands that need an admin session.
func withAdmin(ctx context.Context, flags *rootFlags, fn func(*env) error) error {
	return withEnv(ctx, flags, func(e *env) error {
		if err := e.requireAdmin(); err != nil {
			return err
		}
		return fn(e)
	})
}
