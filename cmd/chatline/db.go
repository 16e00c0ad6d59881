package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"chatline/internal/config"
	"chatline/internal/logging"
	"chatline/internal/scripts"
	"chatline/internal/store"
	"chatline/internal/store/file"
	"chatline/internal/store/postgres"
	"chatline/internal/store/sqlite"
)

var configPath string

type project struct {
	cfg     *config.ProjectConfig
	log     zerolog.Logger
	scripts *scripts.Result
}

func loadProject() (*project, error) {
	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.LogLevel, os.Stderr)
	if err != nil {
		return nil, err
	}
	result, err := scripts.Load(cfg.Scripts)
	if err != nil {
		return nil, err
	}
	for _, item := range result.Errors {
		log.Warn().Err(item).Msg("script not loaded")
	}
	return &project{cfg: cfg, log: log, scripts: result}, nil
}

func (p *project) script(sender string) (scripts.Script, error) {
	s, ok := p.scripts.Find(sender)
	if !ok {
		return scripts.Script{}, fmt.Errorf("no script for sender %q", sender)
	}
	return s, nil
}

// openStore picks the history backend from the DSN scheme and makes sure
// its schema exists.
func openStore(ctx context.Context, dsn string) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch {
	case strings.HasPrefix(dsn, "file://"):
		st, err = file.New(strings.TrimPrefix(dsn, "file://"))
	case strings.HasPrefix(dsn, "sqlite://"):
		st, err = sqlite.New(ctx, dsn)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		st, err = postgres.New(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported store dsn %q", dsn)
	}
	if err != nil {
		return nil, err
	}
	if err := st.EnsureSchema(ctx); err != nil {
		st.Close(ctx)
		return nil, err
	}
	return st, nil
}
