package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/dreamlog"
	"github.com/aretw0/dreamlog/pkg/config"
	"github.com/aretw0/dreamlog/pkg/core"
)

// loadConfig resolves settings from --config, a dreamlog.yaml found above the
// working directory, the environment and finally the persistent flags.
func loadConfig() (config.Config, string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, "", fmt.Errorf("get working directory: %w", err)
	}

	path := configPath
	root := wd
	if path == "" {
		if found, err := dreamlog.FindRoot(wd); err == nil {
			root = found
			candidate := filepath.Join(found, dreamlog.ConfigFile)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, "", err
	}

	if adapterName != "" {
		cfg.Adapter = adapterName
		if err := cfg.Validate(); err != nil {
			return config.Config{}, "", err
		}
	}

	dir := dataDir
	if dir == "" {
		dir = cfg.Dir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}
	}
	return cfg, dir, nil
}

// openJournal builds the service for a command.
func openJournal() (*core.Service, config.Config, error) {
	cfg, dir, err := loadConfig()
	if err != nil {
		return nil, config.Config{}, err
	}

	opts, err := cfg.Options()
	if err != nil {
		return nil, config.Config{}, err
	}
	opts = append(opts, dreamlog.WithLogger(slog.Default()))

	svc, err := dreamlog.New(dir, opts...)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("open journal: %w", err)
	}
	slog.Debug("journal opened", "adapter", cfg.Adapter, "dir", dir, "key", svc.Key())
	return svc, cfg, nil
}

// describe turns domain errors into short user-facing messages.
func describe(err error) error {
	switch {
	case errors.Is(err, core.ErrValidation):
		return fmt.Errorf("invalid dream: %w", err)
	case errors.Is(err, core.ErrCorrupt):
		return fmt.Errorf("%w (run `dreamlog reset --yes` to start over)", err)
	default:
		return err
	}
}
