package platform

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aretw0/dreamlog/pkg/adapters/fs"
	"github.com/aretw0/dreamlog/pkg/adapters/memory"
	"github.com/aretw0/dreamlog/pkg/adapters/redis"
	"github.com/aretw0/dreamlog/pkg/adapters/sqlite"
	"github.com/aretw0/dreamlog/pkg/core"
)

// DefaultSQLiteFile is the database created inside the data directory by the sqlite adapter.
const DefaultSQLiteFile = "dreamlog.db"

// Init resolves and initializes the storage adapter selected by the options.
// The 'uri' argument is adapter-specific: the data directory for 'fs' and
// 'sqlite', ignored by 'redis' and 'memory'.
func Init(uri string, opts ...Option) (core.Storage, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initStorage(context.Background(), uri, o)
}

func initStorage(ctx context.Context, uri string, o *options) (core.Storage, error) {
	if o.storage != nil {
		if err := o.storage.Initialize(ctx); err != nil {
			return nil, err
		}
		return o.storage, nil
	}

	var storage core.Storage
	var err error

	switch o.adapter {
	case "fs", "":
		storage = initFS(uri, o)
	case "sqlite":
		storage, err = initSQLite(uri, o)
	case "redis":
		storage = initRedis(o)
	case "memory":
		storage = memory.NewStorage()
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	if err := storage.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize %s adapter: %w", o.adapter, err)
	}

	if o.logger != nil {
		o.logger.Debug("storage initialized", "adapter", o.adapter)
	}
	return storage, nil
}

// resolvePath applies the dev safety rules to a data directory.
func resolvePath(path string, o *options) string {
	tempDir, _ := o.config["temp_dir"].(bool)
	isReadOnly, _ := o.config["read_only"].(bool)
	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	// Read-only runs cannot damage anything, so they see the real path.
	bypassSafety := isReadOnly || !devSafety
	useTemp := tempDir || (IsDevRun() && !bypassSafety)
	resolved := ResolveDataPath(path, useTemp)

	if IsDevRun() && o.logger != nil {
		switch {
		case isReadOnly:
			o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolved)
		case bypassSafety:
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		default:
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		}
	}
	if o.logger != nil && useTemp && resolved != filepath.Clean(path) {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolved)
	}
	return resolved
}

func initFS(path string, o *options) *fs.Storage {
	mustExist, _ := o.config["must_exist"].(bool)
	isReadOnly, _ := o.config["read_only"].(bool)
	ext, _ := o.config["extension"].(string)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	resolved := resolvePath(path, o)

	return fs.NewStorage(fs.Config{
		Path:         resolved,
		Extension:    ext,
		MustExist:    mustExist,
		ReadOnly:     isReadOnly,
		Logger:       o.logger,
		ErrorHandler: errorHandler,
	})
}

func initSQLite(path string, o *options) (*sqlite.Storage, error) {
	isReadOnly, _ := o.config["read_only"].(bool)
	dbPath, _ := o.config["sqlite_path"].(string)

	if dbPath == "" {
		resolved := resolvePath(path, o)
		dbPath = filepath.Join(resolved, DefaultSQLiteFile)
		if !isReadOnly {
			// The directory has to exist before the driver can create the file.
			if err := fs.NewStorage(fs.Config{Path: resolved, Logger: o.logger}).Initialize(context.Background()); err != nil {
				return nil, err
			}
		}
	}

	return sqlite.Open(dbPath, isReadOnly)
}

func initRedis(o *options) *redis.Storage {
	isReadOnly, _ := o.config["read_only"].(bool)
	addr, _ := o.config["redis_addr"].(string)
	password, _ := o.config["redis_password"].(string)
	db, _ := o.config["redis_db"].(int)
	prefix, _ := o.config["redis_prefix"].(string)

	return redis.New(redis.Config{
		Addr:     addr,
		Password: password,
		DB:       db,
		Prefix:   prefix,
		ReadOnly: isReadOnly,
	})
}
