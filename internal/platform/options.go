package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/dreamlog/pkg/core"
)

// options holds the internal configuration for the dreamlog service.
type options struct {
	storage core.Storage
	logger  *slog.Logger
	adapter string
	key     string
	codec   core.Codec
	policy  core.TagPolicy
	clock   func() time.Time
	newID   func() string
	config  map[string]interface{}
}

// Option defines a functional option for configuring dreamlog.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "fs",
		key:     core.DefaultKey,
		config:  make(map[string]interface{}),
	}
}

// WithLogger sets the logger for the service and its adapter.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStorage injects a custom storage adapter.
// If provided, the named adapter is skipped.
func WithStorage(s core.Storage) Option {
	return func(o *options) {
		o.storage = s
	}
}

// WithAdapter selects the storage adapter by name: "fs", "sqlite", "redis" or "memory".
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithKey overrides the storage key holding the collection. Defaults to "@dreams".
func WithKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.key = key
		}
	}
}

// WithCodec sets the blob encoding. Defaults to JSON.
func WithCodec(c core.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithTagPolicy validates tags before they are written.
func WithTagPolicy(p core.TagPolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		o.newID = fn
	}
}

// WithStrictDecoding makes an unreadable collection fail with core.ErrCorrupt
// instead of being read as empty.
func WithStrictDecoding(strict bool) Option {
	return func(o *options) {
		o.config["strict"] = strict
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Mutations return core.ErrReadOnly.
// 2. Directory creation is skipped.
// 3. Dev Safety Lock (go run temp dir) is BYPASSED (uses real path).
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithMustExist ensures the data directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or `go test`.
// By default (true), the data directory is re-rooted into a temporary directory.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithExtension sets the file extension used by the fs adapter (".json" by default).
func WithExtension(ext string) Option {
	return func(o *options) {
		o.config["extension"] = ext
	}
}

// WithWatcherErrorHandler registers a callback for errors raised inside the fs watch loop.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithSQLitePath sets the database file for the sqlite adapter.
// Defaults to dreamlog.db inside the data directory; ":memory:" keeps it in memory.
func WithSQLitePath(path string) Option {
	return func(o *options) {
		o.config["sqlite_path"] = path
	}
}

// WithRedis configures the redis adapter connection.
func WithRedis(addr, password string, db int) Option {
	return func(o *options) {
		o.config["redis_addr"] = addr
		o.config["redis_password"] = password
		o.config["redis_db"] = db
	}
}

// WithRedisPrefix sets the namespace prepended to redis keys.
func WithRedisPrefix(prefix string) Option {
	return func(o *options) {
		o.config["redis_prefix"] = prefix
	}
}
