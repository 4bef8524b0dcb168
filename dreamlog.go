package dreamlog

import (
	"log/slog"
	"time"

	"github.com/aretw0/dreamlog/internal/platform"
	"github.com/aretw0/dreamlog/pkg/core"
)

// --- Types ---

type (
	Dream    = core.Dream
	Draft    = core.Draft
	Patch    = core.Patch
	Query    = core.Query
	SortKey  = core.SortKey
	Service  = core.Service
	Storage  = core.Storage
	Codec    = core.Codec
	Event    = core.Event
	Mood     = core.Mood
	Tag      = core.Tag
	Category = core.Category
)

const (
	// ConfigFile is the journal configuration file looked up by FindRoot.
	ConfigFile = platform.ConfigFile

	AllTags       = core.AllTags
	SortByCreated = core.SortByCreated
	SortByUpdated = core.SortByUpdated
)

// --- Configuration ---

// Option defines a functional option for configuring dreamlog.
type Option = platform.Option

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStorage injects a custom storage adapter.
func WithStorage(s core.Storage) Option {
	return platform.WithStorage(s)
}

// WithAdapter selects the storage adapter by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithKey overrides the storage key holding the collection.
func WithKey(key string) Option {
	return platform.WithKey(key)
}

// WithCodec sets the blob encoding.
func WithCodec(c core.Codec) Option {
	return platform.WithCodec(c)
}

// WithTagPolicy validates tags before they are written.
func WithTagPolicy(p core.TagPolicy) Option {
	return platform.WithTagPolicy(p)
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return platform.WithClock(clock)
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) Option {
	return platform.WithIDGenerator(fn)
}

// WithStrictDecoding surfaces a corrupt collection as core.ErrCorrupt.
func WithStrictDecoding(strict bool) Option {
	return platform.WithStrictDecoding(strict)
}

// WithReadOnly enables read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist ensures the data directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithDevSafety controls the `go run` sandbox.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithWatcherErrorHandler registers a callback for fs watch loop errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithSQLitePath sets the database file for the sqlite adapter.
func WithSQLitePath(path string) Option {
	return platform.WithSQLitePath(path)
}

// WithRedis configures the redis adapter connection.
func WithRedis(addr, password string, db int) Option {
	return platform.WithRedis(addr, password, db)
}

// --- Factory ---

// New creates a dream journal service.
func New(path string, opts ...Option) (*core.Service, error) {
	return platform.New(path, opts...)
}

// Init initializes a storage adapter explicitly.
func Init(path string, opts ...Option) (core.Storage, error) {
	return platform.Init(path, opts...)
}

// DeriveView builds the ordered, filtered display list.
func DeriveView(entries []core.Dream, q core.Query) []core.Dream {
	return core.DeriveView(entries, q)
}

// --- Safety & Utils ---

// ResolveDataPath determines the actual data directory based on safety rules.
func ResolveDataPath(userPath string, forceTemp bool) string {
	return platform.ResolveDataPath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards for a journal root (.dreamlog or dreamlog.yaml).
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
