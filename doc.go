// Package dreamlog is the composition root for the dream journal.
//
// It wires the entry store and the derivation layer in pkg/core to a storage
// adapter chosen at runtime:
//
//   - fs: one file per key in a data directory, written atomically and watchable.
//   - sqlite: a single-table key/value database (modernc.org/sqlite, no cgo).
//   - redis: one redis string per key, for shared journals.
//   - memory: process-local, for tests and throwaway runs.
//
// The whole collection is a single blob under one key ("@dreams" by default),
// encoded as a JSON array. YAML is available through WithCodec.
//
// Usage:
//
//	svc, err := dreamlog.New("./journal",
//		dreamlog.WithAdapter("sqlite"),
//		dreamlog.WithLogger(logger),
//	)
//
//	dream, err := svc.Create(ctx, dreamlog.Draft{Title: "Flying", Content: "..."})
//
//	all, err := svc.List(ctx)
//	view := dreamlog.DeriveView(all, dreamlog.Query{Tag: "lucid", Search: "sea"})
package dreamlog
