// Package kv provides the simple key-value persistence facematch keeps
// its album list and small UI state in.
//
// Two backends implement Store:
//   - FileStore: one JSON object file, rewritten whole on every change
//   - SQLiteStore: a two-column SQLite table (modernc.org/sqlite)
//
// # Usage
//
//	store, err := kv.Open(kv.BackendSQLite, "/home/me/.facematch/store.db")
//	defer store.Close()
//
//	err = store.Set(ctx, "albums", `[]`)
//	v, ok, err := store.Get(ctx, "albums")
//	err = store.Clear(ctx) // drops every key
package kv
