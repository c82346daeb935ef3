// Package album persists named match sets.
//
// # Store
//
// Store is the album list kept as one JSON array under the "albums" key
// of a kv.Store. Every read and write covers the whole list:
//
//	store := album.NewStore(kvStore, logger)
//	albums, _ := store.List(ctx)          // [] when nothing was saved
//	err := store.Append(ctx, a)           // *DuplicateNameError on name clash
//	err = store.RemoveByName(ctx, "Beach") // no-op if absent
//	err = store.ClearAll(ctx)             // wipes the whole kv.Store
//
// # RecordStore
//
// RecordStore implements the same Repository with one SQLite row per
// album, giving per-record atomicity:
//
//	records, err := album.NewRecordStore("/home/me/.facematch/albums.db", logger)
package album
