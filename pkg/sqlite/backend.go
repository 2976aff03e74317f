// Package sqlite exposes the SQLite KVStore to programs that embed the
// catalog without importing internal packages.
package sqlite

import (
	"github.com/teachingtorch/torch/internal/sqlite"
	"github.com/teachingtorch/torch/pkg/types"
)

// Open attaches a SQLite store keeping its database in dataDir, creating the
// directory if needed. Close the store to release the database.
//
// Example:
//
//	kv, err := sqlite.Open(".torch-db")
//	if err != nil {
//	    return err
//	}
//	defer kv.Close()
//	store := catalog.New(kv, catalog.Options{})
func Open(dataDir string) (types.KVStore, error) {
	b := sqlite.NewBackend()
	if err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir}); err != nil {
		return nil, err
	}
	return b, nil
}
