// Package store opens the connection to the ZenTao database.
//
// The server is strictly read-only and treats the database as an
// externally owned system of record: no migrations, no local state.
// The driver and DSN come from configuration so a MySQL driver can be
// pointed at a live ZenTao installation; the default (and the path the
// tests exercise) is SQLite against an imported snapshot of the zt_*
// tables.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Open opens the database for the given driver and DSN and verifies
// the connection with a ping. The caller owns the returned handle and
// must close it on shutdown.
func Open(driver, dsn string) (*sql.DB, error) {
	db, err := openDB(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s database: %w", driver, err)
	}

	if driver == "sqlite" {
		// Read-only workload; the busy timeout covers concurrent
		// snapshot refreshes done outside this process.
		pragmas := []string{
			"PRAGMA busy_timeout = 5000",
			"PRAGMA foreign_keys = ON",
		}
		for _, p := range pragmas {
			if _, err := db.Exec(p); err != nil {
				db.Close()
				return nil, fmt.Errorf("store: pragma %q: %w", p, err)
			}
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping %s database: %w", driver, err)
	}

	return db, nil
}
