// Package sqlight provides a thin convenience layer over SQLite.
//
// This package manages:
//   - Connection configuration, direct or loaded from YAML
//   - SQL sources: raw query text or named template files on disk
//   - Row factories mapping engine rows to application record shapes
//   - Single-connection handle lifecycle with explicit transactions
//   - Schema migrations from any fs.FS
//
// It is deliberately not an ORM, query builder, or connection pool.
// The engine's SQL dialect, transaction semantics and locking behaviour
// are inherited unchanged from SQLite.
//
// Usage:
//
//	db, err := sqlight.Open("./data/app.db",
//	    sqlight.WithTemplatesDir("./sql"),
//	    sqlight.WithRowFactory(sqlight.RecordFactory),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	row, err := db.FetchOne(ctx, sqlight.Template("get_user_by_id.sql"), 3)
//
// Transaction Model:
//
// With autocommit disabled (the default), statements accumulate in a
// transaction that is begun lazily, committed by Commit, and rolled
// back when the handle is closed. With autocommit enabled every
// statement commits implicitly.
//
// Error Handling:
//
// Failures are classified with sentinel errors (ErrNoTemplateDir,
// ErrTemplateNotFound, ErrConnection, ErrQuery) checkable with
// errors.Is; the engine's native errors stay in the chain. This layer
// performs no recovery or retries.
package sqlight
