// Package ledger records transcription run history in SQLite.
//
// Every run gets a row in runs, every persisted unit a row in units and every
// failed file a row in failures. The schema is versioned; opening a database
// created with a different version fails with ErrSchemaMismatch.
package ledger
