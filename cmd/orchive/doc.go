// Package main hosts the orchive CLI entrypoint and command graph.
//
// The Cobra-based command tree drives the two pipeline stages: transcribe
// walks the archive and writes one transcript per channel unit into a fresh
// run directory, annotate reads a run directory back and writes the enriched
// summary table. run chains both. runs and doctor expose the SQLite ledger and
// the preflight checks.
//
// Keep this package lean: configuration resolution, logger setup and ledger
// access are centralized in commandContext so subcommands only wire the
// internal packages together and render results.
package main
