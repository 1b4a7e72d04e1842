// Package workflow coordinates one transcription run end to end.
//
// The Manager runs preflight checks, takes the output-tree lock, sweeps stale
// scratch directories, discovers the archive, opens a timestamped run
// directory and drives the transcription runner over every file while
// mirroring progress into the run ledger. The end of a run is published
// through the notifications service. When requested it annotates the finished
// run directory in the same call.
//
// The CLI is a thin layer over Manager; keep orchestration decisions (run
// status, lock lifetime, ledger bookkeeping) here.
package workflow
