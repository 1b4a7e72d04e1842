// Package preflight provides readiness checks for the filesystem paths,
// binaries and credentials a transcription run depends on.
//
// The CLI "orchive doctor" command prints every result. "orchive transcribe"
// runs the same checks first and refuses to start when a required check fails,
// so a doomed run never discovers the problem hours into the archive.
//
// Each check is gated by the selected backend; checks for the other backend are skipped.
package preflight
