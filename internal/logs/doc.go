// Package logs tails the orchive log file for the CLI.
//
// Tail prints the last N lines with bounded memory and, in follow mode, keeps
// polling for appended lines until the context is canceled. An optional
// substring filter narrows output to lines mentioning a file, unit or
// matriline code.
package logs
