// Package archive locates recordings in an archive tree organised as
// root/year/tape/file and describes each one as an immutable AudioFile.
//
// Paths are decomposed structurally rather than by string slicing: a path that
// does not sit exactly at year/tape/file depth is rejected with
// ErrMalformedInputPath.
package archive
