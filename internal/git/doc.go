// Package git detects which directories changed in a Git working tree.
//
// Detection compares the commit at HEAD with its first parent using go-git and
// coarsens every changed file to its parent directory. Paths in the result are
// relative to the repository root and use the host path separator; the root
// itself is reported as ".".
//
// The package handles:
//   - Repository verification (missing, bare and empty repositories are rejected)
//   - Commit resolution by walking the log from HEAD
//   - Tree diffing between a commit and its first parent
//   - Classified errors for structured handling upstream
package git
