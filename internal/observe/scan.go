package observe

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/weave/internal/foundation/errors"
	"git.home.luguber.info/inful/weave/internal/logfields"
	"git.home.luguber.info/inful/weave/internal/util/sets"
)

// ScanAll treats every directory under Directory as changed.
type ScanAll struct {
	Directory string
	Logger    *slog.Logger

	// fsys replaces os.DirFS(Directory) in tests.
	fsys fs.FS
}

// Observe walks Directory recursively. Entries below the root that cannot be
// read are logged and skipped; .git directories are never descended into. A
// root that cannot be read is a filesystem error.
func (s *ScanAll) Observe(ctx context.Context) (sets.Set[string], error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	fsys := s.fsys
	if fsys == nil {
		root := s.Directory
		if root == "" {
			root = "."
		}
		fsys = os.DirFS(root)
	}

	dirs := sets.New[string]()
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == "." {
				return errors.FileSystemError("cannot read scan root").
					WithCause(walkErr).
					WithContext("directory", s.Directory).
					Build()
			}
			logger.Error("Failed to read directory entry",
				logfields.Directory(filepath.Join(s.Directory, filepath.FromSlash(path))),
				logfields.Error(walkErr))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" && path != "." {
			return fs.SkipDir
		}
		dirs.Add(filepath.FromSlash(path))
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Scanned directories", logfields.Root(s.Directory), logfields.Count(dirs.Len()))
	return dirs, nil
}
