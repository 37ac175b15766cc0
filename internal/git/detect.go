package git

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/weave/internal/logfields"
	"git.home.luguber.info/inful/weave/internal/util/sets"
)

// ChangeDetector yields the directories touched by the most recent commit.
type ChangeDetector struct {
	logger *slog.Logger
}

// Option configures a ChangeDetector.
type Option func(*ChangeDetector)

// WithLogger sets the logger used for detection progress.
func WithLogger(l *slog.Logger) Option {
	return func(d *ChangeDetector) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewChangeDetector creates a detector. Without options it logs to slog.Default().
func NewChangeDetector(opts ...Option) *ChangeDetector {
	d := &ChangeDetector{logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect returns the set of directories changed between the commit at HEAD and
// its first parent. Paths are relative to repositoryRoot.
func (d *ChangeDetector) Detect(ctx context.Context, repositoryRoot string) (sets.Set[string], error) {
	repo, err := OpenRepository(repositoryRoot)
	if err != nil {
		return nil, err
	}

	commit, err := d.resolveCommit(repo, repositoryRoot)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("Resolved commit for change detection", logfields.Commit(commit.Hash.String()))

	if commit.NumParents() == 0 {
		return nil, detectionFailure(repositoryRoot, "parent", ErrNoParent)
	}
	parent, err := commit.Parent(0)
	if err != nil {
		return nil, detectionFailure(repositoryRoot, "parent", err)
	}

	commitTree, err := commit.Tree()
	if err != nil {
		return nil, detectionFailure(repositoryRoot, "tree", err)
	}
	parentTree, err := parent.Tree()
	if err != nil {
		return nil, detectionFailure(repositoryRoot, "tree", err)
	}

	changes, err := object.DiffTreeWithOptions(ctx, parentTree, commitTree, nil)
	if err != nil {
		return nil, detectionFailure(repositoryRoot, "diff", err)
	}

	dirs := sets.New[string]()
	for _, change := range changes {
		name := change.To.Name
		if name == "" {
			// Deletions carry no new path; the directory that lost the file still changed.
			name = change.From.Name
		}
		dir := toHostDir(name)
		if !dirs.Has(dir) {
			d.logger.Info("Modified directory", logfields.Directory(dir))
		}
		dirs.Add(dir)
	}

	return dirs, nil
}

// resolveCommit walks the log from HEAD and returns the first entry that resolves
// to a commit object, skipping entries that do not.
func (d *ChangeDetector) resolveCommit(repo *git.Repository, repositoryRoot string) (*object.Commit, error) {
	head, err := repo.Head()
	if err != nil {
		return nil, detectionFailure(repositoryRoot, "head", err)
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, detectionFailure(repositoryRoot, "revwalk", err)
	}
	defer iter.Close()

	for {
		entry, err := iter.Next()
		if stderrors.Is(err, io.EOF) {
			return nil, detectionFailure(repositoryRoot, "revwalk", ErrNoCommit)
		}
		if err != nil {
			return nil, detectionFailure(repositoryRoot, "revwalk", err)
		}
		commit, err := repo.CommitObject(entry.Hash)
		// Log yields commits it has already decoded, so this is not expected to
		// fail; the skip is kept so a broken object never aborts the walk.
		if err != nil {
			d.logger.Debug("Skipping unresolvable log entry", logfields.Commit(entry.Hash.String()), logfields.Error(err))
			continue
		}
		return commit, nil
	}
}
