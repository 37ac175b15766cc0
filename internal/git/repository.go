package git

import (
	stderrors "errors"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// OpenRepository opens the repository rooted exactly at path and verifies that it
// has a working tree and at least one commit.
func OpenRepository(path string) (*git.Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, invalidRepository(path, "not a git repository", err)
	}

	// Bare repositories aren't handled because there is no code on disk to build.
	if _, err := repo.Worktree(); err != nil {
		if stderrors.Is(err, git.ErrIsBareRepository) {
			return nil, invalidRepository(path, ErrBareRepository.Error(), ErrBareRepository)
		}
		return nil, invalidRepository(path, "cannot open working tree", err)
	}

	if _, err := repo.Head(); err != nil {
		if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, invalidRepository(path, ErrEmptyRepository.Error(), ErrEmptyRepository)
		}
		return nil, invalidRepository(path, "cannot resolve HEAD", err)
	}

	return repo, nil
}

// toHostDir converts a slash-separated repository path into the host form of its
// parent directory.
func toHostDir(repoPath string) string {
	return filepath.Dir(filepath.FromSlash(repoPath))
}
