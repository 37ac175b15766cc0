package helpers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// SetupTestGitRepo initializes a temporary git repository for testing.
// Returns the repository, its worktree, and the absolute path to the temporary directory.
func SetupTestGitRepo(t *testing.T) (*git.Repository, *git.Worktree, string) {
	t.Helper()

	tempDir := t.TempDir()

	repo, err := git.PlainInit(tempDir, false)
	if err != nil {
		t.Fatalf("failed to initialize git repo: %v", err)
	}

	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}

	return repo, w, tempDir
}

// CommitFiles writes each file (slash-separated path relative to the worktree root)
// with its content, stages it and records a single commit.
func CommitFiles(t *testing.T, w *git.Worktree, root, msg string, files map[string]string) plumbing.Hash {
	t.Helper()

	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
			t.Fatalf("mkdir %s: %v", rel, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
		if _, err := w.Add(rel); err != nil {
			t.Fatalf("stage %s: %v", rel, err)
		}
	}
	return commit(t, w, msg)
}

// RemoveFiles deletes the given paths from the worktree and index and commits the removal.
func RemoveFiles(t *testing.T, w *git.Worktree, msg string, paths ...string) plumbing.Hash {
	t.Helper()

	for _, rel := range paths {
		if _, err := w.Remove(rel); err != nil {
			t.Fatalf("remove %s: %v", rel, err)
		}
	}
	return commit(t, w, msg)
}

func commit(t *testing.T, w *git.Worktree, msg string) plumbing.Hash {
	t.Helper()

	hash, err := w.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Weave Test",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("commit %q: %v", msg, err)
	}
	return hash
}
