package observe

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/weave/internal/git"
	"git.home.luguber.info/inful/weave/internal/util/sets"
)

// Git reports the directories touched by the commit at HEAD of the repository
// rooted at Directory.
type Git struct {
	Directory string
	detector  *git.ChangeDetector
}

// NewGit creates a git observer logging through logger.
func NewGit(directory string, logger *slog.Logger) *Git {
	return &Git{
		Directory: directory,
		detector:  git.NewChangeDetector(git.WithLogger(logger)),
	}
}

func (g *Git) Observe(ctx context.Context) (sets.Set[string], error) {
	return g.detector.Detect(ctx, g.Directory)
}
