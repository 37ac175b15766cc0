// Package observe produces the set of directories a run should consider.
//
// Two observers exist: Git compares HEAD with its first parent and ScanAll
// reports every directory below a root. Both return paths relative to their
// root, with "." standing for the root itself.
package observe

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/weave/internal/config"
	"git.home.luguber.info/inful/weave/internal/foundation/errors"
	"git.home.luguber.info/inful/weave/internal/util/sets"
)

// Observer yields a set of changed directories.
type Observer interface {
	Observe(ctx context.Context) (sets.Set[string], error)
}

// ForMode returns the observer for mode rooted at directory.
func ForMode(mode config.Mode, directory string, logger *slog.Logger) (Observer, error) {
	switch mode {
	case config.ModeCI, "":
		return NewGit(directory, logger), nil
	case config.ModeAll:
		return &ScanAll{Directory: directory, Logger: logger}, nil
	default:
		return nil, errors.ConfigError("unknown observation mode").
			WithContext("mode", string(mode)).
			WithContext("valid", config.ValidModes()).
			Build()
	}
}
