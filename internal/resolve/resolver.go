// Package resolve maps changed directories to the build units that own them.
//
// Each changed directory is walked upward toward the root until a recognizer
// matches. The walk never leaves the root, so it terminates after at most as
// many steps as the directory is deep.
package resolve

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/weave/internal/buildtool"
	"git.home.luguber.info/inful/weave/internal/foundation"
	"git.home.luguber.info/inful/weave/internal/logfields"
	"git.home.luguber.info/inful/weave/internal/util/sets"
)

// Recognizer turns a build root candidate into a unit.
// *buildtool.Registry satisfies it.
type Recognizer interface {
	Recognize(cfg buildtool.BuildConfig) foundation.Option[buildtool.Unit]
}

// Resolver finds the nearest build root for changed directories.
type Resolver struct {
	registry Recognizer
	logger   *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the resolver's logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a resolver consulting registry.
func New(registry Recognizer, opts ...Option) *Resolver {
	r := &Resolver{registry: registry, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the deduplicated units owning the changed directories, ordered
// by identity. Relative entries in changed are taken relative to root.
func (r *Resolver) Resolve(ctx context.Context, root string, changed sets.Set[string]) []buildtool.Unit {
	root = filepath.Clean(root)
	seen := make(map[buildtool.Identity]buildtool.Unit)

	for dir := range changed {
		if ctx.Err() != nil {
			r.logger.Warn("Resolution interrupted", logfields.Error(ctx.Err()))
			break
		}
		unit, ok := r.resolveOne(root, dir)
		if !ok {
			continue
		}
		id := unit.Identity()
		if _, dup := seen[id]; !dup {
			seen[id] = unit
		}
	}

	units := make([]buildtool.Unit, 0, len(seen))
	for _, u := range seen {
		units = append(units, u)
	}
	slices.SortFunc(units, func(a, b buildtool.Unit) int {
		return a.Identity().Compare(b.Identity())
	})
	return units
}

// resolveOne walks from dir toward root and returns the first recognized unit.
func (r *Resolver) resolveOne(root, dir string) (buildtool.Unit, bool) {
	cursor := dir
	if !filepath.IsAbs(cursor) {
		cursor = filepath.Join(root, cursor)
	}
	cursor = filepath.Clean(cursor)

	if !within(root, cursor) {
		r.logger.Warn("Changed directory is outside the root; skipping",
			logfields.Directory(dir), logfields.Root(root))
		return nil, false
	}

	for {
		unit, ok := r.registry.Recognize(buildtool.BuildConfig{Directory: cursor}).Get()
		if ok {
			r.logger.Debug("Resolved build root",
				logfields.Directory(dir),
				logfields.Kind(string(unit.Kind())),
				slog.String("build_root", cursor))
			return unit, true
		}
		if cursor == root {
			r.logger.Debug("No build root found", logfields.Directory(dir))
			return nil, false
		}
		cursor = filepath.Dir(cursor)
	}
}

// within reports whether path equals root or lies below it. Both must be clean.
func within(root, path string) bool {
	if path == root {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
