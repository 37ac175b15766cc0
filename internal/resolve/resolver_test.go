package resolve

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/weave/internal/buildtool"
	"git.home.luguber.info/inful/weave/internal/container"
	"git.home.luguber.info/inful/weave/internal/foundation"
	helpers "git.home.luguber.info/inful/weave/internal/testutil/testutils"
	"git.home.luguber.info/inful/weave/internal/util/sets"
)

type nopEngine struct{}

func (nopEngine) Build(context.Context, container.BuildOptions) error { return nil }

func newResolver() *Resolver {
	return New(buildtool.DefaultRegistry(buildtool.Options{Engine: nopEngine{}}))
}

func identities(units []buildtool.Unit) []buildtool.Identity {
	out := make([]buildtool.Identity, 0, len(units))
	for _, u := range units {
		out = append(out, u.Identity())
	}
	return out
}

func TestResolve_DirectMarker(t *testing.T) {
	root := t.TempDir()
	helpers.WriteTree(t, root, map[string]string{"services/api/Dockerfile": "FROM scratch"})
	api := filepath.Join(root, "services", "api")

	units := newResolver().Resolve(context.Background(), root, sets.New(api))

	require.Len(t, units, 1)
	assert.IsType(t, &buildtool.ContainerBuild{}, units[0])
	assert.Equal(t, api, units[0].Directory())
}

func TestResolve_NoMarkerUpToRoot(t *testing.T) {
	root := t.TempDir()
	helpers.MakeDirs(t, root, "services/api/src")

	units := newResolver().Resolve(context.Background(), root, sets.New(filepath.Join(root, "services", "api", "src")))
	assert.Empty(t, units)
}

func TestResolve_DeduplicatesSharedRoot(t *testing.T) {
	root := t.TempDir()
	helpers.MakeDirs(t, root, "a", "b")
	helpers.WriteTree(t, root, map[string]string{".gitlab-ci.yml": "stages: []"})

	units := newResolver().Resolve(context.Background(), root,
		sets.New(filepath.Join(root, "a"), filepath.Join(root, "b")))

	require.Len(t, units, 1)
	assert.Equal(t, buildtool.Identity{Kind: buildtool.KindPipeline, Directory: root}, units[0].Identity())
}

func TestResolve_WalksUpToNearestMarker(t *testing.T) {
	root := t.TempDir()
	helpers.WriteTree(t, root, map[string]string{
		"Dockerfile":                "FROM scratch",
		"svc/Dockerfile":            "FROM scratch",
		"svc/internal/deep/file.go": "package deep",
	})

	units := newResolver().Resolve(context.Background(), root, sets.New(filepath.Join("svc", "internal", "deep")))

	require.Len(t, units, 1)
	assert.Equal(t, filepath.Join(root, "svc"), units[0].Directory())
}

func TestResolve_RelativePathsAndRootDot(t *testing.T) {
	root := t.TempDir()
	helpers.WriteTree(t, root, map[string]string{
		"Dockerfile":     "FROM scratch",
		"web/Dockerfile": "FROM scratch",
	})
	helpers.MakeDirs(t, root, "docs")

	units := newResolver().Resolve(context.Background(), root, sets.New(".", "docs", "web"))

	assert.Equal(t, []buildtool.Identity{
		{Kind: buildtool.KindContainer, Directory: root},
		{Kind: buildtool.KindContainer, Directory: filepath.Join(root, "web")},
	}, identities(units))
}

func TestResolve_PriorityIsDeterministic(t *testing.T) {
	root := t.TempDir()
	helpers.WriteTree(t, root, map[string]string{
		"app/.gitlab-ci.yml": "",
		"app/Dockerfile":     "FROM scratch",
	})
	r := newResolver()

	for range 5 {
		units := r.Resolve(context.Background(), root, sets.New("app"))
		require.Len(t, units, 1)
		assert.Equal(t, buildtool.KindPipeline, units[0].Kind())
	}
}

func TestResolve_IsIdempotent(t *testing.T) {
	root := t.TempDir()
	helpers.WriteTree(t, root, map[string]string{
		"a/Dockerfile":      "FROM scratch",
		"b/.gitlab-ci.yml":  "",
		"b/c/d/placeholder": "",
	})
	changed := sets.New("a", filepath.Join("b", "c", "d"), "b")
	r := newResolver()

	first := identities(r.Resolve(context.Background(), root, changed))
	second := identities(r.Resolve(context.Background(), root, changed))
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestResolve_SkipsDirectoriesOutsideRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "repo")
	helpers.WriteTree(t, parent, map[string]string{
		"Dockerfile":       "FROM scratch",
		"other/Dockerfile": "FROM scratch",
		"repo/README":      "",
	})

	var logs bytes.Buffer
	r := New(buildtool.DefaultRegistry(buildtool.Options{Engine: nopEngine{}}),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	units := r.Resolve(context.Background(), root, sets.New(filepath.Join(parent, "other"), filepath.Join("..", "other")))

	assert.Empty(t, units)
	assert.Contains(t, logs.String(), "outside the root")
}

func TestResolve_NeverAscendsPastRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "repo")
	helpers.WriteTree(t, parent, map[string]string{"Dockerfile": "FROM scratch"})
	helpers.MakeDirs(t, root, "x/y")

	units := newResolver().Resolve(context.Background(), root, sets.New(filepath.Join("x", "y")))
	assert.Empty(t, units)
}

// countingRegistry records every directory it was asked about.
type countingRegistry struct {
	visited []string
}

func (c *countingRegistry) Recognize(cfg buildtool.BuildConfig) foundation.Option[buildtool.Unit] {
	c.visited = append(c.visited, cfg.Directory)
	return foundation.None[buildtool.Unit]()
}

func TestResolve_WalkIsBoundedByDepth(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "repo")
	reg := &countingRegistry{}

	units := New(reg).Resolve(context.Background(), root, sets.New(filepath.Join("a", "b", "c")))

	assert.Empty(t, units)
	assert.Equal(t, []string{
		filepath.Join(root, "a", "b", "c"),
		filepath.Join(root, "a", "b"),
		filepath.Join(root, "a"),
		root,
	}, reg.visited)
}

func TestWithin(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "repo")
	assert.True(t, within(root, root))
	assert.True(t, within(root, filepath.Join(root, "a")))
	assert.True(t, within(root, filepath.Join(root, "..a")))
	assert.False(t, within(root, filepath.Join(string(filepath.Separator), "repository")))
	assert.False(t, within(root, string(filepath.Separator)))
}
