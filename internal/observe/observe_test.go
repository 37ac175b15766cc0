package observe

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/weave/internal/config"
	"git.home.luguber.info/inful/weave/internal/foundation/errors"
	"git.home.luguber.info/inful/weave/internal/git"
	helpers "git.home.luguber.info/inful/weave/internal/testutil/testutils"
	"git.home.luguber.info/inful/weave/internal/util/sets"
)

func TestScanAll_ReportsEveryDirectory(t *testing.T) {
	root := t.TempDir()
	helpers.MakeDirs(t, root, "a/b/c", "d", "e/f")
	helpers.WriteTree(t, root, map[string]string{"a/file": "x", "top": "y"})

	dirs, err := (&ScanAll{Directory: root}).Observe(context.Background())
	require.NoError(t, err)

	want := sets.New(".", "a", filepath.Join("a", "b"), filepath.Join("a", "b", "c"), "d", "e", filepath.Join("e", "f"))
	assert.True(t, dirs.Equal(want), "got %v", sets.Sorted(dirs))
}

func TestScanAll_PrunesGitMetadata(t *testing.T) {
	_, w, root := helpers.SetupTestGitRepo(t)
	helpers.CommitFiles(t, w, root, "init", map[string]string{"svc/Dockerfile": "FROM scratch"})

	dirs, err := (&ScanAll{Directory: root}).Observe(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{".", "svc"}, sets.Sorted(dirs))
}

func TestScanAll_SkipsUnreadableDirectories(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}
	root := t.TempDir()
	helpers.MakeDirs(t, root, "open", "locked/inner")
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o750) })

	dirs, err := (&ScanAll{Directory: root}).Observe(context.Background())
	require.NoError(t, err)

	assert.True(t, dirs.Has("open"))
	assert.False(t, dirs.Has(filepath.Join("locked", "inner")))
}

// unreadableFS fails to list the directories named in denied.
type unreadableFS struct {
	fstest.MapFS
	denied map[string]bool
}

func (u unreadableFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if u.denied[name] {
		return nil, &fs.PathError{Op: "readdirent", Path: name, Err: fs.ErrPermission}
	}
	return u.MapFS.ReadDir(name)
}

func TestScanAll_SkipsEntriesThatFailToList(t *testing.T) {
	fsys := unreadableFS{
		MapFS: fstest.MapFS{
			"open/file":                  {Data: []byte("x")},
			"locked/inner/file":          {Data: []byte("y")},
			"deep/ok/denied/leaf/f":      {Data: []byte("z")},
			"deep/ok/sibling/Dockerfile": {Data: []byte("FROM scratch")},
		},
		denied: map[string]bool{"locked": true, "deep/ok/denied": true},
	}

	dirs, err := (&ScanAll{Directory: "/virtual", fsys: fsys}).Observe(context.Background())
	require.NoError(t, err)

	want := sets.New(".", "open", "locked", "deep",
		filepath.Join("deep", "ok"),
		filepath.Join("deep", "ok", "denied"),
		filepath.Join("deep", "ok", "sibling"))
	assert.True(t, dirs.Equal(want), "got %v", sets.Sorted(dirs))
}

func TestScanAll_UnreadableRootIsFileSystemError(t *testing.T) {
	fsys := unreadableFS{MapFS: fstest.MapFS{"a/file": {}}, denied: map[string]bool{".": true}}

	_, err := (&ScanAll{Directory: "/virtual", fsys: fsys}).Observe(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))

	_, err = (&ScanAll{Directory: filepath.Join(t.TempDir(), "missing")}).Observe(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}

func TestScanAll_HonorsCancellation(t *testing.T) {
	root := t.TempDir()
	helpers.MakeDirs(t, root, "a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&ScanAll{Directory: root}).Observe(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGit_ObservesHeadCommit(t *testing.T) {
	_, w, root := helpers.SetupTestGitRepo(t)
	helpers.CommitFiles(t, w, root, "first", map[string]string{"first/file": "1"})
	helpers.CommitFiles(t, w, root, "second", map[string]string{"second/file": "2", "third/file": "3"})

	obs, err := ForMode(config.ModeCI, root, nil)
	require.NoError(t, err)

	dirs, err := obs.Observe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "third"}, sets.Sorted(dirs))
}

func TestGit_NonRepositoryFails(t *testing.T) {
	obs := NewGit(t.TempDir(), nil)

	_, err := obs.Observe(context.Background())
	require.Error(t, err)
	assert.True(t, git.IsInvalidRepository(err))
}

func TestForMode(t *testing.T) {
	obs, err := ForMode(config.ModeAll, "/tmp", nil)
	require.NoError(t, err)
	assert.IsType(t, &ScanAll{}, obs)

	obs, err = ForMode("", "/tmp", nil)
	require.NoError(t, err)
	assert.IsType(t, &Git{}, obs)

	_, err = ForMode("weekly", "/tmp", nil)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}
