package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/weave/internal/config"
	"git.home.luguber.info/inful/weave/internal/foundation/errors"
	helpers "git.home.luguber.info/inful/weave/internal/testutil/testutils"
)

type runResult struct {
	stdout string
	stderr string
	err    error
	cli    *CLI
}

// run parses args against a fresh CLI and executes the selected command.
func run(t *testing.T, args ...string) runResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cli := &CLI{}
	global := &Global{Ctx: context.Background(), Stdout: &stdout, Stderr: &stderr}

	parser, err := kong.New(cli,
		kong.Name("weave"),
		kong.Vars{"version": "test"},
		kong.Bind(global),
		kong.Exit(func(int) { t.Fatalf("unexpected exit for args %v", args) }),
	)
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)

	err = kctx.Run(cli)
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err, cli: cli}
}

func changedRepo(t *testing.T) string {
	t.Helper()
	_, w, root := helpers.SetupTestGitRepo(t)
	helpers.CommitFiles(t, w, root, "init", map[string]string{
		"api/Dockerfile":     "FROM scratch",
		"web/.gitlab-ci.yml": "stages: []",
		"web/index.html":     "<html></html>",
	})
	helpers.CommitFiles(t, w, root, "touch both", map[string]string{
		"api/main.go":    "package main",
		"web/index.html": "<html>v2</html>",
	})
	return root
}

func TestBuild_DryRunInCIMode(t *testing.T) {
	root := changedRepo(t)
	missing := filepath.Join(t.TempDir(), "none.yaml")

	res := run(t, "--config", missing, "build", "-d", root, "--dry-run")
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "Would build container in "+filepath.Join(root, "api"))
	assert.Contains(t, res.stdout, "Would build pipeline in "+filepath.Join(root, "web"))
	assert.Contains(t, res.stdout, "2 build unit(s) from 2 changed director(ies); dry run")
}

func TestBuild_AllModeRunsPipelinePlaceholder(t *testing.T) {
	root := helpers.WriteTree(t, t.TempDir(), map[string]string{".gitlab-ci.yml": ""})
	missing := filepath.Join(t.TempDir(), "none.yaml")

	res := run(t, "--config", missing, "build", "-d", root, "--mode", "all")
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "Building pipeline in "+root)
	assert.Contains(t, res.stdout, "Build complete (placeholder: no artifact produced)")
	assert.Contains(t, res.stdout, "1 succeeded, 0 failed")
}

func TestBuild_NonRepositoryIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(t.TempDir(), "none.yaml")

	res := run(t, "--config", missing, "build", "-d", dir)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "No changes detected")
	assert.Contains(t, res.stdout, "0 build unit(s)")
}

func TestBuild_StrictNonRepositoryExitsWithRepositoryCode(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(t.TempDir(), "none.yaml")

	res := run(t, "--config", missing, "build", "-d", dir, "--strict")
	require.Error(t, res.err)
	assert.Equal(t, 8, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(res.err))
}

func TestBuild_InvalidModeFlag(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.yaml")

	res := run(t, "--config", missing, "build", "--mode", "weekly")
	require.Error(t, res.err)
	assert.True(t, errors.HasCategory(res.err, errors.CategoryValidation))
}

func TestBuild_ConfigFileAndFlagPrecedence(t *testing.T) {
	root := helpers.WriteTree(t, t.TempDir(), map[string]string{
		"svc/Containerfile": "FROM scratch",
		"svc/Dockerfile":    "FROM scratch",
	})
	cfgPath := filepath.Join(t.TempDir(), "weave.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("mode: all\ncontainer:\n  dockerfile: Containerfile\nlogging:\n  format: json\n"), 0o600))

	res := run(t, "--config", cfgPath, "build", "-d", root, "--dry-run")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Would build container in "+filepath.Join(root, "svc"))

	// Logs are JSON per the config file.
	line := strings.SplitN(strings.TrimSpace(res.stderr), "\n", 2)[0]
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry), "stderr: %s", res.stderr)

	res = run(t, "--config", cfgPath, "--log-format", "text", "build", "-d", root, "--dry-run", "--dockerfile", "Nope")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "0 build unit(s)")
	assert.False(t, strings.HasPrefix(strings.TrimSpace(res.stderr), "{"))
}

func TestBuild_MalformedConfigIsConfigError(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "weave.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("mode: [\n"), 0o600))

	res := run(t, "--config", cfgPath, "build")
	require.Error(t, res.err)
	assert.Equal(t, 7, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(res.err))
}

func TestBuild_ApplyOverrides(t *testing.T) {
	cfg := config.Default()
	b := &BuildCmd{Mode: "all", Strict: true, Dockerfile: "Containerfile", ContainerEngine: "podman", MetricsTextfile: "/tmp/x.prom"}

	require.NoError(t, b.applyOverrides(cfg))
	assert.Equal(t, config.ModeAll, cfg.Mode)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "Containerfile", cfg.Container.Dockerfile)
	assert.Equal(t, "podman", cfg.Container.Engine)
	assert.Equal(t, "/tmp/x.prom", cfg.Metrics.Textfile)

	err := (&BuildCmd{Dockerfile: "dir/Dockerfile"}).applyOverrides(config.Default())
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	for _, name := range []string{".", ".."} {
		err = (&BuildCmd{Dockerfile: name}).applyOverrides(config.Default())
		assert.True(t, errors.HasCategory(err, errors.CategoryConfig), "dockerfile %q", name)
	}
}
