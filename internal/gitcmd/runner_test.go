package gitcmd

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func TestResultStrings(t *testing.T) {
	r := Result{Stdout: []byte("  out\n"), Stderr: []byte("\terr \n")}
	assert.Equal(t, "out", r.StdoutString(true))
	assert.Equal(t, "  out\n", r.StdoutString(false))
	assert.Equal(t, "err", r.StderrString(true))
	assert.Equal(t, "\terr \n", r.StderrString(false))
}

func TestRunLogged_VerboseWritesCommand(t *testing.T) {
	requireGit(t)

	var log bytes.Buffer
	r := Runner{Verbose: true, Dir: t.TempDir(), Logger: &log}

	res, err := r.RunLogged(context.Background(), "--version")
	require.NoError(t, err)
	assert.Contains(t, res.StdoutString(true), "git version")
	assert.Equal(t, "Running: git --version\n", log.String())
}

func TestRun_QuietDoesNotLog(t *testing.T) {
	requireGit(t)

	var log bytes.Buffer
	r := Runner{Verbose: true, Dir: t.TempDir(), Logger: &log}

	_, err := r.Run(context.Background(), "--version")
	require.NoError(t, err)
	assert.Empty(t, log.String())
}

func TestRunWithWriters_CapturesStderr(t *testing.T) {
	requireGit(t)

	var stdout, stderr bytes.Buffer
	dir := t.TempDir()
	r := Runner{Dir: dir, Env: []string{"GIT_CEILING_DIRECTORIES=" + filepath.Dir(dir)}}

	res, err := r.RunWithWriters(context.Background(), false, &stdout, &stderr, "rev-parse", "--is-inside-work-tree")
	require.Error(t, err)
	assert.NotEmpty(t, res.StderrString(true))
	assert.Equal(t, res.StderrString(false), stderr.String())
}

func TestRun_ContextCancelled(t *testing.T) {
	requireGit(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Runner{Dir: t.TempDir()}.Run(ctx, "--version")
	assert.Error(t, err)
}
