package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// isolatedEnv keeps tests away from the user's git configuration and from any
// repository enclosing the temp directory.
func isolatedEnv(dir string) []string {
	return []string{
		"GIT_CONFIG_GLOBAL=/dev/null",
		"GIT_CONFIG_NOSYSTEM=1",
		"GIT_AUTHOR_NAME=comet",
		"GIT_AUTHOR_EMAIL=comet@example.com",
		"GIT_COMMITTER_NAME=comet",
		"GIT_COMMITTER_EMAIL=comet@example.com",
		"GIT_CEILING_DIRECTORIES=" + filepath.Dir(dir),
	}
}

// newTempRepo creates an empty repository in a temp directory and returns a
// client bound to it.
func newTempRepo(t *testing.T) (string, *Client) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	client := NewClient(Options{Dir: dir, Env: isolatedEnv(dir)})
	_, err := client.runner.Run(context.Background(), "init", "-q", "-b", "main")
	require.NoError(t, err)
	return dir, client
}

// newBareRemote creates a bare repository and registers it as origin of the repo in dir.
func newBareRemote(t *testing.T, client *Client) string {
	t.Helper()
	remote := t.TempDir()
	_, err := client.runner.Run(context.Background(), "init", "-q", "--bare", remote)
	require.NoError(t, err)
	_, err = client.runner.Run(context.Background(), "remote", "add", "origin", remote)
	require.NoError(t, err)
	return remote
}

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
