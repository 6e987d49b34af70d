// Package git implements the repository operations the commit wizard needs on
// top of the git binary.
package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samzong/comet/internal/gitcmd"
	"github.com/samzong/comet/internal/gitutil"
	"github.com/samzong/comet/internal/stringsutil"
)

// Options configures a Client.
type Options struct {
	Verbose bool
	Dir     string
	Env     []string
	// Logger receives "Running: git ..." lines when Verbose is set.
	Logger io.Writer
	// Out receives the output of commit and push.
	Out io.Writer
}

// Client runs repository operations in one working directory.
type Client struct {
	runner gitcmd.Runner
	out    io.Writer
}

func NewClient(opts Options) *Client {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	return &Client{
		runner: gitcmd.Runner{
			Verbose: opts.Verbose,
			Dir:     opts.Dir,
			Env:     opts.Env,
			Logger:  opts.Logger,
		},
		out: out,
	}
}

// IsInsideRepo reports whether the working directory is inside a work tree.
func (c *Client) IsInsideRepo(ctx context.Context) bool {
	result, err := c.runner.Run(ctx, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		return false
	}
	return result.StdoutString(true) == "true"
}

// ListChangedPaths lists untracked and modified paths below the working
// directory, honouring the standard ignore rules.
func (c *Client) ListChangedPaths(ctx context.Context) ([]string, error) {
	result, err := c.runner.RunLogged(ctx, "ls-files", "-z", "--exclude-standard", "--others", "--modified", "--", ".")
	if err != nil {
		return nil, gitutil.WrapGitError("git ls-files failed", result, err)
	}
	return stringsutil.UniqueStrings(stringsutil.SplitNonEmpty(result.StdoutString(false), "\x00")), nil
}

// Stage adds exactly the given paths to the index.
func (c *Client) Stage(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return errors.New("no paths to stage")
	}
	args := append([]string{"add", "--"}, paths...)
	result, err := c.runner.RunLogged(ctx, args...)
	if err != nil {
		return gitutil.WrapGitError("git add failed", result, err)
	}
	return nil
}

// UnstageAll removes everything from the index without touching the work tree.
func (c *Client) UnstageAll(ctx context.Context) error {
	if !c.hasHead(ctx) {
		result, err := c.runner.RunLogged(ctx, "rm", "-r", "-q", "--cached", "--ignore-unmatch", "--", ".")
		if err != nil {
			return gitutil.WrapGitError("git rm --cached failed", result, err)
		}
		return nil
	}
	result, err := c.runner.RunLogged(ctx, "restore", "--staged", "--", ".")
	if err != nil {
		return gitutil.WrapGitError("git restore --staged failed", result, err)
	}
	return nil
}

func (c *Client) hasHead(ctx context.Context) bool {
	_, err := c.runner.Run(ctx, "rev-parse", "--verify", "-q", "HEAD")
	return err == nil
}

// Commit records the index with message. Extra args such as --no-verify are
// appended to the commit command.
func (c *Client) Commit(ctx context.Context, message string, args ...string) error {
	if strings.TrimSpace(message) == "" {
		return errors.New("commit message cannot be empty")
	}
	commitArgs := append([]string{"commit", "-m", message}, args...)
	result, err := c.runner.RunWithWriters(ctx, true, c.out, nil, commitArgs...)
	if err != nil {
		return gitutil.WrapGitError("git commit failed", result, err)
	}
	return nil
}

// CurrentBranch returns the checked-out branch, or an empty string on a detached HEAD.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	result, err := c.runner.Run(ctx, "branch", "--show-current")
	if err != nil {
		return "", gitutil.WrapGitError("git branch --show-current failed", result, err)
	}
	return result.StdoutString(true), nil
}

// PushWithUpstream pushes branch to remote and records it as the upstream.
func (c *Client) PushWithUpstream(ctx context.Context, remote, branch string) error {
	result, err := c.runner.RunWithWriters(ctx, true, c.out, nil, "push", "-u", remote, branch)
	if err != nil {
		return gitutil.WrapGitError(fmt.Sprintf("git push -u %s %s failed", remote, branch), result, err)
	}
	return nil
}

// Push runs a plain git push.
func (c *Client) Push(ctx context.Context) error {
	result, err := c.runner.RunWithWriters(ctx, true, c.out, nil, "push")
	if err != nil {
		return gitutil.WrapGitError("git push failed", result, err)
	}
	return nil
}

// StagedDiff returns the diff of the index against HEAD.
func (c *Client) StagedDiff(ctx context.Context) (string, error) {
	result, err := c.runner.RunLogged(ctx, "diff", "--staged")
	if err != nil {
		return "", gitutil.WrapGitError("git diff --staged failed", result, err)
	}
	return result.StdoutString(false), nil
}

// StagedFiles lists the paths currently in the index diff.
func (c *Client) StagedFiles(ctx context.Context) ([]string, error) {
	result, err := c.runner.Run(ctx, "diff", "--staged", "--name-only", "-z")
	if err != nil {
		return nil, gitutil.WrapGitError("git diff --staged --name-only failed", result, err)
	}
	return stringsutil.SplitNonEmpty(result.StdoutString(false), "\x00"), nil
}
