package gitcmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner executes git commands with shared logging and output handling.
type Runner struct {
	Verbose bool
	Dir     string
	Env     []string
	Logger  io.Writer
}

// Result contains captured stdout/stderr for a git command.
type Result struct {
	Stdout []byte
	Stderr []byte
}

func (r Result) StdoutString(trim bool) string {
	output := string(r.Stdout)
	if trim {
		return strings.TrimSpace(output)
	}
	return output
}

func (r Result) StderrString(trim bool) string {
	output := string(r.Stderr)
	if trim {
		return strings.TrimSpace(output)
	}
	return output
}

func (r Runner) withDefaults() Runner {
	if r.Logger == nil {
		r.Logger = os.Stderr
	}
	return r
}

func (r Runner) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "git", args...)
	if r.Dir != "" {
		cmd.Dir = r.Dir
	}
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	return cmd
}

func (r Runner) log(args []string) {
	if !r.Verbose {
		return
	}
	r = r.withDefaults()
	fmt.Fprintf(r.Logger, "Running: git %s\n", strings.Join(args, " "))
}

// Run executes a git command and captures stdout/stderr.
func (r Runner) Run(ctx context.Context, args ...string) (Result, error) {
	return r.run(ctx, args, false)
}

// RunLogged executes a git command, logs when verbose, and captures stdout/stderr.
func (r Runner) RunLogged(ctx context.Context, args ...string) (Result, error) {
	return r.run(ctx, args, true)
}

// RunWithWriters executes a git command, optionally logs, and streams to the given writers.
// Stderr is also captured so failures can be reported.
func (r Runner) RunWithWriters(ctx context.Context, log bool, stdout, stderr io.Writer, args ...string) (Result, error) {
	if log {
		r.log(args)
	}
	cmd := r.command(ctx, args...)
	var errBuf bytes.Buffer
	if stdout != nil {
		cmd.Stdout = stdout
	}
	if stderr != nil {
		cmd.Stderr = io.MultiWriter(stderr, &errBuf)
	} else {
		cmd.Stderr = &errBuf
	}

	err := cmd.Run()
	return Result{Stderr: errBuf.Bytes()}, err
}

func (r Runner) run(ctx context.Context, args []string, log bool) (Result, error) {
	if log {
		r.log(args)
	}
	cmd := r.command(ctx, args...)
	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	return Result{Stdout: outBuf.Bytes(), Stderr: errBuf.Bytes()}, err
}
