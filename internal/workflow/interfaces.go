// Package workflow drives the interactive stage, message, commit and push session.
package workflow

import (
	"context"
	"iter"
)

// Repository abstracts git operations for testability.
type Repository interface {
	IsInsideRepo(ctx context.Context) bool
	ListChangedPaths(ctx context.Context) ([]string, error)
	Stage(ctx context.Context, paths []string) error
	UnstageAll(ctx context.Context) error
	StagedFiles(ctx context.Context) ([]string, error)
	StagedDiff(ctx context.Context) (string, error)
	Commit(ctx context.Context, message string, args ...string) error
	CurrentBranch(ctx context.Context) (string, error)
	PushWithUpstream(ctx context.Context, remote, branch string) error
	Push(ctx context.Context) error
}

// Completer streams a text completion as a finite sequence of fragments.
// Each range over the returned sequence is a new request.
type Completer interface {
	Stream(ctx context.Context, system, user string) iter.Seq2[string, error]
}

// Option is one choice of a single- or multi-select prompt.
type Option struct {
	Label string
	Value string
	Hint  string
}

// OptionGroup is a titled block of options in a grouped multi-select.
type OptionGroup struct {
	Name    string
	Options []Option
}

// Prompter renders the interactive prompts. Implementations return
// wizard.ErrCancelled when the user aborts a prompt.
type Prompter interface {
	Intro(title string)
	Outro(message string)
	Note(title, message string)
	Select(ctx context.Context, title string, options []Option, initial string) (string, error)
	GroupMultiSelect(ctx context.Context, title string, groups []OptionGroup, required bool) ([]string, error)
	Text(ctx context.Context, title, placeholder, initial string) (string, error)
	Confirm(ctx context.Context, title string, initial bool) (bool, error)
}

// StatusIndicator is a single live status line. Stop ends it successfully,
// Fail ends it with an error mark.
type StatusIndicator interface {
	Start(message string)
	Update(message string)
	Stop(message string)
	Fail(message string)
}
