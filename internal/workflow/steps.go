package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samzong/comet/internal/changes"
	"github.com/samzong/comet/internal/config"
	"github.com/samzong/comet/internal/formatter"
	"github.com/samzong/comet/internal/gitutil"
	"github.com/samzong/comet/internal/wizard"
)

// Step names, in execution order.
const (
	StepStage     = "stage"
	StepType      = "type"
	StepAI        = "ai"
	StepCommitMsg = "commitMsg"
	StepCommit    = "commit"
	StepPush      = "push"
)

// CommitTypes are the selectable conventional commit types; feat is the default.
var CommitTypes = []Option{
	{Label: "feat", Value: "feat", Hint: "A new feature"},
	{Label: "fix", Value: "fix", Hint: "A bug fix"},
	{Label: "docs", Value: "docs", Hint: "Documentation only changes"},
	{Label: "style", Value: "style", Hint: "Changes that do not affect the meaning of the code"},
	{Label: "perf", Value: "perf", Hint: "A code change that improves performance"},
	{Label: "refactor", Value: "refactor", Hint: "A code change that neither fixes a bug nor adds a feature"},
	{Label: "test", Value: "test", Hint: "Adding missing tests or correcting existing tests"},
	{Label: "chore", Value: "chore", Hint: "Changes to the build process or auxiliary tools and libraries"},
	{Label: "revert", Value: "revert", Hint: "Reverts a previous commit"},
	{Label: "ci", Value: "ci", Hint: "Changes to our CI configuration files and scripts"},
}

const defaultCommitType = "feat"

// StageResult is the outcome of the stage step.
type StageResult struct {
	Paths []string
	Scope changes.Scopes
}

// PushResult is the outcome of the push step.
type PushResult struct {
	Pushed bool
	Remote string
	Branch string
}

func (f *CommitFlow) steps(groups *changes.Groups) []wizard.Step {
	return []wizard.Step{
		{Name: StepStage, Run: func(ctx context.Context, _ wizard.Results) (any, error) {
			return f.stage(ctx, groups)
		}},
		{Name: StepType, Run: f.chooseType},
		{Name: StepAI, Run: f.chooseAI},
		{Name: StepCommitMsg, Run: f.composeMessage},
		{Name: StepCommit, Run: f.commit},
		{Name: StepPush, Run: f.push, When: func(prior wizard.Results) bool {
			committed, _ := wizard.Value[bool](prior, StepCommit)
			return committed
		}},
	}
}

func optionGroups(groups *changes.Groups) []OptionGroup {
	out := make([]OptionGroup, 0, groups.Len())
	for _, key := range groups.Keys() {
		g := OptionGroup{Name: key}
		for _, e := range groups.Entries(key) {
			g.Options = append(g.Options, Option{Label: e.Label, Value: e.Value})
		}
		out = append(out, g)
	}
	return out
}

func (f *CommitFlow) stage(ctx context.Context, groups *changes.Groups) (StageResult, error) {
	selected, err := f.prompter.GroupMultiSelect(ctx, "Select files to stage", optionGroups(groups), true)
	if err != nil {
		return StageResult{}, err
	}
	if len(selected) == 0 {
		return StageResult{}, errors.New("no files selected")
	}

	if err := f.repo.Stage(ctx, selected); err != nil {
		return StageResult{}, fmt.Errorf("failed to stage files: %w", err)
	}
	f.staged = true

	scope := changes.ExtractScope(selected, f.cfg.ScopeRoot)
	f.logger.Debug("staged", "files", len(selected), "scopes", scope.Values())

	return StageResult{Paths: selected, Scope: scope}, nil
}

func (f *CommitFlow) chooseType(ctx context.Context, _ wizard.Results) (any, error) {
	return f.prompter.Select(ctx, "Please enter a type for the commit:", CommitTypes, defaultCommitType)
}

func (f *CommitFlow) chooseAI(ctx context.Context, _ wizard.Results) (any, error) {
	switch f.aiMode() {
	case config.AIAlways:
		return true, nil
	case config.AINever:
		return false, nil
	default:
		return f.prompter.Confirm(ctx, "Do you want to generate the commit message with AI?", true)
	}
}

func (f *CommitFlow) composeMessage(ctx context.Context, prior wizard.Results) (any, error) {
	stage, err := priorResult[StageResult](prior, StepStage)
	if err != nil {
		return nil, err
	}
	commitType, err := priorResult[string](prior, StepType)
	if err != nil {
		return nil, err
	}
	useAI, _ := wizard.Value[bool](prior, StepAI)

	prefix := formatter.Prefix(commitType, stage.Scope.String())
	if !useAI {
		return f.manualMessage(ctx, prefix)
	}

	diff, err := f.repo.StagedDiff(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get git diff: %w", err)
	}
	return f.generator.Generate(ctx, prefix, diff)
}

func (f *CommitFlow) manualMessage(ctx context.Context, prefix string) (string, error) {
	for {
		body, err := f.prompter.Text(ctx, "Please enter a commit message", "...", "")
		if err != nil {
			return "", err
		}
		message := prefix + strings.TrimSpace(body)

		decision, err := askDecision(ctx, f.prompter)
		if err != nil {
			return "", err
		}

		switch decision {
		case DecisionCommit:
			return message, nil
		case DecisionCancel:
			return "", wizard.ErrCancelled
		case DecisionEdit:
			return editMessage(ctx, f.prompter, message)
		case DecisionRegenerate:
			continue
		}
	}
}

func (f *CommitFlow) commit(ctx context.Context, prior wizard.Results) (any, error) {
	message, err := priorResult[string](prior, StepCommitMsg)
	if err != nil {
		return nil, err
	}

	ok, err := f.prompter.Confirm(ctx, "Commit with this message?", true)
	if err != nil {
		return nil, err
	}
	if !ok {
		f.prompter.Note("Commit skipped", "The selected files are still staged.")
		return false, nil
	}

	if f.opts.DryRun {
		f.prompter.Note("Dry run mode, no actual commit", message)
		return false, nil
	}

	if err := f.repo.Commit(ctx, message, f.buildCommitArgs()...); err != nil {
		return nil, fmt.Errorf("failed to commit changes: %w", err)
	}
	return true, nil
}

func (f *CommitFlow) buildCommitArgs() []string {
	var args []string
	if f.opts.NoVerify {
		args = append(args, "--no-verify")
	}
	return args
}

func (f *CommitFlow) push(ctx context.Context, _ wizard.Results) (any, error) {
	ok, err := f.prompter.Confirm(ctx, "Push to remote?", true)
	if err != nil {
		return nil, err
	}
	if !ok {
		return PushResult{}, nil
	}

	branch, err := f.repo.CurrentBranch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current branch: %w", err)
	}
	if branch == "" {
		return nil, errors.New("cannot push from a detached HEAD")
	}
	if err := gitutil.ValidateBranchName(branch); err != nil {
		return nil, err
	}

	remote := f.remote()
	f.logger.Debug("pushing", "remote", remote, "branch", branch)
	if err := f.repo.PushWithUpstream(ctx, remote, branch); err != nil {
		return nil, fmt.Errorf("failed to push: %w", err)
	}
	if err := f.repo.Push(ctx); err != nil {
		return nil, fmt.Errorf("failed to push: %w", err)
	}
	return PushResult{Pushed: true, Remote: remote, Branch: branch}, nil
}

func priorResult[T any](prior wizard.Results, step string) (T, error) {
	v, ok := wizard.Value[T](prior, step)
	if !ok {
		var zero T
		return zero, fmt.Errorf("missing result of step %q", step)
	}
	return v, nil
}
