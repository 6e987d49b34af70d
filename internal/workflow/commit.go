package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samzong/comet/internal/changes"
	"github.com/samzong/comet/internal/config"
	"github.com/samzong/comet/internal/wizard"
)

// ErrNotRepository is returned when the session starts outside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// CommitOptions are per-invocation overrides of the configuration.
type CommitOptions struct {
	NoVerify bool
	DryRun   bool
	// AIMode and Remote override the configured values when set.
	AIMode config.AIMode
	Remote string
	Logger *slog.Logger
}

// CommitFlow is one interactive session: pick files, compose a message,
// commit and optionally push.
type CommitFlow struct {
	repo      Repository
	prompter  Prompter
	generator *Generator
	cfg       *config.Config
	opts      CommitOptions
	logger    *slog.Logger

	staged bool
}

func NewCommitFlow(repo Repository, llm Completer, prompter Prompter, status StatusIndicator, cfg *config.Config, opts CommitOptions) *CommitFlow {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CommitFlow{
		repo:      repo,
		prompter:  prompter,
		generator: NewGenerator(llm, prompter, status, cfg.DiffLimit),
		cfg:       cfg,
		opts:      opts,
		logger:    logger,
	}
}

func (f *CommitFlow) aiMode() config.AIMode {
	if f.opts.AIMode != "" {
		return f.opts.AIMode
	}
	return f.cfg.AI
}

func (f *CommitFlow) remote() string {
	if f.opts.Remote != "" {
		return f.opts.Remote
	}
	if f.cfg.Remote != "" {
		return f.cfg.Remote
	}
	return config.DefaultRemote
}

// Run executes the session. A user cancellation unstages everything and
// returns nil; ErrNotRepository and operation failures are returned.
func (f *CommitFlow) Run(ctx context.Context) error {
	f.prompter.Intro("comet")

	if !f.repo.IsInsideRepo(ctx) {
		return ErrNotRepository
	}

	paths, err := f.repo.ListChangedPaths(ctx)
	if err != nil {
		return fmt.Errorf("failed to list changed files: %w", err)
	}

	groups := changes.Group(paths)
	if groups.Empty() {
		f.prompter.Outro("No files to stage.")
		return nil
	}
	f.logger.Debug("changed files", "files", len(paths), "groups", groups.Len())

	engine, err := wizard.New(f.steps(groups)...)
	if err != nil {
		return err
	}
	engine.WithLogger(f.logger).OnCancel(f.abort)

	results, err := engine.Run(ctx)
	if errors.Is(err, wizard.ErrCancelled) {
		return nil
	}
	if err != nil {
		return f.withStagedHint(ctx, err)
	}

	f.logger.Debug("wizard finished", "steps", results.Names())
	if pushed, ok := wizard.Value[PushResult](results, StepPush); ok && pushed.Pushed {
		f.logger.Debug("pushed", "remote", pushed.Remote, "branch", pushed.Branch)
	}
	f.prompter.Outro("You're all set!")
	return nil
}

func (f *CommitFlow) abort(ctx context.Context) error {
	if err := f.repo.UnstageAll(ctx); err != nil {
		return err
	}
	f.prompter.Outro("Commit aborted.")
	return nil
}

// withStagedHint reports paths left in the index by a failed session. They are
// not unstaged automatically.
func (f *CommitFlow) withStagedHint(ctx context.Context, err error) error {
	if !f.staged {
		return err
	}
	files, ferr := f.repo.StagedFiles(context.WithoutCancel(ctx))
	if ferr != nil || len(files) == 0 {
		return err
	}
	return fmt.Errorf("%w\n%d file(s) remain staged; run 'git restore --staged .' to unstage them", err, len(files))
}
