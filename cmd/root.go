package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/samzong/comet/internal/config"
	"github.com/samzong/comet/internal/git"
	"github.com/samzong/comet/internal/llm"
	"github.com/samzong/comet/internal/ui"
	"github.com/samzong/comet/internal/workflow"
)

var errNotInteractive = errors.New("comet needs an interactive terminal on stdin")

var (
	cfgFile    string
	noVerify   bool
	dryRun     bool
	aiMode     string
	remote     string
	verbose    bool
	accessible bool
	configErr  error
	rootCtx    = context.Background()
	rootCmd    = &cobra.Command{
		Use:   "comet",
		Short: "comet - interactive conventional commits",
		Long: `comet walks you through a commit: pick the files to stage, choose a commit type, ` +
			`write the message yourself or let an LLM draft it from the staged diff, then commit and push.`,
		Version: fmt.Sprintf("%s (built at %s)", Version, BuildTime),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configErr != nil {
				return fmt.Errorf("configuration error: %w", configErr)
			}
			return handleErrors(runCommit(cmd.Context(), os.Stdin))
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
)

// SetContext sets the context the command tree executes with.
func SetContext(ctx context.Context) {
	rootCtx = ctx
}

func Execute() error {
	return rootCmd.ExecuteContext(rootCtx)
}

// RootCmd exposes the command tree for documentation generation.
func RootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Configuration file path (default is $XDG_CONFIG_HOME/comet/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Show git commands and debug logs")
	rootCmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip pre-commit hooks")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compose the message only, do not commit")
	rootCmd.Flags().StringVar(&aiMode, "ai", "", "Override AI generation: ask, always or never")
	rootCmd.Flags().StringVar(&remote, "remote", "", "Remote to push to (overrides config)")
	rootCmd.Flags().BoolVar(&accessible, "accessible", false, "Use plain line-based prompts for screen readers")

	_ = rootCmd.RegisterFlagCompletionFunc("ai", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{string(config.AIAsk), string(config.AIAlways), string(config.AINever)}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	configErr = config.InitConfig(cfgFile)
}

func handleErrors(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, llm.ErrMissingAPIKey) {
		return fmt.Errorf("%w\nHint: run 'comet config set api_key <key>' or export OPENAI_API_KEY", err)
	}
	return err
}

func newLogger(w io.Writer) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func commitOptions(logger *slog.Logger) (workflow.CommitOptions, error) {
	opts := workflow.CommitOptions{
		NoVerify: noVerify,
		DryRun:   dryRun,
		Remote:   remote,
		Logger:   logger,
	}
	if aiMode != "" {
		mode, err := config.ParseAIMode(aiMode)
		if err != nil {
			return opts, err
		}
		opts.AIMode = mode
	}
	return opts, nil
}

func runCommit(ctx context.Context, in io.Reader) error {
	if !isTerminal(in) {
		return errNotInteractive
	}

	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	logger := newLogger(errWriter())
	opts, err := commitOptions(logger)
	if err != nil {
		return err
	}
	logger.Debug("config loaded", "file", config.ConfigFileUsed(), "model", cfg.Model, "ai", cfg.AI)

	gitClient := git.NewClient(git.Options{
		Verbose: verbose,
		Logger:  errWriter(),
		Out:     outWriter(),
	})
	llmClient := llm.NewClient(llm.Options{
		APIKey:  cfg.APIKey,
		APIBase: cfg.APIBase,
		Model:   cfg.Model,
	})
	prompter := ui.NewPrompter(in, errWriter())
	prompter.Accessible = accessible
	status := ui.NewSpinner(errWriter())

	flow := workflow.NewCommitFlow(gitClient, llmClient, prompter, status, cfg, opts)
	return flow.Run(ctx)
}
