package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samzong/comet/internal/formatter"
	"github.com/samzong/comet/internal/wizard"
)

var errEmptyGeneration = errors.New("LLM returned empty response")

// generationSession is the state of one AI-assisted message: the diff it was
// seeded with and the message accumulated by the current attempt.
type generationSession struct {
	prefix  string
	diff    string
	message strings.Builder
}

func (s *generationSession) reset() {
	s.message.Reset()
	s.message.WriteString(s.prefix)
}

func (s *generationSession) append(fragment string) string {
	s.message.WriteString(fragment)
	return s.message.String()
}

// finish reduces the streamed body to a single clean line.
func (s *generationSession) finish() (string, error) {
	body := formatter.CleanMessage(strings.TrimPrefix(s.message.String(), s.prefix))
	if body == "" {
		return "", errEmptyGeneration
	}
	s.message.Reset()
	s.message.WriteString(s.prefix + body)
	return s.message.String(), nil
}

// Generator drafts commit messages from a diff and lets the user accept,
// edit, regenerate or cancel them.
type Generator struct {
	llm       Completer
	prompter  Prompter
	status    StatusIndicator
	diffLimit int
}

func NewGenerator(llm Completer, prompter Prompter, status StatusIndicator, diffLimit int) *Generator {
	return &Generator{llm: llm, prompter: prompter, status: status, diffLimit: diffLimit}
}

// Generate returns the accepted message, or wizard.ErrCancelled when the user
// cancels. The diff is used for every attempt; it is never fetched again.
func (g *Generator) Generate(ctx context.Context, prefix, diff string) (string, error) {
	if g.llm == nil {
		return "", errors.New("no LLM client configured")
	}

	session := &generationSession{prefix: prefix, diff: formatter.TruncateDiff(diff, g.diffLimit)}
	for {
		message, err := g.attempt(ctx, session)
		if err != nil {
			return "", err
		}

		decision, err := askDecision(ctx, g.prompter)
		if err != nil {
			return "", err
		}

		switch decision {
		case DecisionCommit:
			return message, nil
		case DecisionCancel:
			return "", wizard.ErrCancelled
		case DecisionEdit:
			return editMessage(ctx, g.prompter, message)
		case DecisionRegenerate:
			continue
		}
	}
}

func (g *Generator) attempt(ctx context.Context, s *generationSession) (string, error) {
	s.reset()
	g.status.Start("Generating commit message...")

	for fragment, err := range g.llm.Stream(ctx, formatter.SystemInstruction, s.diff) {
		if err != nil {
			g.status.Fail("Commit message generation failed")
			return "", fmt.Errorf("failed to generate commit message: %w", err)
		}
		g.status.Update(s.append(fragment))
	}

	message, err := s.finish()
	if err != nil {
		g.status.Fail("Commit message generation failed")
		return "", fmt.Errorf("failed to generate commit message: %w", err)
	}

	g.status.Stop("Commit message generated")
	g.prompter.Note("Generated commit message", message)
	return message, nil
}
