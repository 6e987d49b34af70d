package workflow

import (
	"context"
	"fmt"
	"strings"
)

// Decision is the user's choice after a commit message has been produced.
type Decision int

const (
	DecisionCommit Decision = iota
	DecisionCancel
	DecisionEdit
	DecisionRegenerate
)

func (d Decision) String() string {
	switch d {
	case DecisionCommit:
		return "commit"
	case DecisionCancel:
		return "cancel"
	case DecisionEdit:
		return "edit"
	case DecisionRegenerate:
		return "regen"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

var decisionOptions = []Option{
	{Label: "Commit", Value: DecisionCommit.String()},
	{Label: "Cancel", Value: DecisionCancel.String()},
	{Label: "Edit", Value: DecisionEdit.String()},
	{Label: "Regenerate", Value: DecisionRegenerate.String()},
}

func parseDecision(s string) (Decision, error) {
	for _, d := range []Decision{DecisionCommit, DecisionCancel, DecisionEdit, DecisionRegenerate} {
		if d.String() == s {
			return d, nil
		}
	}
	return DecisionCancel, fmt.Errorf("unknown decision %q", s)
}

func askDecision(ctx context.Context, p Prompter) (Decision, error) {
	answer, err := p.Select(ctx, "What do you want to do?", decisionOptions, DecisionCommit.String())
	if err != nil {
		return DecisionCancel, err
	}
	return parseDecision(answer)
}

// editMessage lets the user rewrite message. An empty answer keeps the original.
func editMessage(ctx context.Context, p Prompter, message string) (string, error) {
	edited, err := p.Text(ctx, "Edit the commit message", "...", message)
	if err != nil {
		return "", err
	}
	if edited = strings.TrimSpace(edited); edited == "" {
		return message, nil
	}
	return edited, nil
}
