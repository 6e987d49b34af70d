// Package ui renders the commit wizard in the terminal.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"

	"github.com/samzong/comet/internal/changes"
	"github.com/samzong/comet/internal/wizard"
	"github.com/samzong/comet/internal/workflow"
)

var errNothingSelected = errors.New("please select at least one file")

// Prompter implements workflow.Prompter with huh forms.
type Prompter struct {
	In         io.Reader
	Out        io.Writer
	Accessible bool
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{In: in, Out: out}
}

func (p *Prompter) Intro(title string) {
	writeIntro(p.Out, title)
}

func (p *Prompter) Outro(message string) {
	writeOutro(p.Out, message)
}

func (p *Prompter) Note(title, message string) {
	writeNote(p.Out, title, message)
}

func (p *Prompter) Select(ctx context.Context, title string, options []workflow.Option, initial string) (string, error) {
	opts := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		opts = append(opts, huh.NewOption(optionLabel(o), o.Value))
	}

	selected := initial
	field := huh.NewSelect[string]().Title(title).Options(opts...).Value(&selected)
	if err := p.run(ctx, field); err != nil {
		return "", err
	}
	return selected, nil
}

func (p *Prompter) GroupMultiSelect(ctx context.Context, title string, groups []workflow.OptionGroup, required bool) ([]string, error) {
	var opts []huh.Option[string]
	for _, g := range groups {
		for _, o := range g.Options {
			opts = append(opts, huh.NewOption(groupedLabel(g.Name, o.Label), o.Value))
		}
	}

	var selected []string
	field := huh.NewMultiSelect[string]().
		Title(title).
		Options(opts...).
		Validate(func(v []string) error {
			if required && len(v) == 0 {
				return errNothingSelected
			}
			return nil
		}).
		Value(&selected)
	if err := p.run(ctx, field); err != nil {
		return nil, err
	}
	return selected, nil
}

func (p *Prompter) Text(ctx context.Context, title, placeholder, initial string) (string, error) {
	value := initial
	field := huh.NewInput().Title(title).Placeholder(placeholder).Value(&value)
	if err := p.run(ctx, field); err != nil {
		return "", err
	}
	return value, nil
}

func (p *Prompter) Confirm(ctx context.Context, title string, initial bool) (bool, error) {
	value := initial
	field := huh.NewConfirm().Title(title).Affirmative("Yes").Negative("No").Value(&value)
	if err := p.run(ctx, field); err != nil {
		return false, err
	}
	return value, nil
}

func (p *Prompter) run(ctx context.Context, field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithShowHelp(false).
		WithAccessible(p.Accessible)
	if p.In != nil {
		form = form.WithInput(p.In)
	}
	if p.Out != nil {
		form = form.WithOutput(p.Out)
	}

	return formError(form.RunWithContext(ctx))
}

// formError maps an aborted form to wizard.ErrCancelled.
func formError(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return wizard.ErrCancelled
	}
	return err
}

func optionLabel(o workflow.Option) string {
	if o.Hint == "" {
		return o.Label
	}
	return fmt.Sprintf("%-9s %s", o.Label, Hint(o.Hint))
}

// groupedLabel prefixes an entry with its directory so files from different
// groups stay distinguishable in a flat list.
func groupedLabel(group, label string) string {
	if group == "" || group == changes.RootKey {
		return label
	}
	return Hint(group+"/") + label
}
