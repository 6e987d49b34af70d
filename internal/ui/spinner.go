package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/samzong/comet/internal/stringsutil"
)

const defaultWidth = 80

// Spinner wraps briandowns/spinner with TTY awareness
type Spinner struct {
	s       *spinner.Spinner
	out     io.Writer
	width   int
	enabled bool
}

// NewSpinner creates a spinner on out that only animates when out is a terminal.
// Otherwise only the final Stop message is written.
func NewSpinner(out io.Writer) *Spinner {
	f, ok := out.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return &Spinner{out: out}
	}

	width := defaultWidth
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		width = w
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(f))
	return &Spinner{s: s, out: out, width: width, enabled: true}
}

// Start begins the spinner animation
func (sp *Spinner) Start(message string) {
	if !sp.enabled {
		return
	}
	sp.setSuffix(message)
	sp.s.FinalMSG = ""
	sp.s.Start()
}

// Update replaces the text next to the spinner, keeping the tail of long
// messages so the line never wraps.
func (sp *Spinner) Update(message string) {
	if !sp.enabled {
		return
	}
	sp.setSuffix(message)
}

// Stop ends the animation and leaves message on the line, marked as done.
func (sp *Spinner) Stop(message string) {
	sp.finish(message, Done)
}

// Fail ends the animation and leaves message on the line, marked as failed.
func (sp *Spinner) Fail(message string) {
	sp.finish(message, Failed)
}

func (sp *Spinner) finish(message string, mark func(string) string) {
	if message != "" {
		message = mark(message)
	}
	if !sp.enabled {
		if message != "" {
			fmt.Fprintln(sp.out, message)
		}
		return
	}
	sp.s.Lock()
	if message != "" {
		sp.s.FinalMSG = message + "\n"
	}
	sp.s.Unlock()
	sp.s.Stop()
}

func (sp *Spinner) setSuffix(message string) {
	line := strings.Join(strings.Fields(message), " ")
	// leave room for the spinner glyph and padding
	line = stringsutil.Tail(line, sp.width-4)
	sp.s.Lock()
	sp.s.Suffix = " " + line
	sp.s.Unlock()
}
