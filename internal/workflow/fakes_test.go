package workflow

import (
	"context"
	"iter"
	"strings"
	"testing"

	"github.com/samzong/comet/internal/config"
	"github.com/samzong/comet/internal/wizard"
)

type commitCall struct {
	message string
	args    []string
}

type fakeRepo struct {
	inside  bool
	changed []string
	diff    string
	branch  string
	errs    map[string]error

	stageCalls    [][]string
	unstageCalls  int
	diffCalls     int
	commits       []commitCall
	upstreamPush  [][2]string
	pushCalls     int
	stagedInIndex []string
}

func newFakeRepo(changed ...string) *fakeRepo {
	return &fakeRepo{inside: true, changed: changed, diff: "diff --git a/x b/x\n+x\n", branch: "main", errs: map[string]error{}}
}

func (r *fakeRepo) IsInsideRepo(context.Context) bool { return r.inside }

func (r *fakeRepo) ListChangedPaths(context.Context) ([]string, error) {
	return r.changed, r.errs["list"]
}

func (r *fakeRepo) Stage(_ context.Context, paths []string) error {
	r.stageCalls = append(r.stageCalls, paths)
	if err := r.errs["stage"]; err != nil {
		return err
	}
	r.stagedInIndex = append(r.stagedInIndex, paths...)
	return nil
}

func (r *fakeRepo) UnstageAll(context.Context) error {
	r.unstageCalls++
	if err := r.errs["unstage"]; err != nil {
		return err
	}
	r.stagedInIndex = nil
	return nil
}

func (r *fakeRepo) StagedFiles(context.Context) ([]string, error) {
	return r.stagedInIndex, nil
}

func (r *fakeRepo) StagedDiff(context.Context) (string, error) {
	r.diffCalls++
	return r.diff, r.errs["diff"]
}

func (r *fakeRepo) Commit(_ context.Context, message string, args ...string) error {
	if err := r.errs["commit"]; err != nil {
		return err
	}
	r.commits = append(r.commits, commitCall{message: message, args: args})
	r.stagedInIndex = nil
	return nil
}

func (r *fakeRepo) CurrentBranch(context.Context) (string, error) {
	return r.branch, r.errs["branch"]
}

func (r *fakeRepo) PushWithUpstream(_ context.Context, remote, branch string) error {
	r.upstreamPush = append(r.upstreamPush, [2]string{remote, branch})
	return r.errs["push"]
}

func (r *fakeRepo) Push(context.Context) error {
	r.pushCalls++
	return r.errs["push"]
}

type answer struct {
	kind  string
	value any
	err   error
}

func sel(v string) answer                { return answer{kind: "select", value: v} }
func multi(v ...string) answer           { return answer{kind: "multi", value: v} }
func text(v string) answer               { return answer{kind: "text", value: v} }
func confirm(v bool) answer              { return answer{kind: "confirm", value: v} }
func abort(kind string) answer           { return answer{kind: kind, err: wizard.ErrCancelled} }
func decide(d Decision) answer           { return sel(d.String()) }
func fail(kind string, err error) answer { return answer{kind: kind, err: err} }

type promptCall struct {
	kind    string
	title   string
	initial string
}

type fakePrompter struct {
	t       *testing.T
	answers []answer

	calls  []promptCall
	groups [][]OptionGroup
	notes  []string
	outros []string
	intros int
}

func newFakePrompter(t *testing.T, answers ...answer) *fakePrompter {
	return &fakePrompter{t: t, answers: answers}
}

func (p *fakePrompter) next(kind, title, initial string) answer {
	p.t.Helper()
	p.calls = append(p.calls, promptCall{kind: kind, title: title, initial: initial})
	if len(p.answers) == 0 {
		p.t.Fatalf("unexpected %s prompt %q", kind, title)
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	if a.kind != kind {
		p.t.Fatalf("prompt %q: got %s, scripted %s", title, kind, a.kind)
	}
	return a
}

func (p *fakePrompter) Intro(string)               { p.intros++ }
func (p *fakePrompter) Outro(message string)       { p.outros = append(p.outros, message) }
func (p *fakePrompter) Note(title, message string) { p.notes = append(p.notes, title+": "+message) }

func (p *fakePrompter) Select(_ context.Context, title string, _ []Option, initial string) (string, error) {
	a := p.next("select", title, initial)
	if a.err != nil {
		return "", a.err
	}
	return a.value.(string), nil
}

func (p *fakePrompter) GroupMultiSelect(_ context.Context, title string, groups []OptionGroup, _ bool) ([]string, error) {
	p.groups = append(p.groups, groups)
	a := p.next("multi", title, "")
	if a.err != nil {
		return nil, a.err
	}
	return a.value.([]string), nil
}

func (p *fakePrompter) Text(_ context.Context, title, _ string, initial string) (string, error) {
	a := p.next("text", title, initial)
	if a.err != nil {
		return "", a.err
	}
	return a.value.(string), nil
}

func (p *fakePrompter) Confirm(_ context.Context, title string, _ bool) (bool, error) {
	a := p.next("confirm", title, "")
	if a.err != nil {
		return false, a.err
	}
	return a.value.(bool), nil
}

func (p *fakePrompter) remaining() int { return len(p.answers) }

func (p *fakePrompter) callsOf(kind string) []promptCall {
	var out []promptCall
	for _, c := range p.calls {
		if c.kind == kind {
			out = append(out, c)
		}
	}
	return out
}

type fakeStatus struct {
	events []string
}

func (s *fakeStatus) Start(message string)  { s.events = append(s.events, "start:"+message) }
func (s *fakeStatus) Update(message string) { s.events = append(s.events, "update:"+message) }
func (s *fakeStatus) Stop(message string)   { s.events = append(s.events, "stop:"+message) }
func (s *fakeStatus) Fail(message string)   { s.events = append(s.events, "fail:"+message) }

func (s *fakeStatus) updates() []string {
	var out []string
	for _, e := range s.events {
		if msg, ok := strings.CutPrefix(e, "update:"); ok {
			out = append(out, msg)
		}
	}
	return out
}

type fakeCompleter struct {
	attempts [][]string
	errs     []error

	calls   int
	systems []string
	users   []string
}

func (c *fakeCompleter) Stream(_ context.Context, system, user string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		i := c.calls
		c.calls++
		c.systems = append(c.systems, system)
		c.users = append(c.users, user)
		if i < len(c.errs) && c.errs[i] != nil {
			yield("", c.errs[i])
			return
		}
		if i >= len(c.attempts) {
			return
		}
		for _, f := range c.attempts[i] {
			if !yield(f, nil) {
				return
			}
		}
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Model:     config.DefaultModel,
		ScopeRoot: config.DefaultScopeRoot,
		Remote:    config.DefaultRemote,
		DiffLimit: config.DefaultDiffLimit,
		AI:        config.AIAsk,
	}
}

type harness struct {
	repo     *fakeRepo
	prompter *fakePrompter
	status   *fakeStatus
	llm      *fakeCompleter
	flow     *CommitFlow
}

func newHarness(t *testing.T, repo *fakeRepo, llm *fakeCompleter, opts CommitOptions, answers ...answer) *harness {
	t.Helper()
	if llm == nil {
		llm = &fakeCompleter{}
	}
	h := &harness{
		repo:     repo,
		prompter: newFakePrompter(t, answers...),
		status:   &fakeStatus{},
		llm:      llm,
	}
	h.flow = NewCommitFlow(h.repo, h.llm, h.prompter, h.status, testConfig(), opts)
	return h
}
