package command

import (
	"context"
	"strings"
	"testing"

	"github.com/conversify/conversify/internal/core"
	"github.com/conversify/conversify/internal/service/engine"
)

type fakeViews struct {
	state core.ConversationState
	rels  map[string][]string
	slope float64
	sum   engine.Summary
	dump  engine.Export
}

func (f *fakeViews) State(string) core.ConversationState           { return f.state }
func (f *fakeViews) TopicRelationships(string) map[string][]string { return f.rels }
func (f *fakeViews) SentimentTrend(string) float64                 { return f.slope }
func (f *fakeViews) Summarize(string) engine.Summary               { return f.sum }
func (f *fakeViews) Export(string) engine.Export                   { return f.dump }

func newTestRouter(views EngineViews) *Router {
	return New([]core.Command{
		NewTopicsCommand(views),
		NewTrendsCommand(views),
		NewSummarizeCommand(views),
	})
}

func TestRouterPassesThroughPlainText(t *testing.T) {
	r := newTestRouter(&fakeViews{})
	if _, handled := r.Execute(context.Background(), "s1", "hello there"); handled {
		t.Error("plain text should not be handled as a command")
	}
}

func TestRouterUnknownCommand(t *testing.T) {
	r := newTestRouter(&fakeViews{})
	out, handled := r.Execute(context.Background(), "s1", "/bogus")
	if !handled {
		t.Fatal("slash input must always be handled")
	}
	if !strings.Contains(out, "Unknown command: /bogus") {
		t.Errorf("got %q", out)
	}
}

func TestTopicsCommand(t *testing.T) {
	views := &fakeViews{rels: map[string][]string{
		"technology": {"business"},
		"business":   {"technology"},
	}}
	out, handled := newTestRouter(views).Execute(context.Background(), "s1", "/topics")
	if !handled {
		t.Fatal("expected /topics to be handled")
	}
	for _, want := range []string{"technology", "business", "related:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTopicsCommandEmpty(t *testing.T) {
	out, _ := newTestRouter(&fakeViews{}).Execute(context.Background(), "s1", "/topics")
	if !strings.Contains(out, "No topics discussed yet") {
		t.Errorf("got %q", out)
	}
}

func TestTrendsCommand(t *testing.T) {
	tests := []struct {
		name  string
		slope float64
		want  string
	}{
		{"improving", 0.2, "improving"},
		{"declining", -0.2, "declining"},
		{"steady", 0.0, "steady"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views := &fakeViews{slope: tt.slope, state: core.StateEngaged}
			out, _ := newTestRouter(views).Execute(context.Background(), "s1", "/trends")
			if !strings.Contains(out, tt.want) {
				t.Errorf("slope %v: output missing %q:\n%s", tt.slope, tt.want, out)
			}
		})
	}
}

func TestSummarizeCommand(t *testing.T) {
	views := &fakeViews{sum: engine.Summary{
		TopicCounts:     map[string]int{"technology": 3, "personal": 1},
		TotalMessages:   8,
		TopicsCovered:   2,
		DurationMinutes: 2.5,
	}}
	out, _ := newTestRouter(views).Execute(context.Background(), "s1", "/summarize")
	for _, want := range []string{"8", "technology (3 mentions)", "2.5 min"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// most mentioned topic is listed first
	if strings.Index(out, "technology") > strings.Index(out, "personal") {
		t.Error("expected technology before personal")
	}
}

func TestHelpListsEverything(t *testing.T) {
	views := &fakeViews{}
	cmds := []core.Command{
		NewTopicsCommand(views),
		NewTrendsCommand(views),
	}
	r := New(append(cmds, NewHelpCommand(cmds)))

	out, handled := r.Execute(context.Background(), "s1", "/help")
	if !handled {
		t.Fatal("expected /help to be handled")
	}
	for _, want := range []string{"/topics", "/trends", "/help"} {
		if !strings.Contains(out, want) {
			t.Errorf("help missing %q:\n%s", want, out)
		}
	}
}

func TestCommandOutputIsPlainText(t *testing.T) {
	views := &fakeViews{
		rels:  map[string][]string{"technology": {"business"}},
		slope: 0.2,
		sum:   engine.Summary{TotalMessages: 3, TopicsCovered: 1},
	}
	r := newTestRouter(views)

	for _, cmd := range []string{"/topics", "/trends", "/summarize"} {
		out, handled := r.Execute(context.Background(), "s1", cmd)
		if !handled {
			t.Fatalf("%s not handled", cmd)
		}
		// the same string is printed verbatim on every surface
		for _, markup := range []string{"**", "```", "⚙", "✅", "›"} {
			if strings.Contains(out, markup) {
				t.Errorf("%s output contains markup %q:\n%s", cmd, markup, out)
			}
		}
	}
}
