package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/conversify/conversify/internal/config"
	"github.com/conversify/conversify/internal/core"
	"github.com/conversify/conversify/internal/service/cache"
	"github.com/conversify/conversify/internal/service/responder"
)

// cannedAnnotator returns a fixed annotation per input text.
type cannedAnnotator struct {
	byText map[string]core.Annotation
}

func (a *cannedAnnotator) Annotate(ctx context.Context, text string) (core.Annotation, error) {
	if ann, ok := a.byText[text]; ok {
		return ann, nil
	}
	return core.Annotation{Intent: core.Intent{Primary: "statement", Confidence: 0.7}}, nil
}

type failingAnnotator struct{}

func (failingAnnotator) Annotate(ctx context.Context, text string) (core.Annotation, error) {
	return core.Annotation{}, errors.New("model server unreachable")
}

type emptyStore struct{}

func (emptyStore) Lookup(mode, intent string) []string { return nil }

type recordingRepo struct {
	mu       sync.Mutex
	messages []core.Message
}

func (r *recordingRepo) AddMessage(ctx context.Context, sessionID string, msg core.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return nil
}

func (r *recordingRepo) GetMessages(ctx context.Context, sessionID string, limit int) ([]core.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.Message, len(r.messages))
	copy(out, r.messages)
	return out, nil
}

func newEngine(t *testing.T, annotator core.Annotator, repo core.MessagesRepository) *Engine {
	t.Helper()
	gen, err := responder.New(emptyStore{}, cache.New(64), responder.WithRandSource(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("responder.New: %v", err)
	}
	cfg := &config.AppConfig{Mode: "casual", MaxHistorySize: 100, CacheSize: 64}
	return New(cfg, annotator, gen, repo)
}

func TestNextState(t *testing.T) {
	tests := []struct {
		name    string
		current core.ConversationState
		intent  string
		want    core.ConversationState
	}{
		{name: "greeting_resets_from_engaged", current: core.StateEngaged, intent: "greeting", want: core.StateInitial},
		{name: "greeting_resets_from_concluding", current: core.StateConcluding, intent: "greeting", want: core.StateInitial},
		{name: "greeting_resets_from_idle", current: core.StateIdle, intent: "greeting", want: core.StateInitial},
		{name: "farewell_concludes_from_initial", current: core.StateInitial, intent: "farewell", want: core.StateConcluding},
		{name: "farewell_concludes_from_engaged", current: core.StateEngaged, intent: "farewell", want: core.StateConcluding},
		{name: "farewell_concludes_from_clarifying", current: core.StateClarifying, intent: "farewell", want: core.StateConcluding},
		{name: "question_engages", current: core.StateInitial, intent: "question", want: core.StateEngaged},
		{name: "clarification_engages", current: core.StateConcluding, intent: "clarification", want: core.StateEngaged},
		{name: "about_engages", current: core.StateInitial, intent: "about", want: core.StateEngaged},
		{name: "capabilities_engages", current: core.StateIdle, intent: "capabilities", want: core.StateEngaged},
		{name: "help_engages", current: core.StateInitial, intent: "help", want: core.StateEngaged},
		{name: "other_from_initial_engages", current: core.StateInitial, intent: "statement", want: core.StateEngaged},
		{name: "other_keeps_engaged", current: core.StateEngaged, intent: "statement", want: core.StateEngaged},
		{name: "other_keeps_concluding", current: core.StateConcluding, intent: "statement", want: core.StateConcluding},
		{name: "other_keeps_idle", current: core.StateIdle, intent: "statement", want: core.StateIdle},
		{name: "unknown_keeps_clarifying", current: core.StateClarifying, intent: "unknown", want: core.StateClarifying},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextState(tt.current, tt.intent); got != tt.want {
				t.Errorf("NextState(%s, %q) = %s, want %s", tt.current, tt.intent, got, tt.want)
			}
		})
	}
}

func TestEngine_PipelineAccumulatesBeforeGenerating(t *testing.T) {
	ann := &cannedAnnotator{byText: map[string]core.Annotation{
		"I love jazz and blues": {
			Sentiment: 0.8,
			Topics:    []string{"jazz", "blues"},
			Intent:    core.Intent{Primary: "like", Confidence: 0.9},
		},
	}}
	e := newEngine(t, ann, nil)

	reply, err := e.Process(context.Background(), "s1", "I love jazz and blues")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if reply == "" {
		t.Fatal("empty reply")
	}

	// The current turn's message must be visible in context and profile
	rel := e.TopicRelationships("s1")
	if len(rel["jazz"]) != 1 || rel["jazz"][0] != "blues" {
		t.Errorf("topic graph = %v, want jazz<->blues", rel)
	}
	snap := e.ProfileSnapshot("s1")
	if snap.Interests["jazz"] != 1.0 {
		t.Errorf("interests = %v, want jazz:1", snap.Interests)
	}
	if snap.TopicPreferences["jazz"] != 1.0 {
		t.Errorf("preferences = %v, want jazz:1", snap.TopicPreferences)
	}
}

func TestEngine_AnnotationFailureSurvives(t *testing.T) {
	e := newEngine(t, failingAnnotator{}, nil)

	reply, err := e.Process(context.Background(), "s1", "does the session survive")
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if reply == "" {
		t.Fatal("empty reply after annotation failure")
	}

	// Neutral message recorded, no partial annotation state
	sum := e.Summarize("s1")
	if sum.TotalMessages != 1 {
		t.Errorf("messages = %d, want 1", sum.TotalMessages)
	}
	if sum.TopicsCovered != 0 {
		t.Errorf("topics = %d, want 0", sum.TopicsCovered)
	}
	// Unknown intent from INITIAL still engages
	if got := e.State("s1"); got != core.StateEngaged {
		t.Errorf("state = %s, want engaged", got)
	}
}

func TestEngine_ArchivesBothSides(t *testing.T) {
	repo := &recordingRepo{}
	e := newEngine(t, &cannedAnnotator{}, repo)

	if _, err := e.Process(context.Background(), "s1", "store that exchange"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	msgs, _ := repo.GetMessages(context.Background(), "s1", 10)
	if len(msgs) != 2 {
		t.Fatalf("archived %d messages, want 2", len(msgs))
	}
	if msgs[0].Role != core.RoleUser || msgs[1].Role != core.RoleAssistant {
		t.Errorf("roles = %s,%s want user,assistant", msgs[0].Role, msgs[1].Role)
	}
}

func TestEngine_ForceState(t *testing.T) {
	e := newEngine(t, &cannedAnnotator{}, nil)

	e.ForceState("s1", core.StateClarifying)
	if got := e.State("s1"); got != core.StateClarifying {
		t.Errorf("state = %s, want clarifying", got)
	}

	e.ForceState("s1", core.StateIdle)
	if got := e.State("s1"); got != core.StateIdle {
		t.Errorf("state = %s, want idle", got)
	}
}

func TestEngine_SessionsAreIndependent(t *testing.T) {
	ann := &cannedAnnotator{byText: map[string]core.Annotation{
		"goodbye now": {Intent: core.Intent{Primary: "farewell", Confidence: 0.95}},
	}}
	e := newEngine(t, ann, nil)

	if _, err := e.Process(context.Background(), "a", "goodbye now"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Process(context.Background(), "b", "just chatting along"); err != nil {
		t.Fatal(err)
	}

	if got := e.State("a"); got != core.StateConcluding {
		t.Errorf("session a state = %s, want concluding", got)
	}
	if got := e.State("b"); got != core.StateEngaged {
		t.Errorf("session b state = %s, want engaged", got)
	}
}

func TestEngine_ParallelSessions(t *testing.T) {
	e := newEngine(t, &cannedAnnotator{}, &recordingRepo{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			session := fmt.Sprintf("s%d", id)
			for j := 0; j < 20; j++ {
				if _, err := e.Process(context.Background(), session, fmt.Sprintf("message %d from %d", j, id)); err != nil {
					t.Errorf("Process: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		sum := e.Summarize(fmt.Sprintf("s%d", i))
		if sum.TotalMessages != 20 {
			t.Errorf("session s%d messages = %d, want 20", i, sum.TotalMessages)
		}
	}
}

type memProfiles struct {
	mu    sync.Mutex
	snaps map[string]core.ProfileSnapshot
	loads int
	saves int
}

func newMemProfiles() *memProfiles {
	return &memProfiles{snaps: make(map[string]core.ProfileSnapshot)}
}

func (r *memProfiles) SaveSnapshot(ctx context.Context, userID string, snap core.ProfileSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps[userID] = snap
	r.saves++
	return nil
}

func (r *memProfiles) LoadSnapshot(ctx context.Context, userID string) (core.ProfileSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	return r.snaps[userID], nil
}

func TestProfilePersistedAcrossEngines(t *testing.T) {
	profiles := newMemProfiles()
	ann := &cannedAnnotator{byText: map[string]core.Annotation{
		"i love all this software talk": {
			Sentiment: 0.8,
			Topics:    []string{"technology"},
			Intent:    core.Intent{Primary: "statement", Confidence: 0.9},
		},
	}}

	eng := newEngine(t, ann, nil).WithProfiles(profiles)
	if _, err := eng.Process(context.Background(), "u1", "i love all this software talk"); err != nil {
		t.Fatal(err)
	}
	if profiles.saves == 0 {
		t.Fatal("expected a snapshot save after processing")
	}

	// a fresh engine for the same user picks up where the old one left off
	eng2 := newEngine(t, ann, nil).WithProfiles(profiles)
	if _, err := eng2.Process(context.Background(), "u1", "i love all this software talk"); err != nil {
		t.Fatal(err)
	}
	snap := eng2.ProfileSnapshot("u1")
	if got := snap.ConversationStyle["message_count"]; got != 2 {
		t.Errorf("message_count after restore = %v, want 2", got)
	}
	if snap.Interests["technology"] <= 0 {
		t.Error("expected restored interest in technology")
	}
}

func TestHydrateSkipsBlankSnapshots(t *testing.T) {
	profiles := newMemProfiles()
	eng := newEngine(t, &cannedAnnotator{}, nil).WithProfiles(profiles)

	if _, err := eng.Process(context.Background(), "new-user", "just passing through"); err != nil {
		t.Fatal(err)
	}
	if profiles.loads != 1 {
		t.Errorf("loads = %d, want exactly one hydration attempt", profiles.loads)
	}
	if got := eng.ProfileSnapshot("new-user").ConversationStyle["message_count"]; got != 1 {
		t.Errorf("message_count = %v, want 1", got)
	}
}

func TestNameDoesNotLeakAcrossSessions(t *testing.T) {
	eng := newEngine(t, &cannedAnnotator{}, nil)
	ctx := context.Background()

	if _, err := eng.Process(ctx, "session-a", "my name is Ada"); err != nil {
		t.Fatal(err)
	}

	// Run many turns in the other session so a personalization roll would
	// eventually fire if the name had leaked
	for i := 0; i < 30; i++ {
		reply, err := eng.Process(ctx, "session-b", fmt.Sprintf("tell me a story number %d", i))
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(reply, "Ada") {
			t.Fatalf("turn %d: session-b reply %q carries session-a's name", i, reply)
		}
	}
}
