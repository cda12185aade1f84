package core

import (
	"strconv"
	"strings"
	"time"
)

const (
	AppName       = "Conversify"
	AppVersion    = "0.1.0"
	RepositoryURL = "https://github.com/conversify/conversify"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Intent is the classified purpose of an utterance.
type Intent struct {
	Primary    string              `json:"primary"`
	Confidence float64             `json:"confidence"`
	Secondary  []string            `json:"secondary,omitempty"`
	Entities   map[string][]string `json:"entities,omitempty"`
}

// Annotation is what the NLP collaborator derives from raw text.
type Annotation struct {
	Sentiment float64             `json:"sentiment"`
	Topics    []string            `json:"topics"`
	Intent    Intent              `json:"intent"`
	Entities  map[string][]string `json:"entities,omitempty"`
	Embedding []float32           `json:"embedding,omitempty"`
}

// Message is one utterance plus its derived annotations. Annotations are set
// once by the annotator right after construction; after the message enters a
// conversation context it is never mutated again.
type Message struct {
	Role       string              `json:"role"`
	Content    string              `json:"content"`
	Timestamp  time.Time           `json:"timestamp"`
	ID         string              `json:"id"`
	Intent     *Intent             `json:"intent,omitempty"`
	Sentiment  float64             `json:"sentiment"`
	Topics     []string            `json:"topics,omitempty"`
	Embedding  []float32           `json:"-"`
	References []string            `json:"references,omitempty"`
	ContextID  string              `json:"context_id,omitempty"`
	Entities   map[string][]string `json:"entities,omitempty"`
}

// NewMessage builds a message with a time-derived ID. The ID doubles as the
// source for hour-of-day interaction stats, so it encodes the unix timestamp.
func NewMessage(role, content string) Message {
	now := time.Now()
	return Message{
		Role:      role,
		Content:   content,
		Timestamp: now,
		ID:        strconv.FormatFloat(float64(now.UnixNano())/1e9, 'f', 6, 64),
	}
}

// Identity is the equality key of a message. Two messages with the same
// identity are interchangeable even if their annotations differ; use this for
// deduplication, not as a full structural comparison.
type Identity struct {
	Role    string
	Content string
	ID      string
}

func (m Message) Identity() Identity {
	return Identity{Role: m.Role, Content: m.Content, ID: m.ID}
}

// Hour returns the hour-of-day bucket for the message, decoded from the
// time-derived ID with the wall clock as fallback.
func (m Message) Hour() int {
	if sec, err := strconv.ParseFloat(m.ID, 64); err == nil {
		return time.Unix(int64(sec), 0).Hour()
	}
	return m.Timestamp.Hour()
}

// WordCount is the message length in whitespace-separated words.
func (m Message) WordCount() int {
	return len(strings.Fields(m.Content))
}

// Annotate applies the collaborator's output to the message.
func (m *Message) Annotate(a Annotation) {
	intent := a.Intent
	m.Intent = &intent
	m.Sentiment = a.Sentiment
	m.Topics = a.Topics
	m.Embedding = a.Embedding

	m.Entities = map[string][]string{"topics": a.Topics}
	for kind, values := range a.Entities {
		m.Entities[kind] = values
	}
}
