package nlp

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/conversify/conversify/internal/core"
)

const (
	confidenceThreshold = 0.6
	secondaryFactor     = 0.8
)

// Lexicon is the in-process annotator: intent classification by example-phrase
// overlap, keyword topic extraction and wordlist sentiment. Deterministic, so
// it doubles as the canned collaborator in tests. Safe for concurrent use; all
// state is read-only after construction.
type Lexicon struct {
	intents   map[string][]string
	intentOrd []string
	topics    map[string][]string
	topicOrd  []string
	positive  map[string]struct{}
	negative  map[string]struct{}
}

func NewLexicon() *Lexicon {
	l := &Lexicon{
		intents: map[string][]string{
			"greeting":      {"hi", "hello", "hey"},
			"farewell":      {"bye", "goodbye", "see you"},
			"thank":         {"thanks", "thank you"},
			"help":          {"help", "assist", "support"},
			"about":         {"who are you", "what are you"},
			"capabilities":  {"what can you do", "features"},
			"question":      {"what", "how", "why", "when", "where"},
			"clarification": {"explain", "clarify", "mean"},
			"like":          {"i like", "i love", "my favorite"},
			"prefer":        {"i prefer", "i would rather"},
			"enjoy":         {"i enjoy", "so much fun"},
			"dislike":       {"i dislike", "i don't like", "not a fan"},
			"hate":          {"i hate", "i can't stand"},
			"avoid":         {"i avoid", "keep me away"},
		},
		topics: map[string][]string{
			"technology":        {"computer", "software", "code", "programming", "tech", "app", "internet", "ai"},
			"business":          {"work", "company", "market", "job", "office", "meeting", "project"},
			"personal":          {"family", "friend", "home", "life", "feel", "weekend", "hobby"},
			"general inquiry":   {"question", "wondering", "curious", "info", "information"},
			"technical support": {"error", "bug", "crash", "broken", "fix", "issue", "problem"},
			"feedback":          {"feedback", "suggest", "suggestion", "improve", "review", "rating"},
		},
		positive: wordSet("good", "great", "love", "like", "enjoy", "awesome", "happy",
			"excellent", "wonderful", "thanks", "nice", "fun", "amazing", "best"),
		negative: wordSet("bad", "hate", "terrible", "awful", "sad", "angry", "problem",
			"issue", "error", "broken", "worst", "annoying", "dislike", "frustrating"),
	}

	for intent := range l.intents {
		l.intentOrd = append(l.intentOrd, intent)
	}
	sort.Strings(l.intentOrd)
	for topic := range l.topics {
		l.topicOrd = append(l.topicOrd, topic)
	}
	sort.Strings(l.topicOrd)

	return l
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func (l *Lexicon) Annotate(ctx context.Context, text string) (core.Annotation, error) {
	lower := strings.ToLower(text)
	tokens := tokenize(lower)

	intent := l.classify(lower, tokens)
	topics := l.extractTopics(tokens)
	sentiment := l.scoreSentiment(tokens)
	entities := extractEntities(text)

	intent.Entities = map[string][]string{"topics": topics}
	for kind, values := range entities {
		intent.Entities[kind] = values
	}

	return core.Annotation{
		Sentiment: sentiment,
		Topics:    topics,
		Intent:    intent,
		Entities:  entities,
	}, nil
}

// classify scores every intent by its best example and applies the confidence
// threshold; runner-up intents above 80% of the threshold become secondary.
func (l *Lexicon) classify(lower string, tokens []string) core.Intent {
	scores := make(map[string]float64, len(l.intentOrd))
	for _, intent := range l.intentOrd {
		var best float64
		for _, example := range l.intents[intent] {
			if s := matchScore(lower, tokens, example); s > best {
				best = s
			}
		}
		scores[intent] = best
	}

	primary, confidence := "unknown", 0.0
	for _, intent := range l.intentOrd {
		if scores[intent] > confidence {
			primary, confidence = intent, scores[intent]
		}
	}
	if confidence < confidenceThreshold {
		return core.Intent{Primary: "unknown", Confidence: 0.0}
	}

	var secondary []string
	for _, intent := range l.intentOrd {
		if intent != primary && scores[intent] >= confidenceThreshold*secondaryFactor {
			secondary = append(secondary, intent)
		}
	}

	return core.Intent{Primary: primary, Confidence: confidence, Secondary: secondary}
}

// matchScore is the fraction of the example's words present in the text.
// Multi-word examples also match as a whole phrase.
func matchScore(lower string, tokens []string, example string) float64 {
	if strings.Contains(lower, example) && containsWord(tokens, firstWord(example)) {
		return 1.0
	}

	exampleTokens := strings.Fields(example)
	if len(exampleTokens) == 0 {
		return 0.0
	}
	matched := 0
	for _, et := range exampleTokens {
		if containsWord(tokens, et) {
			matched++
		}
	}
	return float64(matched) / float64(len(exampleTokens))
}

func firstWord(s string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}
	return s
}

func containsWord(tokens []string, word string) bool {
	for _, t := range tokens {
		if t == word {
			return true
		}
	}
	return false
}

// extractTopics returns candidate labels ordered by keyword hit count.
func (l *Lexicon) extractTopics(tokens []string) []string {
	type hit struct {
		label string
		count int
	}
	var hits []hit
	for _, label := range l.topicOrd {
		count := 0
		for _, kw := range l.topics[label] {
			if containsWord(tokens, kw) {
				count++
			}
		}
		if count > 0 {
			hits = append(hits, hit{label: label, count: count})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].count > hits[j].count })

	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.label)
	}
	return out
}

// scoreSentiment is (positive-negative)/(positive+negative), clamped to
// [-1, 1], 0 for neutral text.
func (l *Lexicon) scoreSentiment(tokens []string) float64 {
	var pos, neg int
	for _, t := range tokens {
		if _, ok := l.positive[t]; ok {
			pos++
		}
		if _, ok := l.negative[t]; ok {
			neg++
		}
	}
	total := pos + neg
	if total == 0 {
		return 0.0
	}
	return float64(pos-neg) / float64(total)
}

// extractEntities groups capitalized words that do not start a sentence,
// a cheap stand-in for named-entity recognition.
func extractEntities(text string) map[string][]string {
	var names []string
	fields := strings.Fields(text)
	for i, f := range fields {
		if i == 0 {
			continue
		}
		prev := fields[i-1]
		if strings.HasSuffix(prev, ".") || strings.HasSuffix(prev, "!") || strings.HasSuffix(prev, "?") {
			continue
		}
		trimmed := strings.TrimFunc(f, func(r rune) bool { return !unicode.IsLetter(r) })
		if trimmed == "" {
			continue
		}
		if unicode.IsUpper([]rune(trimmed)[0]) {
			names = append(names, trimmed)
		}
	}
	if len(names) == 0 {
		return nil
	}
	return map[string][]string{"named_entities": names}
}

func tokenize(lower string) []string {
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
}
