// Package answers resolves free-text application questions to answers.
//
// Resolution is total and memoizing: the persisted map is checked first,
// then an ordered rule table, then a sentinel placeholder that an operator
// can correct later. Whatever branch produced the answer, the pair is
// persisted before it is returned, so the same question is never asked
// twice, within a run or across restarts.
package answers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Sentinel is recorded when no stored answer or rule resolves a question.
const Sentinel = "user provided"

// Rule maps a question substring to an answer. Rules are evaluated in
// order; the first match wins, so order carries meaning.
type Rule struct {
	Match  string
	Answer string
}

// DefaultRules returns the built-in cascade. salaryText is the operator's
// configured salary-expectation answer.
func DefaultRules(salaryText string) []Rule {
	return []Rule{
		{"how many", "1"},
		{"experience", "1"},
		{"sponsor", "No"},
		{"do you ", "Yes"},
		{"have you ", "Yes"},
		{"us citizen", "Yes"},
		{"are you ", "Yes"},
		{"salary", salaryText},
		{"can you", "Yes"},
		{"gender", "Male"},
		{"race", "Wish not to answer"},
		{"lgbtq", "Wish not to answer"},
		{"ethnicity", "Wish not to answer"},
		{"nationality", "Wish not to answer"},
		{"government", "I do not wish to self-identify"},
		{"are you legally", "Yes"},
	}
}

// Persister is the durable append primitive the resolver writes through.
type Persister interface {
	SaveAnswer(ctx context.Context, question, answer string) error
}

// Resolver answers questions deterministically and learns new ones.
type Resolver struct {
	rules   []Rule
	known   map[string]string
	persist Persister

	// pause gives the operator a window to intervene out-of-band when the
	// sentinel is produced.
	pause time.Duration
	sleep func(time.Duration)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPause overrides the sentinel pause duration.
func WithPause(d time.Duration) Option {
	return func(r *Resolver) { r.pause = d }
}

// WithSleep overrides the sleep function, for tests.
func WithSleep(fn func(time.Duration)) Option {
	return func(r *Resolver) { r.sleep = fn }
}

// NewResolver builds a resolver over the persisted map loaded at startup.
func NewResolver(persist Persister, known map[string]string, rules []Rule, opts ...Option) *Resolver {
	if known == nil {
		known = make(map[string]string)
	}
	r := &Resolver{
		rules:   rules,
		known:   known,
		persist: persist,
		pause:   15 * time.Second,
		sleep:   time.Sleep,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Normalize folds a question to its stored form.
func Normalize(question string) string {
	return strings.TrimSpace(strings.ToLower(question))
}

// Resolve returns the answer for question. It always produces a value; the
// error is non-nil only when persisting the pair failed, which the caller
// must surface since it breaks the answer-reuse invariant.
func (r *Resolver) Resolve(ctx context.Context, question string) (string, error) {
	q := Normalize(question)
	if q == "" {
		return "", fmt.Errorf("empty question")
	}

	if answer, ok := r.known[q]; ok {
		log.Debug().Str("question", q).Str("answer", answer).Msg("using saved answer")
		return answer, nil
	}

	answer, matched := r.applyRules(q)
	if !matched {
		log.Info().Str("question", q).Msg("no rule matched, recording sentinel answer")
		answer = Sentinel
		r.sleep(r.pause)
	}

	log.Info().Str("question", q).Str("answer", answer).Msg("answering question")

	if err := r.persist.SaveAnswer(ctx, q, answer); err != nil {
		return answer, fmt.Errorf("persist answer for %q: %w", q, err)
	}
	r.known[q] = answer
	return answer, nil
}

func (r *Resolver) applyRules(q string) (string, bool) {
	for _, rule := range r.rules {
		if strings.Contains(q, rule.Match) {
			return rule.Answer, true
		}
	}
	return "", false
}

// IsZeroEquivalent reports whether answer means "no experience" for the
// purposes of the experience-skip check.
func IsZeroEquivalent(answer string) bool {
	switch strings.TrimSpace(strings.ToLower(answer)) {
	case "0", "0.0", "", "none":
		return true
	}
	return false
}
