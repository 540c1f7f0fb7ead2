package answers

import (
	"context"
	"errors"
	"testing"
	"time"
)

// memPersister records saves in order, optionally failing.
type memPersister struct {
	saved []string
	pairs map[string]string
	err   error
}

func newMemPersister() *memPersister {
	return &memPersister{pairs: make(map[string]string)}
}

func (p *memPersister) SaveAnswer(ctx context.Context, question, answer string) error {
	if p.err != nil {
		return p.err
	}
	if _, ok := p.pairs[question]; !ok {
		p.saved = append(p.saved, question)
		p.pairs[question] = answer
	}
	return nil
}

func newTestResolver(p Persister, known map[string]string) *Resolver {
	return NewResolver(p, known, DefaultRules("£60,000"), WithSleep(func(time.Duration) {}))
}

func TestResolveRules(t *testing.T) {
	tests := []struct {
		question string
		want     string
	}{
		{"How many years of C++ do you have?", "1"},
		{"Do you require sponsorship?", "No"},
		{"Do you have a valid visa?", "Yes"},
		{"Have you worked remotely before?", "Yes"},
		{"Are you a US citizen?", "Yes"},
		{"What are your salary expectations?", "£60,000"},
		{"Can you commute to the office?", "Yes"},
		{"What is your gender?", "Male"},
		{"What is your ethnicity?", "Wish not to answer"},
		{"Do you identify as LGBTQ+?", "Yes"}, // "do you " precedes "lgbtq"
		{"Government reporting category?", "I do not wish to self-identify"},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			r := newTestResolver(newMemPersister(), nil)
			got, err := r.Resolve(context.Background(), tt.question)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.question, got, tt.want)
			}
		})
	}
}

func TestResolveRulePrecedence(t *testing.T) {
	r := newTestResolver(newMemPersister(), nil)

	// "how many" is ordered before "sponsor": first match wins.
	got, err := r.Resolve(context.Background(), "How many years of experience do you have with sponsor programs?")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "1" {
		t.Errorf("Resolve = %q, want %q (first-match-wins ordering)", got, "1")
	}
}

func TestResolveIdempotent(t *testing.T) {
	p := newMemPersister()
	r := newTestResolver(p, nil)
	ctx := context.Background()

	first, err := r.Resolve(ctx, "Do you have a valid visa?")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := r.Resolve(ctx, "Do you have a valid visa?")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if first != second {
		t.Errorf("answers differ across calls: %q vs %q", first, second)
	}
	if len(p.saved) != 1 {
		t.Errorf("store contains %d entries, want exactly 1", len(p.saved))
	}
	if p.saved[0] != "do you have a valid visa?" {
		t.Errorf("stored question = %q, want normalized form", p.saved[0])
	}
}

func TestResolvePrefersStoredAnswer(t *testing.T) {
	known := map[string]string{"do you have a valid visa?": "No"}
	r := newTestResolver(newMemPersister(), known)

	got, err := r.Resolve(context.Background(), "Do You Have A Valid Visa?")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "No" {
		t.Errorf("Resolve = %q, want stored answer %q over the rule cascade", got, "No")
	}
}

func TestResolveSentinel(t *testing.T) {
	p := newMemPersister()
	paused := false
	r := NewResolver(p, nil, DefaultRules(""), WithSleep(func(time.Duration) { paused = true }))

	got, err := r.Resolve(context.Background(), "Describe your proudest achievement")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != Sentinel {
		t.Errorf("Resolve = %q, want sentinel %q", got, Sentinel)
	}
	if !paused {
		t.Error("expected a pause for operator intervention")
	}
	if p.pairs["describe your proudest achievement"] != Sentinel {
		t.Error("sentinel answer must be persisted like any other")
	}

	// Second occurrence reuses the persisted sentinel without pausing again.
	paused = false
	if _, err := r.Resolve(context.Background(), "Describe your proudest achievement"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if paused {
		t.Error("persisted sentinel must not trigger another pause")
	}
}

func TestResolvePersistFailure(t *testing.T) {
	p := newMemPersister()
	p.err = errors.New("disk full")
	r := newTestResolver(p, nil)

	if _, err := r.Resolve(context.Background(), "Do you have a valid visa?"); err == nil {
		t.Fatal("expected persistence failure to surface")
	}
}

func TestIsZeroEquivalent(t *testing.T) {
	for _, zero := range []string{"0", "0.0", "", "none", "None", " 0 "} {
		if !IsZeroEquivalent(zero) {
			t.Errorf("IsZeroEquivalent(%q) = false, want true", zero)
		}
	}
	for _, nonzero := range []string{"1", "2.5", "Yes"} {
		if IsZeroEquivalent(nonzero) {
			t.Errorf("IsZeroEquivalent(%q) = true, want false", nonzero)
		}
	}
}
