package runner

import (
	"context"
	"strings"
	"testing"

	"github.com/intizar/easyapply/pkg/domain"
	"github.com/intizar/easyapply/pkg/session"
)

type fakeCard struct {
	text string
	id   string
}

func (c *fakeCard) IsPresent() bool             { return true }
func (c *fakeCard) Text() string                { return c.text }
func (c *fakeCard) Click() error                { return nil }
func (c *fakeCard) SendText(value string) error { return nil }

func (c *fakeCard) Attr(name string) string {
	if name == "data-job-id" {
		return c.id
	}
	return ""
}

func (c *fakeCard) Find(sel session.Selector) []session.Control { return nil }

// searchNav serves one page of cards for the first search URL and empty
// pages for everything after.
type searchNav struct {
	cards   []session.Control
	visited []string
}

func (n *searchNav) GoTo(url string) error {
	n.visited = append(n.visited, url)
	return nil
}

func (n *searchNav) Title() string      { return "" }
func (n *searchNav) PageText() string   { return "" }
func (n *searchNav) PageSource() string { return "" }

func (n *searchNav) Find(sel session.Selector) []session.Control {
	if sel != session.SelJobCards || len(n.visited) > 1 {
		return nil
	}
	return n.cards
}

func drain(t *testing.T, source JobSource) []domain.JobRecord {
	t.Helper()
	var out []domain.JobRecord
	for {
		job, ok, err := source.Next(context.Background())
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			return out
		}
		out = append(out, job)
	}
}

func TestSearchSourceFiltersCards(t *testing.T) {
	nav := &searchNav{cards: []session.Control{
		&fakeCard{text: "Go Developer at Initech", id: "1001"},
		&fakeCard{text: "Go Developer at Initech\nApplied 3 days ago", id: "1002"},
		&fakeCard{text: "Crypto Evangelist at MoonCorp", id: "1003"},
		&fakeCard{text: "Backend Engineer at Hooli", id: ""},
		&fakeCard{text: "Backend Engineer at Hooli", id: "search"},
		&fakeCard{text: "Platform Engineer at Initrode", id: "1006"},
	}}
	source := NewSearchSource(nav, SearchConfig{
		Positions: []string{"golang"},
		Locations: []string{"London"},
		Blacklist: []string{"Crypto"},
	})

	got := drain(t, source)
	want := []string{"1001", "1006"}
	if len(got) != len(want) {
		t.Fatalf("got %d jobs, want %d", len(got), len(want))
	}
	for i, job := range got {
		if job.ID != want[i] {
			t.Errorf("job[%d].ID = %s, want %s", i, job.ID, want[i])
		}
	}
}

func TestSearchSourceExhaustsCombinations(t *testing.T) {
	nav := &searchNav{}
	source := NewSearchSource(nav, SearchConfig{
		Positions: []string{"golang", "backend"},
		Locations: []string{"London"},
	})

	if got := drain(t, source); len(got) != 0 {
		t.Fatalf("empty pages yielded %d jobs", len(got))
	}
	// One empty page visit per position/location combination.
	if len(nav.visited) != 2 {
		t.Errorf("visited %d pages, want 2", len(nav.visited))
	}
}

func TestSearchURL(t *testing.T) {
	source := NewSearchSource(&searchNav{}, SearchConfig{
		Positions:        []string{"go developer"},
		Locations:        []string{"United Kingdom"},
		ExperienceLevels: []int{2, 3},
	})

	u := source.searchURL("go developer", "United Kingdom", 25)
	for _, want := range []string{
		"keywords=go+developer",
		"location=United+Kingdom",
		"start=25",
		"f_E=2,3",
		"f_LF=f_AL",
	} {
		if !strings.Contains(u, want) {
			t.Errorf("searchURL missing %q: %s", want, u)
		}
	}
}
