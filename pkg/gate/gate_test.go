package gate

import (
	"testing"

	"github.com/intizar/easyapply/pkg/domain"
)

func testConfig() Config {
	return Config{
		Blacklist:       []string{"Acme Staffing"},
		BlacklistTitles: []string{"Clearance"},
		MinSalaryYearly: 60000,
		MinSalaryHourly: 32,
	}
}

func TestShouldAttemptDedup(t *testing.T) {
	g := New(testConfig(), map[string]bool{"123": true})

	d := g.ShouldAttempt(domain.JobRecord{ID: "123", Title: "Engineer"})
	if d.Proceed {
		t.Fatal("expected rejection for seen job id")
	}
	if d.Outcome != domain.OutcomeAlreadyApplied {
		t.Errorf("outcome = %s, want %s", d.Outcome, domain.OutcomeAlreadyApplied)
	}

	// Identity is the job id only: same title under a fresh id proceeds.
	d = g.ShouldAttempt(domain.JobRecord{ID: "456", Title: "Engineer"})
	if !d.Proceed {
		t.Errorf("expected fresh job id to proceed, got %s (%s)", d.Outcome, d.Reason)
	}
}

func TestShouldAttemptMarkSeen(t *testing.T) {
	g := New(testConfig(), nil)

	if d := g.ShouldAttempt(domain.JobRecord{ID: "789"}); !d.Proceed {
		t.Fatalf("expected proceed, got %s", d.Outcome)
	}
	g.MarkSeen("789")
	if d := g.ShouldAttempt(domain.JobRecord{ID: "789"}); d.Proceed {
		t.Error("expected rejection after MarkSeen")
	}
}

func TestShouldAttemptBlacklist(t *testing.T) {
	tests := []struct {
		name string
		job  domain.JobRecord
		want domain.Outcome
	}{
		{
			name: "company blacklisted",
			job:  domain.JobRecord{ID: "1", Title: "Engineer", Company: "Acme Staffing Ltd"},
			want: domain.OutcomeSkippedBlacklist,
		},
		{
			name: "title keyword blacklisted",
			job:  domain.JobRecord{ID: "2", Title: "Engineer (Security Clearance required)"},
			want: domain.OutcomeSkippedBlacklist,
		},
		{
			name: "title keyword in company segment",
			job:  domain.JobRecord{ID: "3", Title: "Engineer", Company: "Clearance Careers Ltd"},
			want: domain.OutcomeSkippedBlacklist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(testConfig(), nil)
			d := g.ShouldAttempt(tt.job)
			if d.Proceed {
				t.Fatal("expected rejection")
			}
			if d.Outcome != tt.want {
				t.Errorf("outcome = %s, want %s", d.Outcome, tt.want)
			}
		})
	}
}

func TestShouldAttemptBlacklistCaseSensitive(t *testing.T) {
	g := New(testConfig(), nil)
	d := g.ShouldAttempt(domain.JobRecord{ID: "1", Company: "acme staffing"})
	if !d.Proceed {
		t.Error("blacklist match is case-sensitive, lowercase company should pass")
	}
}

func TestShouldAttemptSalary(t *testing.T) {
	g := New(testConfig(), nil)

	d := g.ShouldAttempt(domain.JobRecord{ID: "1", Title: "Engineer", Description: "£40,000 per year"})
	if d.Proceed {
		t.Fatal("expected salary rejection")
	}
	if d.Outcome != domain.OutcomeSkippedSalary {
		t.Errorf("outcome = %s, want %s", d.Outcome, domain.OutcomeSkippedSalary)
	}

	d = g.ShouldAttempt(domain.JobRecord{ID: "2", Title: "Engineer", Description: "£75,000 per year"})
	if !d.Proceed {
		t.Errorf("expected proceed for salary above threshold, got %s", d.Reason)
	}

	// No parseable figure: apply by default.
	d = g.ShouldAttempt(domain.JobRecord{ID: "3", Title: "Engineer", Description: "Competitive salary"})
	if !d.Proceed {
		t.Errorf("expected proceed when no figure found, got %s", d.Reason)
	}
}
