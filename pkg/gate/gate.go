// Package gate decides whether a discovered job is worth attempting at all:
// dedup against the outcome ledger, blacklist and title-keyword filtering,
// and the salary threshold.
package gate

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/intizar/easyapply/pkg/domain"
)

// Decision is the outcome of the eligibility check. A rejection carries the
// ledger outcome kind and a human-readable reason; it is a normal result,
// not an error.
type Decision struct {
	Proceed bool
	Outcome domain.Outcome
	Reason  string
}

func proceed() Decision {
	return Decision{Proceed: true}
}

func reject(outcome domain.Outcome, reason string) Decision {
	return Decision{Outcome: outcome, Reason: reason}
}

// Config holds the filtering knobs.
type Config struct {
	Blacklist       []string // case-sensitive substrings of title or company
	BlacklistTitles []string // keywords checked against the full page title (job and company)
	MinSalaryYearly int
	MinSalaryHourly float64
}

// Gate is a pure decision maker. The caller records rejections in the
// ledger; the gate itself has no side effects beyond its seen-set.
type Gate struct {
	cfg  Config
	seen map[string]bool
}

// New builds a gate over a seen-set reconstructed from the ledger (job ids
// with any outcome inside the dedup window).
func New(cfg Config, seen map[string]bool) *Gate {
	if seen == nil {
		seen = make(map[string]bool)
	}
	return &Gate{cfg: cfg, seen: seen}
}

// MarkSeen records a processed job id so it is not attempted again within
// this run. The job id is the sole identity key.
func (g *Gate) MarkSeen(jobID string) {
	g.seen[jobID] = true
}

// Seen reports whether jobID was already handled inside the dedup window.
func (g *Gate) Seen(jobID string) bool {
	return g.seen[jobID]
}

// ShouldAttempt decides whether to enter the apply flow for job.
func (g *Gate) ShouldAttempt(job domain.JobRecord) Decision {
	if g.seen[job.ID] {
		return reject(domain.OutcomeAlreadyApplied, "job id seen within dedup window")
	}

	for _, entry := range g.cfg.Blacklist {
		if entry == "" {
			continue
		}
		if strings.Contains(job.Title, entry) || strings.Contains(job.Company, entry) {
			return reject(domain.OutcomeSkippedBlacklist, fmt.Sprintf("blacklist entry %q matched", entry))
		}
	}

	// The keyword filter sees the whole page title, title and company both;
	// staffing agencies often carry the offending word in their name only.
	for _, word := range g.cfg.BlacklistTitles {
		if word == "" {
			continue
		}
		if strings.Contains(job.Title, word) || strings.Contains(job.Company, word) {
			return reject(domain.OutcomeSkippedBlacklist, fmt.Sprintf("blacklisted keyword %q in title", word))
		}
	}

	yearly, hourly := ParseSalary(job.Description)
	if !MeetsRequirement(yearly, hourly, g.cfg.MinSalaryYearly, g.cfg.MinSalaryHourly) {
		log.Info().
			Str("job_id", job.ID).
			Int("yearly", yearly).
			Float64("hourly", hourly).
			Msg("salary below requirements")
		return reject(domain.OutcomeSkippedSalary, salaryReason(yearly, hourly))
	}

	return proceed()
}

func salaryReason(yearly int, hourly float64) string {
	if yearly > 0 {
		return fmt.Sprintf("yearly salary £%d below minimum", yearly)
	}
	return fmt.Sprintf("hourly salary £%g below minimum", hourly)
}
