// Package domain holds the shared types of the application workflow.
package domain

import "time"

// JobRecord identifies one posting. It is transient: fetched per attempt,
// never persisted beyond its outcome row.
type JobRecord struct {
	ID          string
	Title       string
	Company     string
	Description string
}

// Outcome is the terminal result of one application attempt.
type Outcome string

const (
	OutcomeSubmitted         Outcome = "submitted"
	OutcomeSkippedBlacklist  Outcome = "skipped_blacklist"
	OutcomeSkippedSalary     Outcome = "skipped_salary"
	OutcomeSkippedExperience Outcome = "skipped_experience"
	OutcomeAlreadyApplied    Outcome = "already_applied"
	OutcomeNoApplyButton     Outcome = "no_apply_button"
	OutcomeSubmitFailed      Outcome = "submit_failed"
)

// OutcomeEntry is one row of the append-only outcome ledger. Entries are
// never mutated or deleted.
type OutcomeEntry struct {
	ID        int64
	Timestamp time.Time
	JobID     string
	Title     string
	Company   string
	Attempted bool
	Result    Outcome
	Reason    string
}

// QAEntry is one persisted question-answer pair. The question is stored
// normalized (lower-case) and is the unique key.
type QAEntry struct {
	Question string
	Answer   string
}
