// Package runner owns the discovery loop: it pulls jobs from a source,
// gates them, hands eligible ones to the apply engine and records exactly
// one ledger row per attempt.
package runner

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/intizar/easyapply/pkg/domain"
	"github.com/intizar/easyapply/pkg/gate"
	"github.com/intizar/easyapply/pkg/session"
)

// Ledger is the append-only outcome sink. A write failure is fatal for the
// run: continuing without it would break the dedup invariant.
type Ledger interface {
	AppendOutcome(ctx context.Context, e domain.OutcomeEntry) error
}

// Applier drives one job to a terminal outcome.
type Applier interface {
	Run(ctx context.Context, job domain.JobRecord) (domain.Outcome, error)
}

// Inviter optionally follows up a submitted application with a recruiter
// connection invite.
type Inviter interface {
	Connect(positionTitle string) bool
}

// Config caps and paces the discovery loop.
type Config struct {
	JobURL           string // job page URL prefix, the job id is appended
	MaxApplications  int
	MaxSearchTime    time.Duration
	RecruiterInvites bool
	// Jittered inter-job delay bounds.
	MinDelay time.Duration
	MaxDelay time.Duration
}

// DefaultJobURL is the posting page prefix.
const DefaultJobURL = "https://www.linkedin.com/jobs/view/"

// DefaultConfig mirrors the long-standing caps: fifty applications or one
// hour of searching, whichever comes first.
func DefaultConfig() Config {
	return Config{
		JobURL:          DefaultJobURL,
		MaxApplications: 50,
		MaxSearchTime:   time.Hour,
		MinDelay:        2 * time.Second,
		MaxDelay:        4500 * time.Millisecond,
	}
}

// Runner processes jobs strictly sequentially: one job is fully handled,
// eligibility through ledger write, before the next begins.
type Runner struct {
	nav     session.Navigator
	gate    *gate.Gate
	engine  Applier
	ledger  Ledger
	inviter Inviter
	cfg     Config
	sleep   func(time.Duration)

	// Explicit loop state, checked between jobs only.
	submitted int
	startedAt time.Time
}

func New(nav session.Navigator, g *gate.Gate, engine Applier, ledger Ledger, cfg Config) *Runner {
	if cfg.JobURL == "" {
		cfg.JobURL = DefaultJobURL
	}
	return &Runner{nav: nav, gate: g, engine: engine, ledger: ledger, cfg: cfg, sleep: time.Sleep}
}

// SetInviter enables recruiter invites after submitted applications.
func (r *Runner) SetInviter(inv Inviter) { r.inviter = inv }

// SetSleep overrides the sleep function, for tests.
func (r *Runner) SetSleep(fn func(time.Duration)) { r.sleep = fn }

// Submitted returns the number of applications submitted so far.
func (r *Runner) Submitted() int { return r.submitted }

// Run drains the source until it is exhausted, a cap is reached or ctx is
// cancelled. Per-job failures never abort the loop; ledger write failures
// do.
func (r *Runner) Run(ctx context.Context, source JobSource) error {
	r.startedAt = time.Now()
	runID := uuid.NewString()
	log.Info().Str("run_id", runID).Msg("starting discovery run")

	for {
		if err := ctx.Err(); err != nil {
			log.Info().Str("run_id", runID).Msg("run cancelled")
			return err
		}
		if r.capReached() {
			break
		}

		job, ok, err := source.Next(ctx)
		if err != nil {
			return fmt.Errorf("job source: %w", err)
		}
		if !ok {
			log.Info().Str("run_id", runID).Msg("job source exhausted")
			break
		}

		if err := r.processJob(ctx, job); err != nil {
			return err
		}

		r.sleep(r.jitter())
	}

	log.Info().
		Str("run_id", runID).
		Int("submitted", r.submitted).
		Dur("elapsed", time.Since(r.startedAt)).
		Msg("search completed")
	return nil
}

func (r *Runner) capReached() bool {
	if r.cfg.MaxApplications > 0 && r.submitted >= r.cfg.MaxApplications {
		log.Info().Int("submitted", r.submitted).Msg("application limit reached")
		return true
	}
	if r.cfg.MaxSearchTime > 0 && time.Since(r.startedAt) >= r.cfg.MaxSearchTime {
		log.Info().Msg("search time limit reached")
		return true
	}
	return false
}

// processJob takes one job through gate, engine and ledger. Exactly one
// ledger row is appended whatever happens, except when the append itself
// fails, which aborts the run.
func (r *Runner) processJob(ctx context.Context, job domain.JobRecord) error {
	job = r.fetchJobPage(job)

	decision := r.gate.ShouldAttempt(job)
	if !decision.Proceed {
		log.Info().
			Str("job_id", job.ID).
			Str("result", string(decision.Outcome)).
			Str("reason", decision.Reason).
			Msg("rejected before applying")
		return r.record(ctx, job, false, decision.Outcome, decision.Reason)
	}

	outcome, err := r.engine.Run(ctx, job)
	if err != nil {
		// Persistence failure inside answer resolution; surfacing it
		// protects the answer-reuse invariant.
		return fmt.Errorf("apply to %s: %w", job.ID, err)
	}

	log.Info().
		Str("job_id", job.ID).
		Str("title", job.Title).
		Str("result", string(outcome)).
		Msg("application processed")

	if outcome == domain.OutcomeSubmitted {
		r.submitted++
		log.Info().Int("submitted", r.submitted).Int("max", r.cfg.MaxApplications).Msg("application submitted")
		if r.cfg.RecruiterInvites && r.inviter != nil {
			r.sleep(r.jitter())
			// Back to the posting page, the apply flow navigated away.
			if err := r.nav.GoTo(r.cfg.JobURL + job.ID); err == nil {
				r.inviter.Connect(job.Title)
			}
		}
	}

	return r.record(ctx, job, attempted(outcome), outcome, "")
}

// attempted reports whether an engine outcome involved an actual application
// attempt. A posting with no apply entry point, or one already applied to,
// was never entered.
func attempted(outcome domain.Outcome) bool {
	switch outcome {
	case domain.OutcomeNoApplyButton, domain.OutcomeAlreadyApplied:
		return false
	}
	return true
}

// fetchJobPage loads the posting page and enriches the record with title,
// company and visible description text.
func (r *Runner) fetchJobPage(job domain.JobRecord) domain.JobRecord {
	if err := r.nav.GoTo(r.cfg.JobURL + job.ID); err != nil {
		log.Warn().Str("job_id", job.ID).Err(err).Msg("could not load job page")
		return job
	}
	title, company := splitPageTitle(r.nav.Title())
	job.Title = title
	job.Company = company

	text, err := session.ExtractText(r.nav.PageSource())
	if err != nil {
		log.Warn().Str("job_id", job.ID).Err(err).Msg("could not extract page text")
		text = r.nav.PageText()
	}
	job.Description = text
	return job
}

func (r *Runner) record(ctx context.Context, job domain.JobRecord, attempted bool, outcome domain.Outcome, reason string) error {
	entry := domain.OutcomeEntry{
		Timestamp: time.Now().UTC(),
		JobID:     job.ID,
		Title:     job.Title,
		Company:   job.Company,
		Attempted: attempted,
		Result:    outcome,
		Reason:    reason,
	}
	if err := r.ledger.AppendOutcome(ctx, entry); err != nil {
		return fmt.Errorf("ledger write for %s: %w", job.ID, err)
	}
	r.gate.MarkSeen(job.ID)
	return nil
}

func (r *Runner) jitter() time.Duration {
	if r.cfg.MaxDelay <= r.cfg.MinDelay {
		return r.cfg.MinDelay
	}
	return r.cfg.MinDelay + time.Duration(rand.Int63n(int64(r.cfg.MaxDelay-r.cfg.MinDelay)))
}

var leadingNoise = regexp.MustCompile(`^\(?\d?\)?\s*`)

// splitPageTitle extracts job title and company from a "Job | Company | …"
// page title, trimming the unread-count prefix the page sometimes carries.
func splitPageTitle(pageTitle string) (title, company string) {
	parts := strings.Split(pageTitle, " | ")
	title = strings.TrimSpace(leadingNoise.ReplaceAllString(parts[0], ""))
	if len(parts) > 1 {
		company = strings.TrimSpace(parts[1])
	}
	return title, company
}
