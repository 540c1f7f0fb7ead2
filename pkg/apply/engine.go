// Package apply drives a single job application through the multi-step
// easy-apply flow to a terminal outcome.
//
// The flow is adversarial and only partially observable: steps appear and
// disappear, validation errors are opaque text, and there is no canonical
// step count. The engine therefore dispatches on which control affordances
// are observably present at each poll, in fixed priority order, instead of
// walking a fixed step list.
package apply

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/intizar/easyapply/pkg/answers"
	"github.com/intizar/easyapply/pkg/domain"
	"github.com/intizar/easyapply/pkg/retry"
	"github.com/intizar/easyapply/pkg/session"
)

// confirmationText is the submission confirmation signal on the page.
const confirmationText = "application was sent"

// alreadyAppliedText marks a posting the account has already applied to.
const alreadyAppliedText = "You applied on"

// experienceKeywords flag experience-duration questions for the
// skip-zero-experience check.
var experienceKeywords = []string{
	"how many years",
	"years of experience",
	"years of work experience",
	"experience do you have",
	"how many years experience",
}

// Config holds the engine's per-run knobs. Delays are injectable so tests
// run at full speed.
type Config struct {
	SkipZeroExperience bool
	UseStoredResume    bool
	ResumePath         string
	CoverLetterPath    string
	PhoneNumber        string

	// MaxPasses bounds full dispatch passes before giving up.
	MaxPasses int
	// MaxErrorRetries bounds the error feedback sub-loop.
	MaxErrorRetries int
	PollDelay       time.Duration
	ErrorRetryDelay time.Duration
	// ClickRetry bounds how long the engine waits for a control to become
	// clickable before degrading to a failed attempt.
	ClickRetry retry.Config
}

// DefaultConfig mirrors the observed application depth and pacing.
func DefaultConfig() Config {
	return Config{
		UseStoredResume: true,
		MaxPasses:       2,
		MaxErrorRetries: 5,
		PollDelay:       time.Second,
		ErrorRetryDelay: 5 * time.Second,
		ClickRetry: retry.Config{
			MaxRetries: 4,
			BaseDelay:  2 * time.Second,
			MaxDelay:   30 * time.Second,
			Multiplier: 2.0,
		},
	}
}

// Engine owns the navigator for the lifetime of one job's processing.
type Engine struct {
	nav      session.Navigator
	resolver *answers.Resolver
	cfg      Config
	sleep    func(time.Duration)
}

// New builds an engine. A nil sleep uses time.Sleep.
func New(nav session.Navigator, resolver *answers.Resolver, cfg Config) *Engine {
	if cfg.MaxPasses <= 0 {
		cfg.MaxPasses = 2
	}
	if cfg.MaxErrorRetries <= 0 {
		cfg.MaxErrorRetries = 5
	}
	return &Engine{nav: nav, resolver: resolver, cfg: cfg, sleep: time.Sleep}
}

// SetSleep overrides the sleep function, for tests.
func (e *Engine) SetSleep(fn func(time.Duration)) { e.sleep = fn }

// state is the ephemeral per-job session, discarded on terminal transition.
type state struct {
	filled    map[string]bool
	submitted bool
}

// Run drives job to a terminal outcome. The returned error is non-nil only
// for persistence failures inside answer resolution; every other failure is
// absorbed into the outcome so it can never crash the discovery loop.
func (e *Engine) Run(ctx context.Context, job domain.JobRecord) (outcome domain.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("job_id", job.ID).Interface("panic", r).Msg("cannot apply to this job")
			outcome = domain.OutcomeSubmitFailed
			err = nil
		}
	}()

	if strings.Contains(e.nav.PageText(), alreadyAppliedText) {
		log.Info().Str("job_id", job.ID).Msg("already applied to this position")
		return domain.OutcomeAlreadyApplied, nil
	}

	entry := e.findApplyButton()
	if entry == nil {
		log.Info().Str("job_id", job.ID).Msg("no apply button on this posting")
		return domain.OutcomeNoApplyButton, nil
	}
	if clickErr := e.clickWhenReady(ctx, entry); clickErr != nil {
		log.Warn().Str("job_id", job.ID).Err(clickErr).Msg("apply button never became clickable")
		return domain.OutcomeSubmitFailed, nil
	}

	e.prefillPhone()

	return e.dispatchLoop(ctx, job)
}

// findApplyButton returns the entry affordance, matching on button text the
// way the posting page labels it.
func (e *Engine) findApplyButton() session.Control {
	for _, b := range e.nav.Find(session.SelApplyButton) {
		if strings.Contains(b.Text(), "Easy Apply") {
			return b
		}
	}
	return nil
}

// step is one (predicate, handler) pair of the dispatch table. A handler
// returns a terminal outcome, or done=false to continue the loop.
type step struct {
	name    string
	present func() bool
	handle  func(ctx context.Context, st *state) (domain.Outcome, bool, error)
}

func (e *Engine) steps() []step {
	has := func(sel session.Selector) func() bool {
		return func() bool { return session.Present(e.nav, sel) }
	}
	return []step{
		{"upload_resume", has(session.SelUploadResume), e.handleUploadResume},
		{"upload_cover_letter", has(session.SelUploadCover), e.handleUploadCover},
		{"submit", has(session.SelSubmit), e.handleSubmit},
		{"error", has(session.SelError), e.handleError},
		{"next", has(session.SelNext), e.handleAdvance(session.SelNext)},
		{"review", has(session.SelReview), e.handleAdvance(session.SelReview)},
		{"follow", has(session.SelFollow), e.handleAdvance(session.SelFollow)},
	}
}

func (e *Engine) dispatchLoop(ctx context.Context, job domain.JobRecord) (domain.Outcome, error) {
	st := &state{filled: make(map[string]bool)}
	steps := e.steps()

	for pass := 0; pass < e.cfg.MaxPasses; pass++ {
		e.sleep(e.cfg.PollDelay)

		handled := false
		for _, s := range steps {
			if !s.present() {
				continue
			}
			handled = true
			log.Debug().Str("job_id", job.ID).Str("step", s.name).Int("pass", pass).Msg("dispatching")
			outcome, done, err := s.handle(ctx, st)
			if err != nil {
				return outcome, err
			}
			if done {
				return outcome, nil
			}
			// Non-terminal handlers fall through so the rest of the pass
			// can act on whatever the page now shows.
		}
		if !handled {
			log.Debug().Str("job_id", job.ID).Int("pass", pass).Msg("no actionable control present")
		}
	}

	if st.submitted {
		return domain.OutcomeSubmitted, nil
	}
	log.Info().Str("job_id", job.ID).Msg("application not submitted")
	return domain.OutcomeSubmitFailed, nil
}

// handleUploadResume uploads a local resume only when the operator opted
// out of the remotely stored one; otherwise the affordance is skipped
// deliberately and the remote service reuses its copy.
func (e *Engine) handleUploadResume(ctx context.Context, st *state) (domain.Outcome, bool, error) {
	e.upload(session.SelUploadResume, e.cfg.ResumePath, "resume")
	return "", false, nil
}

func (e *Engine) handleUploadCover(ctx context.Context, st *state) (domain.Outcome, bool, error) {
	e.upload(session.SelUploadCover, e.cfg.CoverLetterPath, "cover letter")
	return "", false, nil
}

func (e *Engine) upload(sel session.Selector, path, kind string) {
	if e.cfg.UseStoredResume || path == "" {
		log.Info().Str("kind", kind).Msg("skipping upload, using stored document")
		return
	}
	input := session.First(e.nav, sel)
	if input == nil {
		return
	}
	if err := input.SendText(path); err != nil {
		log.Error().Str("kind", kind).Str("path", path).Err(err).Msg("upload failed")
		return
	}
	log.Info().Str("kind", kind).Str("path", path).Msg("uploaded local file")
}

func (e *Engine) handleSubmit(ctx context.Context, st *state) (domain.Outcome, bool, error) {
	button := session.First(e.nav, session.SelSubmit)
	if err := e.clickWhenReady(ctx, button); err != nil {
		log.Warn().Err(err).Msg("submit control never became clickable")
		return domain.OutcomeSubmitFailed, true, nil
	}
	log.Info().Msg("application submitted")
	st.submitted = true
	return domain.OutcomeSubmitted, true, nil
}

// handleError is the validation feedback path: eagerly skip jobs demanding
// experience the operator does not have, then enter the bounded
// answer-and-recheck sub-loop.
func (e *Engine) handleError(ctx context.Context, st *state) (domain.Outcome, bool, error) {
	if e.confirmed() {
		log.Info().Msg("application submitted")
		st.submitted = true
		return domain.OutcomeSubmitted, true, nil
	}

	if e.cfg.SkipZeroExperience {
		skip, err := e.zeroExperienceRequired(ctx)
		if err != nil {
			return domain.OutcomeSubmitFailed, true, err
		}
		if skip {
			log.Info().Msg("skipping job, zero experience in required skills")
			return domain.OutcomeSkippedExperience, true, nil
		}
	}

	for attempt := 0; attempt < e.cfg.MaxErrorRetries; attempt++ {
		log.Info().Int("attempt", attempt+1).Msg("answering outstanding questions")
		e.sleep(e.cfg.ErrorRetryDelay)

		if err := e.fillQuestions(ctx, st); err != nil {
			return domain.OutcomeSubmitFailed, true, err
		}

		if e.confirmed() {
			log.Info().Msg("application submitted")
			st.submitted = true
			return domain.OutcomeSubmitted, true, nil
		}
		if session.Present(e.nav, session.SelApplyButton) {
			// The entry affordance reappearing means the form was abandoned.
			log.Info().Msg("skipping application")
			return domain.OutcomeSubmitFailed, true, nil
		}
		if !session.Present(e.nav, session.SelError) {
			return "", false, nil
		}
	}
	return domain.OutcomeSubmitFailed, true, nil
}

func (e *Engine) handleAdvance(sel session.Selector) func(context.Context, *state) (domain.Outcome, bool, error) {
	return func(ctx context.Context, st *state) (domain.Outcome, bool, error) {
		button := session.First(e.nav, sel)
		if err := e.clickWhenReady(ctx, button); err != nil {
			log.Warn().Str("control", string(sel)).Err(err).Msg("control never became clickable")
			return domain.OutcomeSubmitFailed, true, nil
		}
		return "", false, nil
	}
}

// fillQuestions resolves and fills every currently rendered question field.
// A failure on one field is logged and skipped rather than aborting the
// whole step.
func (e *Engine) fillQuestions(ctx context.Context, st *state) error {
	for _, field := range e.nav.Find(session.SelFields) {
		question := strings.TrimSpace(field.Text())
		if question == "" {
			continue
		}
		key := answers.Normalize(question)
		if st.filled[key] {
			continue
		}

		answer, err := e.resolver.Resolve(ctx, question)
		if err != nil {
			return err
		}
		if fillErr := fillField(field, answer); fillErr != nil {
			log.Error().Str("question", key).Err(fillErr).Msg("could not fill field")
			continue
		}
		st.filled[key] = true
	}
	return nil
}

// fillField applies answer via the first matching input affordance:
// radio choice, then multi-valued entry, then single-line text.
func fillField(field session.Control, answer string) error {
	if radios := field.Find(session.SelRadio); len(radios) > 0 {
		for _, r := range radios {
			if r.Attr("value") == answer {
				return r.Click()
			}
		}
		return fmt.Errorf("no radio option with value %q", answer)
	}
	if multi := field.Find(session.SelMulti); len(multi) > 0 {
		return multi[0].SendText(answer)
	}
	if text := field.Find(session.SelText); len(text) > 0 {
		return text[0].SendText(answer)
	}
	return fmt.Errorf("no input affordance found")
}

// zeroExperienceRequired scans rendered fields for experience-duration
// questions that would resolve to a zero-equivalent answer.
func (e *Engine) zeroExperienceRequired(ctx context.Context) (bool, error) {
	for _, field := range e.nav.Find(session.SelFields) {
		question := strings.TrimSpace(strings.ToLower(field.Text()))
		if question == "" || !isExperienceQuestion(question) {
			continue
		}
		answer, err := e.resolver.Resolve(ctx, question)
		if err != nil {
			return false, err
		}
		if answers.IsZeroEquivalent(answer) {
			log.Info().Str("question", question).Msg("zero experience required")
			return true, nil
		}
	}
	return false, nil
}

func isExperienceQuestion(question string) bool {
	for _, kw := range experienceKeywords {
		if strings.Contains(question, kw) {
			return true
		}
	}
	return false
}

// prefillPhone fills any rendered phone-number field before the dispatch
// loop starts.
func (e *Engine) prefillPhone() {
	if e.cfg.PhoneNumber == "" {
		return
	}
	for _, field := range e.nav.Find(session.SelFields) {
		if !strings.Contains(field.Text(), "Mobile phone number") {
			continue
		}
		if inputs := field.Find(session.SelText); len(inputs) > 0 {
			if err := inputs[0].SendText(e.cfg.PhoneNumber); err != nil {
				log.Error().Err(err).Msg("phone prefill failed")
			}
		}
	}
}

// confirmed checks the page for the submission confirmation signal.
func (e *Engine) confirmed() bool {
	return strings.Contains(e.nav.PageText(), confirmationText)
}

// clickWhenReady clicks a control, retrying with backoff until the bounded
// ceiling; a control that never becomes clickable degrades to an error, not
// a crash.
func (e *Engine) clickWhenReady(ctx context.Context, c session.Control) error {
	if c == nil {
		return fmt.Errorf("control not present")
	}
	_, err := retry.Do(ctx, e.cfg.ClickRetry, func() (struct{}, error) {
		if !c.IsPresent() {
			return struct{}{}, retry.Retryable(fmt.Errorf("control not yet present"))
		}
		if err := c.Click(); err != nil {
			return struct{}{}, retry.Retryable(err)
		}
		return struct{}{}, nil
	})
	return err
}
