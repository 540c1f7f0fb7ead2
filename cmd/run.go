package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/intizar/easyapply/pkg/answers"
	"github.com/intizar/easyapply/pkg/apply"
	"github.com/intizar/easyapply/pkg/config"
	"github.com/intizar/easyapply/pkg/domain"
	"github.com/intizar/easyapply/pkg/gate"
	applog "github.com/intizar/easyapply/pkg/log"
	"github.com/intizar/easyapply/pkg/recruiter"
	"github.com/intizar/easyapply/pkg/runner"
	"github.com/intizar/easyapply/pkg/session"
	"github.com/intizar/easyapply/pkg/signal"
	"github.com/intizar/easyapply/pkg/store"
	"github.com/intizar/easyapply/pkg/utils"
)

var (
	webdriverFlag string
	maxAppsFlag   int
	dryRunFlag    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Search for jobs and apply to them",
	Long: `Start a discovery run: search every configured position/location pair,
gate each discovered posting and apply to the eligible ones.

Credentials come from EASYAPPLY_USERNAME / EASYAPPLY_PASSWORD (.env is
loaded automatically); everything else from config.yaml.

Examples:
  easyapply run
  easyapply run --max-applications 10
  easyapply run --webdriver http://localhost:9515`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&webdriverFlag, "webdriver", "http://localhost:9515", "Selenium WebDriver server URL (chromedriver)")
	runCmd.Flags().IntVar(&maxAppsFlag, "max-applications", 0, "Override configured application cap")
	runCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Gate jobs but do not apply")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	creds, err := config.LoadCredentials()
	if err != nil {
		return err
	}
	if !cfg.UseStoredResume {
		for _, path := range []string{cfg.Uploads.Resume, cfg.Uploads.CoverLetter} {
			if path != "" && !utils.FileExists(path) {
				return fmt.Errorf("upload file not found: %s", path)
			}
		}
	}
	if maxAppsFlag > 0 {
		cfg.MaxApplications = maxAppsFlag
	}

	if err := applog.InitWithFile(cfg.LogDir); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext()
	defer cancel()

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	seen, err := st.SeenJobIDs(ctx, time.Now().Add(-cfg.DedupWindow))
	if err != nil {
		return err
	}
	log.Info().Int("count", len(seen)).Msg("job ids loaded from ledger")

	known, err := st.LoadAnswers(ctx)
	if err != nil {
		return err
	}

	nav, err := session.Connect(webdriverFlag)
	if err != nil {
		return fmt.Errorf("webdriver: %w", err)
	}
	defer nav.Close()

	if err := session.Login(nav, creds.Username, creds.Password, nil); err != nil {
		return err
	}

	g := gate.New(gate.Config{
		Blacklist:       cfg.Blacklist,
		BlacklistTitles: cfg.BlacklistTitles,
		MinSalaryYearly: cfg.MinSalaryYearly,
		MinSalaryHourly: cfg.MinSalaryHourly,
	}, seen)

	resolver := answers.NewResolver(st, known, answers.DefaultRules(cfg.SalaryText))

	engineCfg := apply.DefaultConfig()
	engineCfg.SkipZeroExperience = cfg.SkipZeroExp
	engineCfg.UseStoredResume = cfg.UseStoredResume
	engineCfg.ResumePath = cfg.Uploads.Resume
	engineCfg.CoverLetterPath = cfg.Uploads.CoverLetter
	engineCfg.PhoneNumber = cfg.PhoneNumber
	engine := apply.New(nav, resolver, engineCfg)

	runnerCfg := runner.DefaultConfig()
	runnerCfg.MaxApplications = cfg.MaxApplications
	runnerCfg.MaxSearchTime = cfg.MaxSearchTime
	runnerCfg.RecruiterInvites = cfg.RecruiterInvites && !dryRunFlag

	var applier runner.Applier = engine
	var ledger runner.Ledger = st
	if dryRunFlag {
		applier = dryRunApplier{}
		ledger = discardLedger{}
	}

	r := runner.New(nav, g, applier, ledger, runnerCfg)
	if runnerCfg.RecruiterInvites {
		r.SetInviter(recruiter.New(nav, recruiter.Identity{
			Name:     cfg.Identity.Name,
			Headline: cfg.Identity.Headline,
		}))
	}

	source := runner.NewSearchSource(nav, runner.SearchConfig{
		Positions:        cfg.Positions,
		Locations:        cfg.Locations,
		ExperienceLevels: cfg.ExperienceLevels,
		Blacklist:        cfg.Blacklist,
	})

	if err := r.Run(ctx, source); err != nil {
		return err
	}
	fmt.Printf("Run finished: %d applications submitted\n", r.Submitted())
	return nil
}

// dryRunApplier short-circuits the apply engine so --dry-run exercises only
// discovery and gating.
type dryRunApplier struct{}

func (dryRunApplier) Run(ctx context.Context, job domain.JobRecord) (domain.Outcome, error) {
	log.Info().Str("job_id", job.ID).Str("title", job.Title).Msg("dry run, would apply")
	return domain.OutcomeNoApplyButton, nil
}

// discardLedger keeps dry runs out of the real ledger so they cannot
// poison the dedup window.
type discardLedger struct{}

func (discardLedger) AppendOutcome(ctx context.Context, e domain.OutcomeEntry) error { return nil }
