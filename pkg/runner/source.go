package runner

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/intizar/easyapply/pkg/domain"
	"github.com/intizar/easyapply/pkg/session"
)

// JobSource yields discovered job postings, one at a time. ok is false when
// the source is exhausted.
type JobSource interface {
	Next(ctx context.Context) (job domain.JobRecord, ok bool, err error)
}

// SearchConfig drives search-page URL construction.
type SearchConfig struct {
	BaseURL          string
	Positions        []string
	Locations        []string
	ExperienceLevels []int
	Blacklist        []string
	PageSize         int
}

// DefaultBaseURL is the easy-apply-filtered search endpoint, restricted to
// postings from the last 7 days.
const DefaultBaseURL = "https://www.linkedin.com/jobs/search/?f_LF=f_AL&f_TPR=r604800"

// SearchSource walks every position/location combination page by page,
// scanning job cards off the search results.
type SearchSource struct {
	nav    session.Navigator
	cfg    SearchConfig
	combos [][2]string
	combo  int
	offset int
	batch  []domain.JobRecord
}

// NewSearchSource builds a source over shuffled position/location pairs.
func NewSearchSource(nav session.Navigator, cfg SearchConfig) *SearchSource {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 25
	}
	var combos [][2]string
	for _, p := range cfg.Positions {
		for _, l := range cfg.Locations {
			combos = append(combos, [2]string{p, l})
		}
	}
	rand.Shuffle(len(combos), func(i, j int) {
		combos[i], combos[j] = combos[j], combos[i]
	})
	return &SearchSource{nav: nav, cfg: cfg, combos: combos}
}

func (s *SearchSource) Next(ctx context.Context) (domain.JobRecord, bool, error) {
	for len(s.batch) == 0 {
		if err := ctx.Err(); err != nil {
			return domain.JobRecord{}, false, err
		}
		if s.combo >= len(s.combos) {
			return domain.JobRecord{}, false, nil
		}

		position, location := s.combos[s.combo][0], s.combos[s.combo][1]
		if s.offset == 0 {
			log.Info().Str("position", position).Str("location", location).Msg("searching")
		}
		cards, err := s.scanPage(position, location, s.offset)
		if err != nil {
			return domain.JobRecord{}, false, err
		}
		if len(cards) == 0 {
			// Page exhausted, move to the next combination.
			s.combo++
			s.offset = 0
			continue
		}
		s.offset += s.cfg.PageSize
		s.batch = cards
	}

	job := s.batch[0]
	s.batch = s.batch[1:]
	return job, true, nil
}

func (s *SearchSource) scanPage(position, location string, offset int) ([]domain.JobRecord, error) {
	target := s.searchURL(position, location, offset)
	if err := s.nav.GoTo(target); err != nil {
		return nil, fmt.Errorf("load search page: %w", err)
	}

	var jobs []domain.JobRecord
	for _, card := range s.nav.Find(session.SelJobCards) {
		text := card.Text()
		if strings.Contains(text, "Applied") {
			continue
		}
		if s.blacklisted(text) {
			continue
		}
		id := card.Attr("data-job-id")
		if id == "" || id == "search" {
			log.Debug().Str("card", text).Msg("job id not found on card")
			continue
		}
		jobs = append(jobs, domain.JobRecord{ID: id})
	}
	return jobs, nil
}

func (s *SearchSource) blacklisted(cardText string) bool {
	for _, entry := range s.cfg.Blacklist {
		if entry != "" && strings.Contains(cardText, entry) {
			return true
		}
	}
	return false
}

func (s *SearchSource) searchURL(position, location string, offset int) string {
	u := fmt.Sprintf("%s&keywords=%s&location=%s&start=%d",
		s.cfg.BaseURL, url.QueryEscape(position), url.QueryEscape(location), offset)
	if len(s.cfg.ExperienceLevels) > 0 {
		levels := make([]string, len(s.cfg.ExperienceLevels))
		for i, l := range s.cfg.ExperienceLevels {
			levels[i] = fmt.Sprintf("%d", l)
		}
		u += "&f_E=" + strings.Join(levels, ",")
	}
	return u
}
