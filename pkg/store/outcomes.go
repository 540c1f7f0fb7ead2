package store

import (
	"context"
	"fmt"
	"time"

	"github.com/intizar/easyapply/pkg/domain"
)

// tsLayout is fixed-width so that lexicographic order on the column equals
// chronological order.
const tsLayout = "2006-01-02 15:04:05.000000000"

// AppendOutcome appends one ledger row. The ledger is append-only: there is
// no update or delete path anywhere in this package.
func (s *Store) AppendOutcome(ctx context.Context, e domain.OutcomeEntry) error {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO outcomes (ts, job_id, title, company, attempted, result, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ts.UTC().Format(tsLayout), e.JobID, e.Title, e.Company, e.Attempted, string(e.Result), e.Reason,
	)
	if err != nil {
		return fmt.Errorf("append outcome: %w", err)
	}
	return nil
}

// OutcomesSince returns every row with ts > since, in append order.
func (s *Store) OutcomesSince(ctx context.Context, since time.Time) ([]domain.OutcomeEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ts, job_id, title, company, attempted, result, reason
		FROM outcomes WHERE ts > ? ORDER BY id`, since.UTC().Format(tsLayout))
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var out []domain.OutcomeEntry
	for rows.Next() {
		var e domain.OutcomeEntry
		var ts, result string
		if err := rows.Scan(&e.ID, &ts, &e.JobID, &e.Title, &e.Company, &e.Attempted, &result, &e.Reason); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(tsLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("bad timestamp %q: %w", ts, err)
		}
		e.Timestamp = parsed.UTC()
		e.Result = domain.Outcome(result)
		out = append(out, e)
	}
	return out, rows.Err()
}

// AllOutcomes returns the full ledger in append order.
func (s *Store) AllOutcomes(ctx context.Context) ([]domain.OutcomeEntry, error) {
	return s.OutcomesSince(ctx, time.Time{})
}

// SeenJobIDs returns the set of job ids with any outcome newer than since,
// regardless of outcome kind.
func (s *Store) SeenJobIDs(ctx context.Context, since time.Time) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT job_id FROM outcomes WHERE ts > ?`, since.UTC().Format(tsLayout))
	if err != nil {
		return nil, fmt.Errorf("query seen job ids: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		seen[id] = true
	}
	return seen, rows.Err()
}

// Stats summarizes the ledger per result kind.
func (s *Store) Stats(ctx context.Context) (map[domain.Outcome]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT result, COUNT(*) FROM outcomes GROUP BY result`)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[domain.Outcome]int)
	for rows.Next() {
		var result string
		var n int
		if err := rows.Scan(&result, &n); err != nil {
			return nil, err
		}
		stats[domain.Outcome(result)] = n
	}
	return stats, rows.Err()
}
