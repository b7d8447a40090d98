package store

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/clark-lab/dmrcall/internal/dmr"
)

// StoredRegion is one cached region call with the thresholds it was
// called under.
type StoredRegion struct {
	Run         string
	Chrom       string
	Start       int64
	End         int64
	NSites      int
	Score       float64
	MeanDelta   float64
	Genes       []string
	SigCutoff   float64
	MaxGap      int64
	MinSites    int
	MinAbsDelta float64
	CalledAt    time.Time
}

// regionKey deduplicates regions before writing.
type regionKey struct {
	chrom      string
	start, end int64
}

// WriteRegions batch-inserts a run's regions using the DuckDB Appender.
// Duplicate (chrom, start, end) entries are deduplicated before writing.
func (s *Store) WriteRegions(run string, cfg dmr.Config, regions []dmr.Region) error {
	if len(regions) == 0 {
		return nil
	}

	seen := make(map[regionKey]bool, len(regions))
	deduped := make([]dmr.Region, 0, len(regions))
	for _, r := range regions {
		k := regionKey{r.Chrom, r.Start, r.End}
		if !seen[k] {
			seen[k] = true
			deduped = append(deduped, r)
		}
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "region_calls")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	calledAt := time.Now().UTC()
	for _, r := range deduped {
		if err := appender.AppendRow(
			run, r.Chrom, r.Start, r.End,
			int32(r.NSites), r.Score, r.MeanDelta, strings.Join(r.Genes, ","),
			cfg.SigCutoff, cfg.MaxGap, int32(cfg.MinSites), cfg.MinAbsDelta,
			calledAt,
		); err != nil {
			return fmt.Errorf("append region: %w", err)
		}
	}

	return appender.Flush()
}

// DeleteRun removes all cached regions for a run label.
func (s *Store) DeleteRun(run string) error {
	_, err := s.db.Exec("DELETE FROM region_calls WHERE run=?", run)
	return err
}

// Runs lists the distinct run labels in the cache.
func (s *Store) Runs() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT run FROM region_calls ORDER BY run")
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []string
	for rows.Next() {
		var run string
		if err := rows.Scan(&run); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

const selectRegions = `SELECT
	run, chrom, start_pos, end_pos, n_sites, score, mean_delta, genes,
	sig_cutoff, max_gap, min_sites, min_abs_delta, called_at
	FROM region_calls`

// QueryRun returns all cached regions for a run label, ordered by
// chromosome and start position.
func (s *Store) QueryRun(run string) ([]StoredRegion, error) {
	rows, err := s.db.Query(selectRegions+" WHERE run=? ORDER BY chrom, start_pos", run)
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	defer rows.Close()

	return scanRegions(rows)
}

// QueryByGene returns all cached regions annotated with the given gene
// symbol, across runs.
func (s *Store) QueryByGene(gene string) ([]StoredRegion, error) {
	rows, err := s.db.Query(
		selectRegions+" WHERE list_contains(string_split(genes, ','), ?) ORDER BY run, chrom, start_pos",
		gene)
	if err != nil {
		return nil, fmt.Errorf("query by gene: %w", err)
	}
	defer rows.Close()

	return scanRegions(rows)
}

// scanRegions scans rows into StoredRegion slices.
func scanRegions(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]StoredRegion, error) {
	var results []StoredRegion
	for rows.Next() {
		var r StoredRegion
		var genes string
		if err := rows.Scan(
			&r.Run, &r.Chrom, &r.Start, &r.End, &r.NSites, &r.Score, &r.MeanDelta, &genes,
			&r.SigCutoff, &r.MaxGap, &r.MinSites, &r.MinAbsDelta, &r.CalledAt,
		); err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}
		if genes != "" {
			r.Genes = strings.Split(genes, ",")
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate regions: %w", err)
	}
	return results, nil
}
