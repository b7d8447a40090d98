package dmr

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned for malformed configuration or site data:
// a significance cutoff outside (0,1], a negative gap, a minimum member
// count below one, or a site on a chromosome absent from the configured
// ordering. Callers should treat it as a configuration bug; retrying
// with the same input is never appropriate.
var ErrInvalidInput = errors.New("invalid input")

// Config holds the thresholds for a single aggregation pass. It is
// passed explicitly to every call; the package keeps no global state.
type Config struct {
	// SigCutoff is the per-site significance cutoff in (0,1]. A site is
	// significant when Score <= SigCutoff.
	SigCutoff float64

	// MaxGap is the maximum distance in base pairs between consecutive
	// member sites. A larger gap starts a new region.
	MaxGap int64

	// MinSites is the minimum member count per region. 1 means no minimum.
	MinSites int

	// MinAbsDelta, when > 0, drops regions whose |MeanDelta| falls below
	// it. Applied to the aggregated effect size, not to individual sites.
	MinAbsDelta float64

	// ChromOrder fixes the chromosome output order. Sites on chromosomes
	// not listed here are rejected. Defaults to DefaultChromOrder().
	ChromOrder []string
}

// DefaultConfig returns the thresholds used by the call command when no
// flags are given.
func DefaultConfig() Config {
	return Config{
		SigCutoff: 0.05,
		MaxGap:    1000,
		MinSites:  3,
	}
}

func (c *Config) validate() error {
	if c.SigCutoff <= 0 || c.SigCutoff > 1 {
		return fmt.Errorf("%w: significance cutoff %g outside (0,1]", ErrInvalidInput, c.SigCutoff)
	}
	if c.MaxGap < 0 {
		return fmt.Errorf("%w: negative max gap %d", ErrInvalidInput, c.MaxGap)
	}
	if c.MinSites < 1 {
		return fmt.Errorf("%w: min sites %d below 1", ErrInvalidInput, c.MinSites)
	}
	return nil
}

// chromRank maps each chromosome in the configured order to its index.
func (c *Config) chromRank() map[string]int {
	order := c.ChromOrder
	if len(order) == 0 {
		order = DefaultChromOrder()
	}
	rank := make(map[string]int, len(order))
	for i, chrom := range order {
		rank[chrom] = i
	}
	return rank
}
