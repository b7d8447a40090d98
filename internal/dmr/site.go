// Package dmr calls differentially methylated regions from per-site
// differential methylation statistics.
package dmr

import "fmt"

// Site is a single measured genomic position with its differential test
// result. Sites are produced by upstream filtering and never modified here.
type Site struct {
	ID    string  // Probe identifier (e.g. cg00000029)
	Chrom string  // Chromosome (e.g. chr1)
	Pos   int64   // Position (1-based)
	Delta float64 // Effect size: methylation difference between groups
	Score float64 // Significance: p-value or FDR-adjusted statistic
}

// Region is a contiguous run of significant Sites on one chromosome.
// A Region is recomputed from scratch on every aggregation pass; it is
// never mutated incrementally across runs.
type Region struct {
	Chrom     string
	Start     int64 // Minimum member position (1-based)
	End       int64 // Maximum member position (1-based, inclusive)
	Sites     []Site
	NSites    int
	Score     float64  // Stouffer-combined member significance scores
	MeanDelta float64  // Mean member effect size
	Genes     []string // Overlapping gene symbols, filled by annotation
}

// Span returns the genomic span in base pairs (inclusive of both ends).
func (r *Region) Span() int64 {
	return r.End - r.Start + 1
}

// Label returns a coordinate label like "chr1:100-150".
func (r *Region) Label() string {
	return fmt.Sprintf("%s:%d-%d", r.Chrom, r.Start, r.End)
}

// DefaultChromOrder returns the human chromosome ordering chr1..chr22,
// chrX, chrY, chrM.
func DefaultChromOrder() []string {
	order := make([]string, 0, 25)
	for i := 1; i <= 22; i++ {
		order = append(order, fmt.Sprintf("chr%d", i))
	}
	return append(order, "chrX", "chrY", "chrM")
}
