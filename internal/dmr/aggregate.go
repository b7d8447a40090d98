package dmr

import (
	"fmt"
	"math"
	"sort"
)

// Aggregate groups adjacent significant sites into regions.
//
// Sites are partitioned by chromosome and sorted by position. Within a
// chromosome the sweep grows a run of significant sites, breaking the
// run when the gap to the previous member exceeds cfg.MaxGap or when a
// non-significant site interrupts it. Runs shorter than cfg.MinSites
// are dropped; surviving runs get a Stouffer-combined score and a mean
// effect size, and regions whose |MeanDelta| falls below
// cfg.MinAbsDelta are filtered out. Output is ordered by chromosome
// rank, then start position.
//
// An empty result is valid output, not an error. Aggregate returns
// ErrInvalidInput for a bad configuration or for a site on a chromosome
// outside cfg.ChromOrder.
func Aggregate(sites []Site, cfg Config) ([]Region, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	rank := cfg.chromRank()
	byChrom := make(map[string][]Site)
	for _, s := range sites {
		if _, ok := rank[s.Chrom]; !ok {
			return nil, fmt.Errorf("%w: unrecognized chromosome %q (site %s)", ErrInvalidInput, s.Chrom, s.ID)
		}
		byChrom[s.Chrom] = append(byChrom[s.Chrom], s)
	}

	chroms := make([]string, 0, len(byChrom))
	for chrom := range byChrom {
		chroms = append(chroms, chrom)
	}
	sort.Slice(chroms, func(i, j int) bool {
		return rank[chroms[i]] < rank[chroms[j]]
	})

	perChrom := sweepAll(chroms, byChrom, cfg, 0)

	var regions []Region
	for _, rs := range perChrom {
		regions = append(regions, rs...)
	}
	return regions, nil
}

// AggregateMap is the keyed-input form of Aggregate. The map key is the
// site identifier; the output is deterministic regardless of map
// iteration order.
func AggregateMap(sites map[string]Site, cfg Config) ([]Region, error) {
	flat := make([]Site, 0, len(sites))
	for id, s := range sites {
		s.ID = id
		flat = append(flat, s)
	}
	return Aggregate(flat, cfg)
}

// sweepChrom runs the left-to-right sweep over one chromosome's sites.
// The input slice is sorted in place.
func sweepChrom(chrom string, sites []Site, cfg Config) []Region {
	sort.Slice(sites, func(i, j int) bool {
		if sites[i].Pos != sites[j].Pos {
			return sites[i].Pos < sites[j].Pos
		}
		return sites[i].ID < sites[j].ID
	})

	var regions []Region
	var run []Site

	flush := func() {
		if len(run) >= cfg.MinSites {
			regions = append(regions, finalize(chrom, run))
		}
		run = nil
	}

	for _, s := range sites {
		if s.Score > cfg.SigCutoff {
			// A non-significant site ends the current run but is
			// never a member.
			flush()
			continue
		}
		if len(run) > 0 && s.Pos-run[len(run)-1].Pos > cfg.MaxGap {
			flush()
		}
		run = append(run, s)
	}
	flush()

	if cfg.MinAbsDelta > 0 {
		kept := regions[:0]
		for _, r := range regions {
			if math.Abs(r.MeanDelta) >= cfg.MinAbsDelta {
				kept = append(kept, r)
			}
		}
		regions = kept
	}
	return regions
}

// finalize builds a Region from a completed run of member sites.
func finalize(chrom string, run []Site) Region {
	members := make([]Site, len(run))
	copy(members, run)

	pvalues := make([]float64, len(members))
	var deltaSum float64
	for i, s := range members {
		pvalues[i] = s.Score
		deltaSum += s.Delta
	}

	return Region{
		Chrom:     chrom,
		Start:     members[0].Pos,
		End:       members[len(members)-1].Pos,
		Sites:     members,
		NSites:    len(members),
		Score:     stoufferCombine(pvalues),
		MeanDelta: deltaSum / float64(len(members)),
	}
}
