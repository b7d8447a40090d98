package genemodel

import "sort"

// IntervalTree provides O(log n + k) range-overlap queries using a
// sorted-slice approach. Genes are loaded once and never modified after
// build.
type IntervalTree struct {
	intervals []interval
	maxEnd    []int64 // maxEnd[i] = max(End) for intervals[:i+1]
}

type interval struct {
	start int64
	end   int64
	gene  *Gene
}

// BuildIntervalTree creates an interval tree from a slice of genes.
func BuildIntervalTree(genes []*Gene) *IntervalTree {
	if len(genes) == 0 {
		return &IntervalTree{}
	}

	intervals := make([]interval, len(genes))
	for i, g := range genes {
		intervals[i] = interval{start: g.Start, end: g.End, gene: g}
	}

	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].start < intervals[j].start
	})

	// Prefix-max array: the backward scan in FindOverlaps stops at index
	// i only when no interval at or before i can reach the query start,
	// so the bound must cover intervals[:i+1], not intervals[i:].
	maxEnd := make([]int64, len(intervals))
	maxEnd[0] = intervals[0].end
	for i := 1; i < len(intervals); i++ {
		maxEnd[i] = intervals[i].end
		if maxEnd[i-1] > maxEnd[i] {
			maxEnd[i] = maxEnd[i-1]
		}
	}

	return &IntervalTree{intervals: intervals, maxEnd: maxEnd}
}

// FindOverlaps returns all genes whose [Start, End] range intersects
// [start, end].
func (t *IntervalTree) FindOverlaps(start, end int64) []*Gene {
	if len(t.intervals) == 0 {
		return nil
	}

	var result []*Gene

	// Candidates must begin at or before the query end; binary search
	// for the first interval starting past it.
	hi := sort.Search(len(t.intervals), func(i int) bool {
		return t.intervals[i].start > end
	})

	for i := hi - 1; i >= 0; i-- {
		// maxEnd[i] is the max end for intervals[:i+1]. If it falls
		// short of the query start, nothing from 0..i can overlap.
		if t.maxEnd[i] < start {
			break
		}
		if t.intervals[i].end >= start {
			result = append(result, t.intervals[i].gene)
		}
	}

	return result
}
