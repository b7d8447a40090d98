package genemodel

import (
	"sort"

	"github.com/clark-lab/dmrcall/internal/dmr"
)

// Model holds genes indexed per chromosome for overlap queries.
type Model struct {
	genes map[string][]*Gene
	trees map[string]*IntervalTree
}

// NewModel creates an empty gene model.
func NewModel() *Model {
	return &Model{
		genes: make(map[string][]*Gene),
		trees: make(map[string]*IntervalTree),
	}
}

// AddGene adds a gene to the model. Queries made before Build see stale
// indexes; call Build after the last AddGene.
func (m *Model) AddGene(g *Gene) {
	m.genes[g.Chrom] = append(m.genes[g.Chrom], g)
}

// Build constructs the per-chromosome interval trees.
func (m *Model) Build() {
	for chrom, genes := range m.genes {
		m.trees[chrom] = BuildIntervalTree(genes)
	}
}

// GeneCount returns the total number of genes in the model.
func (m *Model) GeneCount() int {
	count := 0
	for _, genes := range m.genes {
		count += len(genes)
	}
	return count
}

// Chromosomes returns a sorted list of chromosomes in the model.
func (m *Model) Chromosomes() []string {
	chroms := make([]string, 0, len(m.genes))
	for chrom := range m.genes {
		chroms = append(chroms, chrom)
	}
	sort.Strings(chroms)
	return chroms
}

// FindOverlapping returns all genes intersecting [start, end] on chrom.
func (m *Model) FindOverlapping(chrom string, start, end int64) []*Gene {
	tree, ok := m.trees[chrom]
	if !ok {
		return nil
	}
	return tree.FindOverlaps(start, end)
}

// Annotate fills each region's Genes field with the sorted, deduplicated
// symbols of overlapping genes. Genes without a symbol fall back to ID.
func (m *Model) Annotate(regions []dmr.Region) {
	for i := range regions {
		r := &regions[i]
		overlapping := m.FindOverlapping(r.Chrom, r.Start, r.End)
		if len(overlapping) == 0 {
			continue
		}

		seen := make(map[string]bool, len(overlapping))
		names := make([]string, 0, len(overlapping))
		for _, g := range overlapping {
			name := g.Name
			if name == "" {
				name = g.ID
			}
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
		sort.Strings(names)
		r.Genes = names
	}
}
