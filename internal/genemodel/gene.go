// Package genemodel provides gene-level annotation lookup for called
// regions.
package genemodel

// Gene is a gene-level record from a GENCODE annotation.
type Gene struct {
	ID      string // Gene identifier (e.g. ENSG00000133703)
	Name    string // Gene symbol (e.g. KRAS)
	Chrom   string // Chromosome
	Start   int64  // Gene start (1-based)
	End     int64  // Gene end (1-based, inclusive)
	Strand  int8   // +1 (forward) or -1 (reverse)
	Biotype string // Gene biotype (e.g. protein_coding)
}

// IsForwardStrand returns true if the gene is on the forward strand.
func (g *Gene) IsForwardStrand() bool {
	return g.Strand == 1
}

// Overlaps returns true if [start, end] intersects the gene boundaries.
func (g *Gene) Overlaps(start, end int64) bool {
	return start <= g.End && end >= g.Start
}
