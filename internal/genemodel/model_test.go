package genemodel

import (
	"strings"
	"testing"

	"github.com/clark-lab/dmrcall/internal/dmr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGTF = `##description: test annotation
chr1	HAVANA	gene	1000	2000	.	+	.	gene_id "ENSG001.5"; gene_type "protein_coding"; gene_name "ALPHA";
chr1	HAVANA	transcript	1000	2000	.	+	.	gene_id "ENSG001.5"; transcript_id "ENST001.1";
chr1	HAVANA	gene	1500	3000	.	-	.	gene_id "ENSG002.2"; gene_type "lncRNA"; gene_name "BETA";
chr2	HAVANA	gene	500	900	.	+	.	gene_id "ENSG003.1"; gene_type "protein_coding"; gene_name "GAMMA";
chr2	HAVANA	gene	5000	5100	.	+	.	gene_id "ENSG004.1"; gene_type "protein_coding";
`

func TestParseGTF_GeneLinesOnly(t *testing.T) {
	m, err := ParseGTF(strings.NewReader(testGTF))
	require.NoError(t, err)

	assert.Equal(t, 4, m.GeneCount(), "transcript lines skipped")
	assert.Equal(t, []string{"chr1", "chr2"}, m.Chromosomes())

	genes := m.FindOverlapping("chr1", 1200, 1300)
	require.Len(t, genes, 1)
	assert.Equal(t, "ENSG001", genes[0].ID, "version suffix stripped")
	assert.Equal(t, "ALPHA", genes[0].Name)
	assert.Equal(t, "protein_coding", genes[0].Biotype)
	assert.True(t, genes[0].IsForwardStrand())

	genes = m.FindOverlapping("chr1", 1600, 1700)
	assert.Len(t, genes, 2, "ALPHA and BETA overlap")
}

func TestModel_FindOverlapping_UnknownChrom(t *testing.T) {
	m, err := ParseGTF(strings.NewReader(testGTF))
	require.NoError(t, err)
	assert.Empty(t, m.FindOverlapping("chr9", 1, 1_000_000))
}

func TestModel_Annotate(t *testing.T) {
	m, err := ParseGTF(strings.NewReader(testGTF))
	require.NoError(t, err)

	regions := []dmr.Region{
		{Chrom: "chr1", Start: 1600, End: 1700},
		{Chrom: "chr2", Start: 5050, End: 5060},
		{Chrom: "chr2", Start: 10000, End: 10100},
	}
	m.Annotate(regions)

	assert.Equal(t, []string{"ALPHA", "BETA"}, regions[0].Genes, "sorted symbols")
	assert.Equal(t, []string{"ENSG004"}, regions[1].Genes, "unnamed gene falls back to ID")
	assert.Nil(t, regions[2].Genes, "intergenic region left unannotated")
}
