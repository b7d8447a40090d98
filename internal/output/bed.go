package output

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/clark-lab/dmrcall/internal/dmr"
)

// BEDWriter writes regions as 6-column BED for genome-browser tracks.
// Region coordinates are 1-based inclusive; BED is 0-based half-open,
// so start shifts down by one.
type BEDWriter struct {
	w *bufio.Writer
}

// NewBEDWriter creates a new BED writer.
func NewBEDWriter(w io.Writer) *BEDWriter {
	return &BEDWriter{w: bufio.NewWriter(w)}
}

// WriteHeader is a no-op: BED carries no header line.
func (bw *BEDWriter) WriteHeader() error {
	return nil
}

// Write writes a single region as a BED line. The name column carries
// the overlapping gene symbols when present, otherwise the coordinate
// label. The score column scales the combined p-value as
// min(1000, round(-10*log10(p))).
func (bw *BEDWriter) Write(r *dmr.Region) error {
	name := r.Label()
	if len(r.Genes) > 0 {
		name = strings.Join(r.Genes, ",")
	}

	_, err := fmt.Fprintf(bw.w, "%s\t%d\t%d\t%s\t%d\t.\n",
		r.Chrom, r.Start-1, r.End, name, bedScore(r.Score))
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (bw *BEDWriter) Flush() error {
	return bw.w.Flush()
}

func bedScore(p float64) int {
	if p <= 0 {
		return 1000
	}
	score := int(math.Round(-10 * math.Log10(p)))
	if score > 1000 {
		return 1000
	}
	if score < 0 {
		return 0
	}
	return score
}
