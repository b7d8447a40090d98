// Package output provides region output formatters.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/clark-lab/dmrcall/internal/dmr"
)

// RegionWriter is implemented by all region output formats.
type RegionWriter interface {
	WriteHeader() error
	Write(r *dmr.Region) error
	Flush() error
}

// TabWriter writes regions in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#chrom",
			"start",
			"end",
			"n_sites",
			"score",
			"mean_delta",
			"genes",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single region.
func (tw *TabWriter) Write(r *dmr.Region) error {
	genes := "-"
	if len(r.Genes) > 0 {
		genes = strings.Join(r.Genes, ",")
	}

	values := []string{
		r.Chrom,
		fmt.Sprintf("%d", r.Start),
		fmt.Sprintf("%d", r.End),
		fmt.Sprintf("%d", r.NSites),
		fmt.Sprintf("%.3g", r.Score),
		fmt.Sprintf("%.4f", r.MeanDelta),
		genes,
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
