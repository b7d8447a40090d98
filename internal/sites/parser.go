// Package sites parses per-site differential methylation statistics
// tables produced by upstream array pipelines.
package sites

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/clark-lab/dmrcall/internal/dmr"
)

// Default column names in the per-site statistics table.
const (
	ColProbe = "probe"
	ColChrom = "chr"
	ColPos   = "pos"
	ColDelta = "delta"
	ColScore = "fdr"
)

// Columns names the table columns carrying each site attribute. Zero
// values fall back to the package defaults.
type Columns struct {
	Probe string
	Chrom string
	Pos   string
	Delta string
	Score string
}

func (c Columns) withDefaults() Columns {
	if c.Probe == "" {
		c.Probe = ColProbe
	}
	if c.Chrom == "" {
		c.Chrom = ColChrom
	}
	if c.Pos == "" {
		c.Pos = ColPos
	}
	if c.Delta == "" {
		c.Delta = ColDelta
	}
	if c.Score == "" {
		c.Score = ColScore
	}
	return c
}

// columnIndices holds the resolved indices of the site columns.
type columnIndices struct {
	Probe int
	Chrom int
	Pos   int
	Delta int
	Score int
}

// Parser reads sites from a tab-delimited statistics table.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	names      Columns
	columns    columnIndices
	headerLine string
	skipped    int
}

// NewParser creates a parser for the given file. "-" reads stdin.
// Gzipped tables are detected by magic bytes, not extension.
func NewParser(path string, names Columns) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin, names)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sites table: %w", err)
	}

	p := &Parser{file: file, names: names.withDefaults()}

	// A table shorter than the two magic bytes cannot be gzip; let
	// parseHeader report the missing header instead of surfacing EOF.
	buf := make([]byte, 2)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		file.Close()
		return nil, fmt.Errorf("read sites table: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek sites table: %w", err)
	}

	// Gzip magic number (0x1f, 0x8b)
	if n == 2 && buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g. stdin).
func NewParserFromReader(r io.Reader, names Columns) (*Parser, error) {
	p := &Parser{
		reader: bufio.NewReader(r),
		names:  names.withDefaults(),
	}
	if err := p.parseHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

// parseHeader reads the header line and resolves column indices.
func (p *Parser) parseHeader() error {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return &ParseError{Line: p.lineNumber, Message: "no header line found"}
			}
			return fmt.Errorf("read header: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		p.headerLine = line
		return p.parseColumnIndices(line)
	}
}

func (p *Parser) parseColumnIndices(headerLine string) error {
	fields := strings.Split(headerLine, "\t")

	p.columns = columnIndices{Probe: -1, Chrom: -1, Pos: -1, Delta: -1, Score: -1}
	for i, col := range fields {
		switch col {
		case p.names.Probe:
			p.columns.Probe = i
		case p.names.Chrom:
			p.columns.Chrom = i
		case p.names.Pos:
			p.columns.Pos = i
		case p.names.Delta:
			p.columns.Delta = i
		case p.names.Score:
			p.columns.Score = i
		}
	}

	missing := func(name string) *ParseError {
		return &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("required column %q not found in header", name),
		}
	}
	switch {
	case p.columns.Probe == -1:
		return missing(p.names.Probe)
	case p.columns.Chrom == -1:
		return missing(p.names.Chrom)
	case p.columns.Pos == -1:
		return missing(p.names.Pos)
	case p.columns.Delta == -1:
		return missing(p.names.Delta)
	case p.columns.Score == -1:
		return missing(p.names.Score)
	}
	return nil
}

// Next reads the next site from the table. Returns nil, nil at EOF.
// Rows carrying NA in the position, delta, or score column are skipped
// and counted (upstream filtering leaves them in some exports).
func (p *Parser) Next() (*dmr.Site, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, fmt.Errorf("read site line: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		s, skip, err := p.parseLine(line)
		if err != nil {
			return nil, err
		}
		if skip {
			p.skipped++
			continue
		}
		return s, nil
	}
}

// ReadAll reads every remaining site into a slice.
func (p *Parser) ReadAll() ([]dmr.Site, error) {
	var out []dmr.Site
	for {
		s, err := p.Next()
		if err != nil {
			return nil, err
		}
		if s == nil {
			return out, nil
		}
		out = append(out, *s)
	}
}

func (p *Parser) parseLine(line string) (*dmr.Site, bool, error) {
	fields := strings.Split(line, "\t")

	minCols := maxIdx(p.columns.Probe, p.columns.Chrom, p.columns.Pos, p.columns.Delta, p.columns.Score)
	if len(fields) <= minCols {
		return nil, false, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least %d columns, found %d", minCols+1, len(fields)),
		}
	}

	posField := fields[p.columns.Pos]
	deltaField := fields[p.columns.Delta]
	scoreField := fields[p.columns.Score]
	if isNA(posField) || isNA(deltaField) || isNA(scoreField) {
		return nil, true, nil
	}

	pos, err := strconv.ParseInt(posField, 10, 64)
	if err != nil {
		return nil, false, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", posField),
		}
	}
	delta, err := strconv.ParseFloat(deltaField, 64)
	if err != nil {
		return nil, false, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid effect size: %s", deltaField),
		}
	}
	score, err := strconv.ParseFloat(scoreField, 64)
	if err != nil {
		return nil, false, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid significance score: %s", scoreField),
		}
	}

	return &dmr.Site{
		ID:    fields[p.columns.Probe],
		Chrom: NormalizeChrom(fields[p.columns.Chrom]),
		Pos:   pos,
		Delta: delta,
		Score: score,
	}, false, nil
}

// NormalizeChrom maps bare chromosome names onto the UCSC-style names
// used by the aggregator's default ordering ("1" -> "chr1", "MT" -> "chrM").
func NormalizeChrom(chrom string) string {
	if chrom == "MT" || chrom == "chrMT" {
		return "chrM"
	}
	if strings.HasPrefix(chrom, "chr") {
		return chrom
	}
	return "chr" + chrom
}

// Header returns the table header line.
func (p *Parser) Header() string {
	return p.headerLine
}

// Skipped returns the number of NA rows skipped so far.
func (p *Parser) Skipped() int {
	return p.skipped
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ParseError is a table parsing error with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sites parse error at line %d: %s", e.Line, e.Message)
}

func isNA(s string) bool {
	return s == "NA" || s == "NaN" || s == ""
}

func maxIdx(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
