package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/clark-lab/dmrcall/internal/dmr"
	"github.com/clark-lab/dmrcall/internal/genemodel"
	"github.com/clark-lab/dmrcall/internal/output"
	"github.com/clark-lab/dmrcall/internal/sites"
	"github.com/clark-lab/dmrcall/internal/store"
)

// callOptions collects the call command's flag values.
type callOptions struct {
	sigCutoff   float64
	maxGap      int64
	minSites    int
	minAbsDelta float64
	gtfPath     string
	assembly    string
	format      string
	outputFile  string
	cachePath   string
	runLabel    string
	columns     sites.Columns
}

func newCallCmd() *cobra.Command {
	var opts callOptions

	defaults := dmr.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "call <sites.tsv>",
		Short: "Call DMRs from a per-site statistics table",
		Long: `Call differentially methylated regions from a tab-delimited table of
per-site test results (probe ID, chromosome, position, methylation
difference, significance score). Use '-' to read the table from stdin.`,
		Args: cobra.ExactArgs(1),
		Example: `  # Call regions with default thresholds
  dmrcall call stats.tsv

  # Looser gap, stricter significance, BED track output
  dmrcall call --max-gap 2000 --sig-cutoff 0.01 -f bed -o dmrs.bed stats.tsv

  # limma-style column names
  dmrcall call --col-probe Name --col-score adj.P.Val stats.tsv.gz

  # Cache the calls for later queries
  dmrcall call --cache ~/.dmrcall/regions.duckdb --run tumor_vs_normal stats.tsv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(args[0], opts)
		},
	}

	fl := cmd.Flags()
	fl.Float64Var(&opts.sigCutoff, "sig-cutoff", defaults.SigCutoff, "Per-site significance cutoff in (0,1]")
	fl.Int64Var(&opts.maxGap, "max-gap", defaults.MaxGap, "Maximum gap in bp between member sites")
	fl.IntVar(&opts.minSites, "min-sites", defaults.MinSites, "Minimum member sites per region (1 = no minimum)")
	fl.Float64Var(&opts.minAbsDelta, "min-abs-delta", 0, "Minimum |mean methylation difference| per region (0 = off)")
	fl.StringVar(&opts.gtfPath, "gtf", "", "Gene annotation GTF for overlap annotation (default: downloaded cache)")
	fl.StringVar(&opts.assembly, "assembly", "GRCh38", "Genome assembly for the default GTF lookup")
	fl.StringVarP(&opts.format, "format", "f", "tab", "Output format: tab, bed")
	fl.StringVarP(&opts.outputFile, "output", "o", "", "Output file (default: stdout)")
	fl.StringVar(&opts.cachePath, "cache", "", "DuckDB file to cache the region calls in")
	fl.StringVar(&opts.runLabel, "run", "", "Run label for cached calls (default: input file name)")
	fl.StringVar(&opts.columns.Probe, "col-probe", sites.ColProbe, "Probe ID column name")
	fl.StringVar(&opts.columns.Chrom, "col-chr", sites.ColChrom, "Chromosome column name")
	fl.StringVar(&opts.columns.Pos, "col-pos", sites.ColPos, "Position column name")
	fl.StringVar(&opts.columns.Delta, "col-delta", sites.ColDelta, "Effect size column name")
	fl.StringVar(&opts.columns.Score, "col-score", sites.ColScore, "Significance score column name")

	// Config file / env overrides for the thresholds
	_ = viper.BindPFlag("call.sig_cutoff", fl.Lookup("sig-cutoff"))
	_ = viper.BindPFlag("call.max_gap", fl.Lookup("max-gap"))
	_ = viper.BindPFlag("call.min_sites", fl.Lookup("min-sites"))
	_ = viper.BindPFlag("call.min_abs_delta", fl.Lookup("min-abs-delta"))

	return cmd
}

func runCall(inputPath string, opts callOptions) error {
	cfg := dmr.Config{
		SigCutoff:   viper.GetFloat64("call.sig_cutoff"),
		MaxGap:      viper.GetInt64("call.max_gap"),
		MinSites:    viper.GetInt("call.min_sites"),
		MinAbsDelta: viper.GetFloat64("call.min_abs_delta"),
	}

	parser, err := sites.NewParser(inputPath, opts.columns)
	if err != nil {
		return err
	}
	defer parser.Close()

	all, err := parser.ReadAll()
	if err != nil {
		return err
	}
	logger.Info("loaded sites",
		zap.String("input", inputPath),
		zap.Int("sites", len(all)),
		zap.Int("skipped_na", parser.Skipped()))

	regions, err := dmr.Aggregate(all, cfg)
	if err != nil {
		return err
	}
	logger.Info("called regions",
		zap.Int("regions", len(regions)),
		zap.Float64("sig_cutoff", cfg.SigCutoff),
		zap.Int64("max_gap", cfg.MaxGap),
		zap.Int("min_sites", cfg.MinSites))

	if err := annotateRegions(regions, opts); err != nil {
		return err
	}

	if err := writeRegions(regions, opts); err != nil {
		return err
	}

	if opts.cachePath != "" {
		if err := cacheRegions(regions, cfg, inputPath, opts); err != nil {
			return err
		}
	}

	return nil
}

// annotateRegions fills Region.Genes from the configured or downloaded
// gene model. Missing annotation is a warning, not an error: the region
// table is still useful without gene symbols.
func annotateRegions(regions []dmr.Region, opts callOptions) error {
	gtfPath := opts.gtfPath
	if gtfPath == "" {
		var found bool
		gtfPath, found = findGTF(opts.assembly)
		if !found {
			logger.Warn("no gene annotation found, skipping gene overlap",
				zap.String("assembly", opts.assembly),
				zap.String("hint", "run 'dmrcall download' or pass --gtf"))
			return nil
		}
	}

	model, err := genemodel.LoadGTF(gtfPath)
	if err != nil {
		return fmt.Errorf("load gene annotation: %w", err)
	}
	logger.Info("loaded gene annotation",
		zap.String("gtf", gtfPath),
		zap.Int("genes", model.GeneCount()))

	model.Annotate(regions)
	return nil
}

func writeRegions(regions []dmr.Region, opts callOptions) error {
	var out *os.File
	if opts.outputFile == "" {
		out = os.Stdout
	} else {
		var err error
		out, err = os.Create(opts.outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer out.Close()
	}

	var writer output.RegionWriter
	switch opts.format {
	case "tab":
		writer = output.NewTabWriter(out)
	case "bed":
		writer = output.NewBEDWriter(out)
	default:
		return fmt.Errorf("unknown output format %q", opts.format)
	}

	if err := writer.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range regions {
		if err := writer.Write(&regions[i]); err != nil {
			return fmt.Errorf("write region: %w", err)
		}
	}
	return writer.Flush()
}

// cacheRegions replaces the run's cached calls with this run's output.
func cacheRegions(regions []dmr.Region, cfg dmr.Config, inputPath string, opts callOptions) error {
	run := opts.runLabel
	if run == "" {
		run = strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	}

	s, err := store.Open(opts.cachePath)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.DeleteRun(run); err != nil {
		return fmt.Errorf("clear cached run: %w", err)
	}
	if err := s.WriteRegions(run, cfg, regions); err != nil {
		return fmt.Errorf("cache regions: %w", err)
	}

	logger.Info("cached region calls",
		zap.String("cache", opts.cachePath),
		zap.String("run", run),
		zap.Int("regions", len(regions)))
	return nil
}
