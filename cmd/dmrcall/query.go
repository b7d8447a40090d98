package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clark-lab/dmrcall/internal/store"
)

func newQueryCmd() *cobra.Command {
	var (
		cachePath string
		gene      string
		run       string
		listRuns  bool
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query cached region calls",
		Example: `  # List cached runs
  dmrcall query --cache regions.duckdb --list-runs

  # All regions from one run
  dmrcall query --cache regions.duckdb --run tumor_vs_normal

  # Regions overlapping a gene, across runs
  dmrcall query --cache regions.duckdb --gene KRAS`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cachePath, gene, run, listRuns)
		},
	}

	cmd.Flags().StringVar(&cachePath, "cache", "", "DuckDB file holding cached region calls")
	cmd.Flags().StringVar(&gene, "gene", "", "Return regions annotated with this gene symbol")
	cmd.Flags().StringVar(&run, "run", "", "Return regions from this run label")
	cmd.Flags().BoolVar(&listRuns, "list-runs", false, "List cached run labels")
	_ = cmd.MarkFlagRequired("cache")

	return cmd
}

func runQuery(cachePath, gene, run string, listRuns bool) error {
	s, err := store.Open(cachePath)
	if err != nil {
		return err
	}
	defer s.Close()

	if listRuns {
		runs, err := s.Runs()
		if err != nil {
			return err
		}
		for _, r := range runs {
			fmt.Println(r)
		}
		return nil
	}

	var regions []store.StoredRegion
	switch {
	case gene != "":
		regions, err = s.QueryByGene(gene)
	case run != "":
		regions, err = s.QueryRun(run)
	default:
		return fmt.Errorf("one of --gene, --run, or --list-runs is required")
	}
	if err != nil {
		return err
	}

	fmt.Println("#run\tchrom\tstart\tend\tn_sites\tscore\tmean_delta\tgenes\tcalled_at")
	for _, r := range regions {
		genes := "-"
		if len(r.Genes) > 0 {
			genes = strings.Join(r.Genes, ",")
		}
		fmt.Printf("%s\t%s\t%d\t%d\t%d\t%.3g\t%.4f\t%s\t%s\n",
			r.Run, r.Chrom, r.Start, r.End, r.NSites, r.Score, r.MeanDelta,
			genes, r.CalledAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
