package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-enricher/internal/locale"
	"github.com/sells-group/lead-enricher/internal/pipeline"
	"github.com/sells-group/lead-enricher/internal/search"
)

var (
	enrichMinConfidence float64
	enrichTest          bool
	enrichXLSX          string
	enrichSummary       string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <input> [output]",
	Short: "Enrich a tab-delimited lead file",
	Long:  "Reads leads from a tab-delimited file, resolves website and LinkedIn pages for each, and writes <input>_enriched plus a review file for uncertain matches.",
	Args: func(cmd *cobra.Command, args []string) error {
		if enrichTest {
			return cobra.MaximumNArgs(2)(cmd, args)
		}
		return cobra.RangeArgs(1, 2)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if enrichTest {
			apiKey, err := resolveAPIKey()
			if err != nil {
				fmt.Fprintf(os.Stdout, "Configuration error: %v\n", err)
				return err
			}
			return testSearch(ctx, newIssuer(apiKey, nil), os.Stdout)
		}

		minConfidence := cfg.Enrich.MinConfidence
		if cmd.Flags().Changed("min-confidence") {
			minConfidence = enrichMinConfidence
		}
		cfg.Enrich.MinConfidence = minConfidence

		env, err := initEnricher(ctx, "enrich", minConfidence, os.Stdout)
		if err != nil {
			return err
		}
		defer env.Close()

		_, err = env.Pipeline.EnrichFile(ctx, enrichFileOptions(args))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return err
		}
		return nil
	},
}

func enrichFileOptions(args []string) pipeline.FileOptions {
	opts := pipeline.FileOptions{
		Input:       args[0],
		XLSXPath:    enrichXLSX,
		SummaryPath: enrichSummary,
	}
	if len(args) > 1 {
		opts.Output = args[1]
	}
	return opts
}

// testSearch issues a single query to check that the credential works.
func testSearch(ctx context.Context, s search.Searcher, w io.Writer) error {
	resp := s.Search(ctx, "test", locale.DefaultCountry, 1)
	if !resp.OK() {
		fmt.Fprintf(w, "API test failed: %v\n", resp.Err)
		return eris.Wrap(resp.Err, "api test")
	}
	fmt.Fprintf(w, "API test successful (%d results)\n", len(resp.Results))
	return nil
}

func init() {
	enrichCmd.Flags().Float64Var(&enrichMinConfidence, "min-confidence", 0.8, "confidence required to skip manual review")
	enrichCmd.Flags().BoolVar(&enrichTest, "test", false, "check the API credential with one search and exit")
	enrichCmd.Flags().StringVar(&enrichXLSX, "xlsx", "", "also write the enriched leads to this XLSX file")
	enrichCmd.Flags().StringVar(&enrichSummary, "summary", "", "write the run summary to this YAML file")
	rootCmd.AddCommand(enrichCmd)
}
