package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-enricher/internal/leadfile"
	"github.com/sells-group/lead-enricher/internal/model"
)

// Batch-level input errors. Nothing is written when either is returned.
var (
	ErrInputNotFound = eris.New("pipeline: input file not found")
	ErrNoLeads       = eris.New("pipeline: no leads found in input file")
)

// FileOptions names the files of one batch.
type FileOptions struct {
	Input string
	// Output defaults to "<input stem>_enriched<ext>".
	Output string
	// XLSXPath and SummaryPath are written only when set.
	XLSXPath    string
	SummaryPath string
}

// EnrichFile enriches every lead of a tab-delimited file and writes the
// enriched file, plus a review file when any lead qualifies.
func (p *Pipeline) EnrichFile(ctx context.Context, opts FileOptions) (*model.RunSummary, error) {
	if _, err := os.Stat(opts.Input); errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrapf(ErrInputNotFound, "%s", opts.Input)
	}

	leads, header, err := leadfile.ReadTSV(opts.Input)
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return nil, eris.Wrapf(ErrNoLeads, "%s", opts.Input)
	}

	output := opts.Output
	if output == "" {
		output = leadfile.DefaultOutputPath(opts.Input)
	}

	runID := p.startRun(ctx, opts.Input)
	fmt.Fprintf(p.out, "Processing %d leads...\n", len(leads))

	res, err := p.Run(ctx, leads)
	if err != nil {
		p.finishRun(ctx, runID, nil, err)
		return nil, err
	}

	summary, err := p.writeOutputs(model.OutputHeader(header), output, opts, res)
	if err != nil {
		p.finishRun(ctx, runID, nil, err)
		return nil, err
	}
	summary.RunID = runID
	p.finishRun(ctx, runID, summary, nil)

	if opts.SummaryPath != "" {
		if err := leadfile.WriteSummaryYAML(opts.SummaryPath, *summary); err != nil {
			return nil, err
		}
	}

	p.printSummary(summary)
	return summary, nil
}

func (p *Pipeline) writeOutputs(header []string, output string, opts FileOptions, res *BatchResult) (*model.RunSummary, error) {
	summary := res.Summary
	summary.OutputPath = output

	if err := leadfile.WriteTSV(output, header, res.Leads); err != nil {
		return nil, err
	}
	if len(res.Review) > 0 {
		summary.ReviewPath = leadfile.ReviewPath(output)
		if err := leadfile.WriteTSV(summary.ReviewPath, header, res.Review); err != nil {
			return nil, err
		}
	}
	if opts.XLSXPath != "" {
		if err := leadfile.WriteXLSX(opts.XLSXPath, header, res.Leads); err != nil {
			return nil, err
		}
	}
	return &summary, nil
}

func (p *Pipeline) printSummary(s *model.RunSummary) {
	fmt.Fprintf(p.out, "\nComplete!\n")
	fmt.Fprintf(p.out, "  Total leads: %d\n", s.Total)
	fmt.Fprintf(p.out, "  High confidence: %d\n", s.HighConfidence)
	fmt.Fprintf(p.out, "  Needs review: %d\n", s.ReviewNeeded)
	fmt.Fprintf(p.out, "  Output: %s\n", s.OutputPath)
	if s.ReviewPath != "" {
		fmt.Fprintf(p.out, "  Review file: %s\n", s.ReviewPath)
	}
}

// startRun records the batch when a store is configured. Store failures
// never stop the batch.
func (p *Pipeline) startRun(ctx context.Context, input string) string {
	if p.store == nil {
		return ""
	}
	run, err := p.store.CreateRun(ctx, input)
	if err != nil {
		zap.L().Warn("pipeline: failed to create run", zap.Error(err))
		return ""
	}
	return run.ID
}

func (p *Pipeline) finishRun(ctx context.Context, runID string, summary *model.RunSummary, runErr error) {
	if p.store == nil || runID == "" {
		return
	}
	if err := p.store.FinishRun(context.WithoutCancel(ctx), runID, summary, runErr); err != nil {
		zap.L().Warn("pipeline: failed to finish run", zap.String("run_id", runID), zap.Error(err))
	}
}
