// cmd/evaluator/evaluate.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/shub15/the-unfair-advantage/internal/common/observability"
	"github.com/shub15/the-unfair-advantage/internal/pipeline"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var evaluateCommand = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate one submission and write its artifacts",
	Long: `Evaluates a business plan from an OCR document, a speech transcript, or both.

The document may be a JSON object (already-extracted buckets or OCR output with a "text" field)
or plain text. At least one of --document and --transcript is required.`,
	RunE: runEvaluate,
}

var (
	evalDocument     string
	evalTranscript   string
	evalLocale       string
	evalOut          string
	evalSubmissionID string
	evalEnhanced     bool
	evalMarket       bool
	evalFeedback     bool
)

func init() {
	evaluateCommand.Flags().StringVarP(&evalDocument, "document", "d", "", "Path to the OCR output (JSON) or plain document text")
	evaluateCommand.Flags().StringVarP(&evalTranscript, "transcript", "t", "", "Path to the speech transcript")
	evaluateCommand.Flags().StringVarP(&evalLocale, "locale", "l", "", "Report locale, e.g. hi-IN (defaults to pipeline.default_locale)")
	evaluateCommand.Flags().StringVarP(&evalOut, "out", "o", "", "Output directory (defaults to pipeline.output_dir)")
	evaluateCommand.Flags().StringVar(&evalSubmissionID, "submission-id", "", "Submission ID (generated when empty)")
	evaluateCommand.Flags().BoolVar(&evalEnhanced, "enhanced", false, "Use enhanced six-category scoring")
	evaluateCommand.Flags().BoolVar(&evalMarket, "market", false, "Run market enrichment")
	evaluateCommand.Flags().BoolVar(&evalFeedback, "feedback", false, "Generate entrepreneur feedback")

	rootCmd.AddCommand(evaluateCommand)
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	if evalDocument == "" && evalTranscript == "" {
		return fmt.Errorf("at least one of --document and --transcript is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	// Command-line flags override the file only when set.
	opts := pipeline.Options{
		EnhancedScoring:   cfg.Pipeline.EnhancedScoring,
		MarketEnrichment:  cfg.Pipeline.MarketEnrichment,
		Feedback:          cfg.Pipeline.Feedback,
		DefaultLocale:     cfg.Pipeline.DefaultLocale,
		GroundingMinRatio: cfg.Pipeline.GroundingMinRatio,
	}
	if cmd.Flags().Changed("enhanced") {
		opts.EnhancedScoring = evalEnhanced
	}
	if cmd.Flags().Changed("market") {
		opts.MarketEnrichment = evalMarket
	}
	if cmd.Flags().Changed("feedback") {
		opts.Feedback = evalFeedback
	}
	outDir := cfg.Pipeline.OutputDir
	if evalOut != "" {
		outDir = evalOut
	}

	sub := pipeline.Submission{
		SubmissionID: evalSubmissionID,
		Locale:       evalLocale,
	}
	if sub.SubmissionID == "" {
		sub.SubmissionID = uuid.New().String()
	}
	if evalDocument != "" {
		if sub.OCRData, err = readDocument(evalDocument); err != nil {
			return err
		}
	}
	if evalTranscript != "" {
		data, err := os.ReadFile(evalTranscript)
		if err != nil {
			return fmt.Errorf("failed to read transcript: %w", err)
		}
		sub.Transcript = string(data)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs := observability.New(cfg.Observability.ServiceName, cfg.Observability.OTLPEndpoint, log)
	defer obs.Shutdown()

	generator, err := newGenerator(ctx, cfg, log)
	if err != nil {
		return err
	}
	if generator != nil {
		defer generator.Close()
	}
	searcher, closeSearcher := newSearcher(ctx, cfg, log)
	defer closeSearcher()

	start := time.Now()
	result, err := pipeline.New(generator, searcher, opts, log).Run(ctx, sub)
	if err != nil {
		obs.RecordJobProcessed(ctx, "evaluate", "cancelled")
		return fmt.Errorf("evaluation aborted: %w", err)
	}
	obs.RecordJobProcessed(ctx, "evaluate", result.Views.Status)
	obs.RecordJobDuration(ctx, "evaluate", time.Since(start), result.Views.Status)

	paths, err := pipeline.NewArtifactWriter(outDir, log).Write(result)
	if err != nil {
		return fmt.Errorf("failed to write artifacts: %w", err)
	}

	out := cmd.OutOrStdout()
	score := result.Case.Score
	fmt.Fprintf(out, "Case:        %s\n", result.Case.CaseID)
	fmt.Fprintf(out, "Business:    %s\n", result.Case.Profile.Concept.BusinessName)
	fmt.Fprintf(out, "Score:       %d/%d (%s)\n", score.Total, score.Max, score.ScoringMethod)
	fmt.Fprintf(out, "Eligibility: %s\n", score.Eligibility)
	fmt.Fprintf(out, "Reports:     %s\n", result.Views.Status)
	if e := result.Case.DataSources.ProfileError; e != nil {
		fmt.Fprintf(out, "Profile:     %s (%s)\n", e.Code, e.Message)
	}
	for _, p := range paths {
		fmt.Fprintf(out, "  wrote %s\n", p)
	}
	return nil
}

// readDocument parses a JSON object, or wraps plain text as {"text": ...}.
func readDocument(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, nil
	}
	return map[string]interface{}{"text": text}, nil
}
