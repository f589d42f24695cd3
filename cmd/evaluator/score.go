// cmd/evaluator/score.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shub15/the-unfair-advantage/internal/models"
	calculatescore "github.com/shub15/the-unfair-advantage/internal/workers/evaluation/calculate-score"

	"github.com/spf13/cobra"
)

var scoreCommand = &cobra.Command{
	Use:   "score",
	Short: "Score an existing business_profile.json",
	Long: `Recomputes the completeness score of a profile and, with --enhanced, the six-category score.
Prints the result as JSON.`,
	RunE: runScore,
}

var (
	scoreProfile  string
	scoreMarket   string
	scoreEnhanced bool
)

func init() {
	scoreCommand.Flags().StringVarP(&scoreProfile, "profile", "p", "", "Path to business_profile.json")
	scoreCommand.Flags().StringVar(&scoreMarket, "market", "", "Path to market research JSON (optional)")
	scoreCommand.Flags().BoolVar(&scoreEnhanced, "enhanced", false, "Use enhanced six-category scoring")
	_ = scoreCommand.MarkFlagRequired("profile")

	rootCmd.AddCommand(scoreCommand)
}

func runScore(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	var profile models.BusinessProfile
	if err := readJSON(scoreProfile, &profile); err != nil {
		return err
	}
	profile.Normalize()

	input := &calculatescore.Input{
		SubmissionID: "cli",
		Profile:      models.ProfileOK(profile),
		Enhanced:     &scoreEnhanced,
	}
	if scoreMarket != "" {
		var research models.MarketResearch
		if err := readJSON(scoreMarket, &research); err != nil {
			return err
		}
		input.MarketResearch = &research
	}

	ctx := context.Background()
	generator, err := newGenerator(ctx, cfg, log)
	if err != nil {
		return err
	}
	if generator != nil {
		defer generator.Close()
	}

	output, err := calculatescore.NewHandler(calculatescore.LoadConfig(), generator, log).Execute(ctx, input)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
