package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/risky-journals/internal/cli"
	"github.com/Veraticus/risky-journals/internal/rules"
	"github.com/spf13/cobra"
)

func rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Show the rule table and current settings",
		Run:   runRules,
	}
}

func runRules(_ *cobra.Command, _ []string) {
	cfg := ruleConfigFromViper()
	engine := rules.NewEngine(cfg)

	fmt.Println(cli.FormatTitle("Scoring rules"))
	header := fmt.Sprintf("%-15s %s", "Rule", "Weight")
	fmt.Println(cli.TableHeaderStyle.Render(header))
	for _, w := range engine.RuleWeights() {
		fmt.Printf("%-15s %d\n", w.Name, w.Weight)
	}

	fmt.Println()
	fmt.Printf("Late-night window: %02d:00–%02d:59\n", cfg.LateNightStartHour, cfg.LateNightEndHour)
	fmt.Printf("Top-percentile cutoff: %.2f\n", cfg.TopPercentile)
	fmt.Printf("Flag threshold: score ≥ %d\n", cfg.FlagThreshold)
	fmt.Printf("Risky memo terms: %s\n", strings.Join(cfg.RiskyMemoTerms, ", "))
	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("Maximum possible score: %d", rules.MaxScore)))
}
