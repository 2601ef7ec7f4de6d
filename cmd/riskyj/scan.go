package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/risky-journals/internal/cli"
	"github.com/Veraticus/risky-journals/internal/common"
	"github.com/Veraticus/risky-journals/internal/config"
	"github.com/Veraticus/risky-journals/internal/ingest"
	"github.com/Veraticus/risky-journals/internal/model"
	"github.com/Veraticus/risky-journals/internal/report"
	"github.com/Veraticus/risky-journals/internal/rules"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [journals.csv]",
		Short: "Scan a journal CSV for risky entries",
		Long: `Scan a ledger of journal entries against the built-in heuristic rules,
write flagged rows to risky.csv, and render a summary.md report.

Examples:
  # Scan with defaults (writes to ./out)
  riskyj scan data/journals.csv

  # Stricter reporting threshold, custom output directory
  riskyj scan --threshold 4 --out /tmp/audit data/journals.csv

  # Abort on the first malformed row instead of skipping
  riskyj scan --strict data/journals.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runScan,
	}

	cmd.Flags().StringP("out", "o", "out", "Output directory for risky.csv and summary.md")
	cmd.Flags().Int("threshold", 0, "Minimum risk score to flag (default from config)")
	cmd.Flags().Bool("strict", false, "Abort on the first malformed row instead of skipping it")
	cmd.Flags().Bool("no-save", false, "Do not record this scan in run history")

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("out")
	strict, _ := cmd.Flags().GetBool("strict")
	noSave, _ := cmd.Flags().GetBool("no-save")

	cfg := ruleConfigFromViper()
	if cmd.Flags().Changed("threshold") {
		cfg.FlagThreshold, _ = cmd.Flags().GetInt("threshold")
	}
	if cfg.FlagThreshold < 0 || cfg.TopPercentile <= 0 || cfg.TopPercentile > 1 {
		return common.NewUserError("invalid rule configuration", common.ErrInvalidConfig)
	}

	inputPath := config.ExpandPath(args[0])
	started := time.Now()

	slog.Info("📒 Scanning journal entries...", "file", inputPath, "threshold", cfg.FlagThreshold)

	rows, err := ingest.ReadFile(inputPath)
	if err != nil {
		return common.NewUserError("failed to read journal file", err)
	}

	entries, skipped, err := ingest.NormalizeAll(rows, strict)
	if err != nil {
		return common.NewUserError("malformed journal row", err)
	}
	if len(entries) == 0 {
		slog.Warn("No journal entries to scan", "file", inputPath, "skipped", skipped)
	}

	engine := rules.NewEngine(cfg)
	dataset := engine.BuildContext(entries)

	bar := progressbar.Default(int64(len(entries)), "Scoring entries")
	scored := make([]model.ScoredEntry, len(entries))
	for i := range entries {
		scored[i] = engine.Score(entries[i], dataset)
		_ = bar.Add(1)
	}
	rules.SortByRisk(scored)

	flagged := report.Flagged(scored, cfg.FlagThreshold)
	summary := report.BuildSummary(scored, flagged, skipped, engine, cfg.FlagThreshold)

	if err := report.WriteOutputs(outDir, flagged, summary); err != nil {
		return common.NewUserError("failed to write outputs", err)
	}

	if !noSave {
		run := model.Run{
			StartedAt:     started,
			InputPath:     inputPath,
			RowsScanned:   len(entries),
			RowsFlagged:   len(flagged),
			RowsSkipped:   skipped,
			FlagThreshold: cfg.FlagThreshold,
		}
		if err := saveRun(cmd.Context(), run, flagged); err != nil {
			// History is best-effort; the outputs on disk are the deliverable.
			slog.Warn("Failed to record run history", "error", err)
		}
	}

	printScanSummary(summary, outDir)
	return nil
}

func saveRun(ctx context.Context, run model.Run, flagged []model.ScoredEntry) error {
	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	id, err := store.SaveRun(ctx, run, flagged)
	if err != nil {
		return err
	}

	slog.Debug("Recorded scan run", "run_id", id, "findings", len(flagged))
	return nil
}

func printScanSummary(s report.Summary, outDir string) {
	var b strings.Builder

	fmt.Fprintf(&b, "Rows scanned: %d\n", s.RowsScanned)
	fmt.Fprintf(&b, "Rows flagged (score ≥ %d): %d\n", s.FlagThreshold, s.RowsFlagged)
	if s.RowsSkipped > 0 {
		b.WriteString(cli.FormatWarning(fmt.Sprintf("Rows skipped (malformed): %d", s.RowsSkipped)) + "\n")
	}

	if len(s.TopRules) > 0 {
		b.WriteString("\nTop rule triggers:\n")
		for _, r := range s.TopRules {
			fmt.Fprintf(&b, "  %s ×%d\n", r.Name, r.Count)
		}
	}

	fmt.Println(cli.RenderBox(cli.SearchIcon+" Scan complete", strings.TrimRight(b.String(), "\n")))
	fmt.Println(cli.SubtleStyle.Render("Outputs: " + outDir))
}
