package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/risky-journals/internal/cli"
	"github.com/spf13/cobra"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Browse past scan runs",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent scan runs",
		RunE:  runRunsList,
	}
	listCmd.Flags().Int("limit", 10, "Maximum number of runs to show")

	showCmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "Show the flagged entries recorded for a past run",
		Args:  cobra.ExactArgs(1),
		RunE:  runRunsShow,
	}

	cmd.AddCommand(listCmd)
	cmd.AddCommand(showCmd)

	return cmd
}

func runRunsList(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := openStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No scan runs recorded yet."))
		return nil
	}

	fmt.Println(cli.FormatTitle("Scan runs"))
	header := fmt.Sprintf("%-5s %-20s %-8s %-8s %-8s  %s", "ID", "Started", "Scanned", "Flagged", "Skipped", "Input")
	fmt.Println(cli.TableHeaderStyle.Render(header))
	for _, run := range runs {
		fmt.Printf("%-5d %-20s %-8d %-8d %-8d  %s\n",
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.RowsScanned,
			run.RowsFlagged,
			run.RowsSkipped,
			run.InputPath)
	}

	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run ID %q: %w", args[0], err)
	}

	store, err := openStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	run, err := store.GetRun(cmd.Context(), id)
	if err != nil {
		return err
	}

	findings, err := store.GetFindings(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to load findings: %w", err)
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Run %d — %s", run.ID, run.InputPath)))
	fmt.Printf("Started %s · %d scanned · %d flagged (score ≥ %d) · %d skipped\n\n",
		run.StartedAt.Format("2006-01-02 15:04:05"),
		run.RowsScanned, run.RowsFlagged, run.FlagThreshold, run.RowsSkipped)

	if len(findings) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No entries were flagged in this run."))
		return nil
	}

	header := fmt.Sprintf("%-12s %-20s %-12s %12s %6s  %s", "Entry", "Date", "Account", "Amount", "Score", "Reasons")
	fmt.Println(cli.TableHeaderStyle.Render(header))
	for _, f := range findings {
		fmt.Printf("%-12s %-20s %-12s %12s %6d  %s\n",
			f.EntryID,
			f.Date.Format("2006-01-02 15:04:05"),
			f.Account,
			f.Amount.StringFixed(2),
			f.RiskScore,
			strings.Join(f.Reasons, ","))
	}

	return nil
}
