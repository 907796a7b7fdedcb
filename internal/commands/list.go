package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/subtrack-dev/subtrack/internal/candidates"
	"github.com/subtrack-dev/subtrack/internal/config"
)

func newListCommand() *cobra.Command {
	var repoDir string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored subscription candidates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(repoDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runList(absDir, all)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "data directory")
	cmd.Flags().BoolVar(&all, "all", false, "include ineligible and low-confidence candidates")

	return cmd
}

func runList(repoRoot string, all bool) error {
	cfg, err := config.Load(filepath.Join(repoRoot, "subtrack.yaml"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	recs, err := candidates.NewStore(repoRoot).Read()
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("No candidates stored.")
		return nil
	}

	shown := 0
	fmt.Printf("%-28s %10s %-10s %-12s %-10s %s\n",
		"MERCHANT", "AMOUNT", "CYCLE", "NEXT CHARGE", "CONFIDENCE", "STATUS")
	for _, rec := range recs {
		surfaced := rec.Eligible && rec.Confidence >= cfg.Thresholds.MinConfidence
		if !surfaced && !all {
			continue
		}

		status := "ok"
		switch {
		case !rec.Eligible:
			status = string(rec.RejectionReason)
		case !surfaced:
			status = "low_confidence"
		}

		next := rec.NextCharge.Format("2006-01-02")
		if rec.StaleProjection {
			next += " (stale)"
		}

		fmt.Printf("%-28s %10s %-10s %-12s %-10d %s\n",
			rec.Merchant, rec.Amount.StringFixed(2)+" "+rec.Currency, rec.Cycle, next, rec.Confidence, status)
		shown++
	}

	if shown == 0 {
		fmt.Println("No surfaced candidates; use --all to see everything.")
	}
	return nil
}
