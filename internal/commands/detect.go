package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/subtrack-dev/subtrack/internal/candidates"
	"github.com/subtrack-dev/subtrack/internal/config"
	"github.com/subtrack-dev/subtrack/internal/detect"
	"github.com/subtrack-dev/subtrack/internal/gitops"
	"github.com/subtrack-dev/subtrack/internal/importer"
	"github.com/subtrack-dev/subtrack/internal/logger"
	"github.com/subtrack-dev/subtrack/internal/model"
	"github.com/subtrack-dev/subtrack/internal/runlog"
	"github.com/subtrack-dev/subtrack/internal/terms"
)

func newDetectCommand() *cobra.Command {
	var repoDir string
	var format string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Run subscription detection over pending import files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(repoDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runDetect(absDir, format, verbose)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "data directory")
	cmd.Flags().StringVar(&format, "format", "", "import format (default from subtrack.yaml)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	return cmd
}

func runDetect(repoRoot, format string, verbose bool) error {
	log := logger.New(verbose)

	cfg, err := config.Load(filepath.Join(repoRoot, "subtrack.yaml"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	termSvc, err := terms.Load(repoRoot)
	if err != nil {
		return fmt.Errorf("loading term lists: %w", err)
	}

	if format == "" {
		format = cfg.Import.DefaultFormat
	}
	parser := importer.DefaultRegistry().Get(format)
	if parser == nil {
		return fmt.Errorf("unknown import format %q", format)
	}

	files, err := importer.Scan(repoRoot)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No import files found.")
		return nil
	}

	var raw []model.RawTransaction
	var sources []string
	for _, file := range files {
		f, err := os.Open(file.Path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", file.Name, err)
		}
		txns, err := parser.Parse(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("parsing %s: %w", file.Name, err)
		}
		log.Info().Str("file", file.Name).Int("transactions", len(txns)).Msg("parsed import file")
		raw = append(raw, txns...)
		sources = append(sources, file.Name)
	}

	engine := detect.New(termSvc,
		detect.WithRules(rulesFromConfig(cfg)),
		detect.WithLogger(log),
	)
	report := engine.Run(raw)
	surfaced := detect.Surfaced(report.Candidates, cfg.Thresholds.MinConfidence)

	store := candidates.NewStore(repoRoot)
	inserted, updated, err := store.Upsert(report.Candidates)
	if err != nil {
		return err
	}

	entry := runlog.Entry{
		Timestamp:  time.Now().UTC(),
		RunID:      uuid.NewString(),
		Source:     strings.Join(sources, ","),
		Parsed:     report.Parsed,
		Skipped:    report.Skipped,
		Candidates: len(report.Candidates),
		Surfaced:   len(surfaced),
	}
	if err := runlog.Append(repoRoot, []runlog.Entry{entry}); err != nil {
		return err
	}

	for _, file := range files {
		if err := importer.MarkProcessed(repoRoot, file.Name); err != nil {
			return err
		}
	}

	if cfg.Git.AutoCommit && gitops.IsRepo(repoRoot) {
		changed, err := gitops.HasChanges(repoRoot)
		if err != nil {
			return err
		}
		if changed {
			msg := fmt.Sprintf("detect: %d candidates (%d new, %d updated)", len(report.Candidates), inserted, updated)
			hash, err := gitops.CommitAll(repoRoot, msg, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
			if err != nil {
				return err
			}
			log.Info().Str("commit", hash).Msg("committed candidate store")
		}
	}

	printSummary(report, surfaced)
	return nil
}

func rulesFromConfig(cfg *config.Config) detect.Rules {
	rules := detect.DefaultRules()
	if cfg.Thresholds.MinAmount > 0 {
		rules.MinAmount = decimal.NewFromFloat(cfg.Thresholds.MinAmount)
	}
	if cfg.Thresholds.MaxAmount > 0 {
		rules.MaxAmount = decimal.NewFromFloat(cfg.Thresholds.MaxAmount)
	}
	return rules
}

func printSummary(report detect.Report, surfaced []model.SubscriptionCandidate) {
	fmt.Printf("Processed %d transactions (%d skipped), %d candidates, %d surfaced.\n",
		report.Parsed, report.Skipped, len(report.Candidates), len(surfaced))

	if len(surfaced) == 0 {
		return
	}

	fmt.Println()
	fmt.Printf("%-28s %10s %-10s %-12s %s\n", "MERCHANT", "AMOUNT", "CYCLE", "NEXT CHARGE", "CONFIDENCE")
	for _, c := range surfaced {
		next := c.NextCharge.Format("2006-01-02")
		if c.StaleProjection {
			next += " (stale)"
		}
		fmt.Printf("%-28s %10s %-10s %-12s %d\n",
			c.Merchant, c.Amount.StringFixed(2)+" "+c.Currency, c.Cycle, next, c.Confidence)
	}
}
