package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/subtrack-dev/subtrack/internal/config"
	"github.com/subtrack-dev/subtrack/internal/gitops"
	"github.com/subtrack-dev/subtrack/internal/terms"
)

func newInitCommand() *cobra.Command {
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new subtrack data directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, noGit)
		},
	}

	cmd.Flags().BoolVar(&noGit, "no-git", false, "skip git repository setup")

	return cmd
}

func runInit(dir string, noGit bool) error {
	configPath := filepath.Join(dir, "subtrack.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("directory already initialized: %s exists", configPath)
	}

	dirs := []string{
		"import",
		filepath.Join("import", "processed"),
		"candidates",
		"logs",
		"terms",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default()
	if noGit {
		cfg.Git.AutoCommit = false
	}
	if err := config.Save(configPath, cfg); err != nil {
		return err
	}

	if err := terms.Save(dir, terms.Default()); err != nil {
		return err
	}

	if !noGit && !gitops.IsRepo(dir) {
		if err := gitops.Init(dir); err != nil {
			return err
		}
		if _, err := gitops.CommitAll(dir, "initialize subtrack data directory", cfg.Git.AuthorName, cfg.Git.AuthorEmail); err != nil {
			return err
		}
	}

	fmt.Printf("Initialized subtrack data directory at %s\n", dir)
	fmt.Println("Drop bank CSV exports into import/ and run 'subtrack detect'.")
	return nil
}
