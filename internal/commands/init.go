package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finview-dev/finview/internal/config"
	"github.com/finview-dev/finview/internal/ledger"
	"github.com/finview-dev/finview/internal/settings"
)

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new finview project",
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

			return runInit(absDir)
		},
	}

	return cmd
}

func runInit(dir string) error {
	// Create directory structure.
	dirs := []string{
		"data",
		"reports",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write finview.yaml.
	cfg := config.Default()
	if err := config.Save(filepath.Join(dir, "finview.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write user settings.
	if err := settings.Save(filepath.Join(dir, cfg.Ledger.SettingsPath), settings.Default()); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}

	// Write an empty ledger so report commands work immediately.
	ledgerPath := filepath.Join(dir, cfg.Ledger.Path)
	if _, err := os.Stat(ledgerPath); os.IsNotExist(err) {
		if err := os.WriteFile(ledgerPath, []byte(ledger.Header+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing ledger: %w", err)
		}
	}

	// Write .env stub for the market API key.
	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		stub := cfg.Market.APIKeyEnv + "=\n"
		if err := os.WriteFile(envPath, []byte(stub), 0o644); err != nil {
			return fmt.Errorf("writing .env: %w", err)
		}
	}

	// Write .gitignore.
	gitignore := strings.Join([]string{".env", "reports/"}, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	fmt.Printf("Initialized finview project at %s\n", dir)
	return nil
}
