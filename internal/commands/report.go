package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/finview-dev/finview/internal/config"
	"github.com/finview-dev/finview/internal/ledger"
	"github.com/finview-dev/finview/internal/market"
	"github.com/finview-dev/finview/internal/model"
	"github.com/finview-dev/finview/internal/report"
	"github.com/finview-dev/finview/internal/settings"
)

// buildAssembler wires the loader, settings and market clients from
// the config file.
func buildAssembler(env *commandEnv) (*report.Assembler, *config.Config, error) {
	cfg, err := config.Load(*env.configPath)
	if err != nil {
		return nil, nil, err
	}

	st, err := settings.Load(cfg.Ledger.SettingsPath)
	if err != nil {
		return nil, nil, err
	}

	client := market.NewClient(cfg.Market.RatesURL, cfg.Market.QuotesURL, cfg.APIKey())
	loader := ledger.NewService(cfg.Ledger.Path)

	return report.NewAssembler(loader, st, client, client, env.logger()), cfg, nil
}

// emit prints the document as JSON and optionally writes it to a file.
// File export is a post-step on the finished document, never part of
// the aggregation itself.
func emit(doc any, outPath string) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	fmt.Println(string(data))

	if outPath != "" {
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("writing report to %s: %w", outPath, err)
		}
	}
	return nil
}

func newMainCommand(env *commandEnv) *cobra.Command {
	var date string
	var rangeStr string
	var out string

	cmd := &cobra.Command{
		Use:   "main",
		Short: "Dashboard report: cards, top transactions, rates, quotes",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseRangeKind(rangeStr)
			if err != nil {
				return err
			}
			asm, _, err := buildAssembler(env)
			if err != nil {
				return err
			}
			doc, err := asm.Main(cmd.Context(), date, kind)
			if err != nil {
				return err
			}
			return emit(doc, out)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", `reference end date "YYYY-MM-DD HH:MM:SS" (required)`)
	_ = cmd.MarkFlagRequired("date")
	cmd.Flags().StringVar(&rangeStr, "range", string(model.RangeMonth), "range kind: W, M, Y or All")
	cmd.Flags().StringVar(&out, "out", "", "also write the report JSON to this file")

	return cmd
}

func newEventsCommand(env *commandEnv) *cobra.Command {
	var date string
	var rangeStr string
	var out string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Events report: expense and income category breakdowns",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseRangeKind(rangeStr)
			if err != nil {
				return err
			}
			asm, _, err := buildAssembler(env)
			if err != nil {
				return err
			}
			doc, err := asm.Events(cmd.Context(), date, kind)
			if err != nil {
				return err
			}
			return emit(doc, out)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", `reference end date "YYYY-MM-DD HH:MM:SS" (required)`)
	_ = cmd.MarkFlagRequired("date")
	cmd.Flags().StringVar(&rangeStr, "range", string(model.RangeMonth), "range kind: W, M, Y or All")
	cmd.Flags().StringVar(&out, "out", "", "also write the report JSON to this file")

	return cmd
}

func newCashbackCommand(env *commandEnv) *cobra.Command {
	var year int
	var month int
	var out string

	cmd := &cobra.Command{
		Use:   "cashback",
		Short: "Cashback earned per category for a calendar month",
		RunE: func(cmd *cobra.Command, args []string) error {
			asm, _, err := buildAssembler(env)
			if err != nil {
				return err
			}
			doc, err := asm.Cashback(year, month)
			if err != nil {
				return err
			}
			return emit(doc, out)
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "calendar year (required)")
	_ = cmd.MarkFlagRequired("year")
	cmd.Flags().IntVar(&month, "month", 0, "calendar month 1-12 (required)")
	_ = cmd.MarkFlagRequired("month")
	cmd.Flags().StringVar(&out, "out", "", "also write the report JSON to this file")

	return cmd
}

func newSearchCommand(env *commandEnv) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search transactions by text, or via cellphone/transfer patterns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asm, _, err := buildAssembler(env)
			if err != nil {
				return err
			}
			matches, err := asm.Search(args[0])
			if err != nil {
				return err
			}
			return emit(matches, out)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "also write the report JSON to this file")

	return cmd
}

func newSpendingCommand(env *commandEnv) *cobra.Command {
	var category string
	var date string
	var out string

	cmd := &cobra.Command{
		Use:   "spending",
		Short: "Category spend over the trailing three months",
		RunE: func(cmd *cobra.Command, args []string) error {
			asm, _, err := buildAssembler(env)
			if err != nil {
				return err
			}
			doc, err := asm.Spending(category, date)
			if err != nil {
				return err
			}
			return emit(doc, out)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "category name (required)")
	_ = cmd.MarkFlagRequired("category")
	cmd.Flags().StringVar(&date, "date", "", `reference end date "YYYY-MM-DD HH:MM:SS" (required)`)
	_ = cmd.MarkFlagRequired("date")
	cmd.Flags().StringVar(&out, "out", "", "also write the report JSON to this file")

	return cmd
}
