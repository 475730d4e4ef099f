package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gachasim/adapters/rng"
	"gachasim/app"
	"gachasim/internal/config"
	"gachasim/internal/logging"
	"gachasim/internal/report"
)

func main() {
	// Optional env overlay; LOG_LEVEL etc. A missing .env is fine.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "gachasim",
		Short: "Gachapon depletion simulator and significance analyzer",
	}
	rootCmd.AddCommand(
		newRunCmd(),
		newValidateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var (
		configPath string
		xlsxPath   string
		seed       int64
		lifetimes  int
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate machine lifetimes and report depletion statistics",
		Long: `Simulate many full machine lifetimes, aggregate snapshot compositions and
session outcomes, and test observed item rates against their baseline share.

Without --config the stock scenario is used: five items, fifty capsules
each, all demand on the rare item.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			if cmd.Flags().Changed("lifetimes") {
				cfg.Lifetimes = lifetimes
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := logging.NewDefaultLogger()
			service := app.NewSimulationService(logger, rng.NewSeeded(cfg.Seed)).
				WithProgress(func(done, total int) {
					logger.Info("simulated %d/%d lifetimes", done, total)
				})

			result, err := service.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if err := report.RenderText(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if xlsxPath != "" {
				if err := report.WriteWorkbook(result, xlsxPath); err != nil {
					return err
				}
				logger.Info("wrote workbook to %s", xlsxPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "scenario YAML file (default: stock scenario)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also export the report as an XLSX workbook")
	cmd.Flags().Int64Var(&seed, "seed", 0, "override the base random seed")
	cmd.Flags().IntVar(&lifetimes, "lifetimes", 0, "override the number of lifetimes to simulate")
	cmd.Flags().IntVar(&workers, "workers", 0, "override parallel worker count (0 = one per CPU)")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a scenario file without running it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuration OK: %d items, %d capsules, %d lifetimes\n",
				len(cfg.Items), cfg.TotalCapsules(), cfg.Lifetimes)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "scenario YAML file (default: stock scenario)")
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.Default()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return config.Load(path)
}
