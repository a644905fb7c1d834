package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/piwi3910/villaplan/internal/config"
	"github.com/piwi3910/villaplan/internal/logging"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		a          app
	)

	rootCmd := &cobra.Command{
		Use:          "villaplan",
		Short:        "Micro-villa land subdivision and investment planner",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			logger := logging.Setup(cmd.ErrOrStderr(), cfg.LogLevel)
			a = newApp(cfg, logger)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (DEBUG, INFO, WARN, ERROR)")

	rootCmd.AddCommand(scenariosCmd(&a))
	rootCmd.AddCommand(compareCmd(&a))
	rootCmd.AddCommand(analyzeCmd(&a))
	rootCmd.AddCommand(configCmd(&a, &configPath))

	return rootCmd
}

func scenariosCmd(a *app) *cobra.Command {
	var (
		width, height float64
		asJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List every viable subdivision of a parcel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runScenarios(cmd.OutOrStdout(), width, height, asJSON)
		},
	}

	cmd.Flags().Float64VarP(&width, "width", "W", 0, "parcel width in metres")
	cmd.Flags().Float64VarP(&height, "height", "H", 0, "parcel height in metres")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	_ = cmd.MarkFlagRequired("width")
	_ = cmd.MarkFlagRequired("height")
	return cmd
}

func compareCmd(a *app) *cobra.Command {
	var (
		width, height float64
		asJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Rank viable subdivisions by lots, efficiency and lot size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCompare(cmd.OutOrStdout(), width, height, asJSON)
		},
	}

	cmd.Flags().Float64VarP(&width, "width", "W", 0, "parcel width in metres")
	cmd.Flags().Float64VarP(&height, "height", "H", 0, "parcel height in metres")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	_ = cmd.MarkFlagRequired("width")
	_ = cmd.MarkFlagRequired("height")
	return cmd
}

func analyzeCmd(a *app) *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze [input.yaml]",
		Short: "Compute the investment analysis for a parcel and its costs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.percentage, "percentage", "p", 0, "social club percentage to analyse (default: selected scenario)")
	cmd.Flags().StringVar(&opts.currency, "currency", "", "display currency, USD or DOP")
	cmd.Flags().Float64SliceVar(&opts.margins, "margin", nil, "profit margin percentages, repeatable")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of a report")
	return cmd
}

func configCmd(a *app, configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd.OutOrStdout(), *configPath, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runConfigShow(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
