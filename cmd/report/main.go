package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ivanoskov/bc-money/internal/config"
	"github.com/ivanoskov/bc-money/internal/logging"
	"github.com/ivanoskov/bc-money/internal/repository"
	"github.com/ivanoskov/bc-money/internal/service"
)

var (
	finance *service.FinanceService
	log     *logrus.Logger
	rootCmd = &cobra.Command{
		Use:               "bc-report",
		Short:             "💰 BC Money reports from the command line",
		Long:              `bc-report prints the dashboard, budgets and goals of a BC Money user and exports monthly CSV reports and charts.`,
		PersistentPreRunE: initFinance,
		SilenceUsage:      true,
	}
)

func init() {
	rootCmd.PersistentFlags().String("user", "", "user id (env BC_USER)")
	_ = viper.BindPFlag("user", rootCmd.PersistentFlags().Lookup("user"))

	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(budgetsCmd())
	rootCmd.AddCommand(goalsCmd())
	rootCmd.AddCommand(advisorCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(chartCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initFinance(_ *cobra.Command, _ []string) error {
	viper.SetEnvPrefix("BC")
	viper.AutomaticEnv()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log = logging.SetupLogging(cfg.LogLevel)
	log.SetOutput(os.Stderr)

	repo, err := repository.NewSupabaseRepository(cfg.SupabaseURL, cfg.SupabaseKey)
	if err != nil {
		return fmt.Errorf("failed to connect to supabase: %w", err)
	}
	finance = service.NewFinanceService(repo, log,
		service.WithFetchTimeout(cfg.FetchTimeout),
		service.WithTopCategories(cfg.TopCategories),
		service.WithCurrency(cfg.Currency),
	)
	return nil
}

func userID() (string, error) {
	id := viper.GetString("user")
	if id == "" {
		return "", fmt.Errorf("--user or BC_USER is required")
	}
	return id, nil
}
