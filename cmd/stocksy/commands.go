package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"stocksy/internal/interfaces"
	"stocksy/internal/server"
	"stocksy/internal/store"
	"stocksy/internal/trace"
)

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "stocksy",
		Short: "Stocksy - news sentiment trading signals",
		Long: `Stocksy reads a free-text question about a stock, scores recent headlines with a
financial sentiment model and answers Buy, Sell or Hold. It can also backtest a
buy-and-hold position over a window named in the question.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeSystem()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Configuration file path")

	rootCmd.AddCommand(newServeCmd(&configPath))
	rootCmd.AddCommand(newAskCmd(&configPath))
	rootCmd.AddCommand(newBacktestCmd(&configPath))

	return rootCmd
}

// newServeCmd creates the serve command
func newServeCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			defer trace.Shutdown(context.Background())

			cfg, err := loadConfig(ctx, *configPath)
			if err != nil {
				return err
			}

			addr, _ := cmd.Flags().GetString("addr")
			if addr != "" {
				cfg.Server.Addr = addr
			}

			return server.New(initializeEngine(cfg), cfg).Run(ctx)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")

	return cmd
}

// newAskCmd creates the ask command
func newAskCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [PROMPT]",
		Short: "Get a Buy/Sell/Hold signal for a question",
		Long: `Run the sentiment pipeline once and print the report.
Example: stocksy ask "Should I buy Tesla now?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			return runOnce(cmd, *configPath, func(ctx context.Context, a interfaces.Advisor) (any, error) {
				report, err := a.Analyze(ctx, strings.Join(args, " "))
				if err != nil {
					return nil, err
				}
				if !asJSON {
					fmt.Fprintln(cmd.OutOrStdout(), renderSentiment(report))
					return nil, nil
				}
				return report, nil
			})
		},
	}

	cmd.Flags().Bool("json", false, "Print the raw JSON response")

	return cmd
}

// newBacktestCmd creates the backtest command
func newBacktestCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backtest [PROMPT]",
		Short: "Backtest buy-and-hold over the window in the question",
		Long: `Run the backtest pipeline once and print the report.
Example: stocksy backtest "Backtest Apple over the last 3 months"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			return runOnce(cmd, *configPath, func(ctx context.Context, a interfaces.Advisor) (any, error) {
				report, err := a.Backtest(ctx, strings.Join(args, " "))
				if err != nil {
					return nil, err
				}
				if !asJSON {
					fmt.Fprintln(cmd.OutOrStdout(), renderBacktest(report))
					return nil, nil
				}
				return report, nil
			})
		},
	}

	cmd.Flags().Bool("json", false, "Print the raw JSON response")

	return cmd
}

// runOnce builds the advisor, runs fn under the request timeout and prints
// whatever fn returns as indented JSON.
func runOnce(cmd *cobra.Command, configPath string, fn func(context.Context, interfaces.Advisor) (any, error)) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer trace.Shutdown(context.Background())

	cfg, err := loadConfig(ctx, configPath)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(ctx, cfg)
	defer cancel()

	out, err := fn(ctx, initializeEngine(cfg))
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), renderError(err))
		return err
	}
	if out == nil {
		return nil
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func requestContext(ctx context.Context, cfg *store.Config) (context.Context, context.CancelFunc) {
	if cfg.Server.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, cfg.Server.RequestTimeout)
}
