package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tournevent/pickpoint/internal/server"
	"github.com/tournevent/pickpoint/pkg/pickpoint"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "pickpoint",
	Short:   "PickPoint connector - postamat delivery bridge",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP bridge",
	RunE:  runServe,
}

var trackCmd = &cobra.Command{
	Use:   "track <invoice>...",
	Short: "Print the last known state of each invoice",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTrack,
}

var regionCmd = &cobra.Command{
	Use:   "region <iso-code>",
	Short: "Print the PickPoint region name for an ISO 3166-2 code",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegion,
}

func init() {
	rootCmd.AddCommand(serveCmd, trackCmd, regionCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
	} else {
		defer tracerShutdown(ctx)
	}

	client, closeClient := initClient(ctx, cfg, logger)
	defer closeClient()

	logger.Info("Starting PickPoint connector",
		zap.Int("port", cfg.Port),
		zap.String("version", cfg.Version),
		zap.Bool("mock", cfg.PickPointUseMock),
	)

	srv := server.New(server.Config{Port: cfg.Port}, client, logger)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runTrack(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	client, closeClient := initClient(ctx, cfg, logger)
	defer closeClient()

	last, err := client.GetInvoicesLastStates(ctx, args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, invoice := range args {
		state, ok := last[invoice]
		if !ok {
			fmt.Fprintf(out, "%s\tunknown\n", invoice)
			continue
		}
		fmt.Fprintf(out, "%s\t%d\t%s\n", invoice, state.Code, state.Message)
	}
	return nil
}

func runRegion(cmd *cobra.Command, args []string) error {
	name, err := pickpoint.MapIsoToRegionName(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), name)
	return nil
}
