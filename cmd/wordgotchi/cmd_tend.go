package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/YutaTadokoro/WordGotchi/internal/pet"
)

func init() {
	rootCmd.AddCommand(tendCmd)
}

var tendCmd = &cobra.Command{
	Use:   "tend",
	Short: "Run in the background, applying emotion decay on schedule",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		service, eng, err := openService(cfg)
		if err != nil {
			return err
		}
		defer eng.FlushAll()

		sched, err := pet.NewDecayScheduler(service, cfg.Decay.Schedule, cfg.Decay.Factor)
		if err != nil {
			return fmt.Errorf("invalid decay schedule %q: %w", cfg.Decay.Schedule, err)
		}
		sched.Start()
		defer sched.Stop()

		slog.Info("tending started", "schedule", cfg.Decay.Schedule, "factor", cfg.Decay.Factor)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		slog.Info("shutting down")
		return nil
	},
}
