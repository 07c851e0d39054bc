package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(storageCmd)
	storageCmd.AddCommand(storageStatsCmd, storagePruneCmd, storageCompactCmd)
}

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Inspect and manage local storage",
}

var storageStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show storage usage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		_, eng, err := openService(cfg)
		if err != nil {
			return err
		}
		defer eng.FlushAll()

		size := eng.CheckStorageSize()
		fmt.Printf("Used: %d bytes of %d (%.1f%%)\n",
			size, cfg.Storage.MaxBytes, 100*float64(size)/float64(cfg.Storage.MaxBytes))
		fmt.Printf("Feedings: %d\n", len(eng.FeedingHistory(0)))
		fmt.Printf("Expressions: %d\n", len(eng.Expressions(0)))
		if eng.MemoryOnly() {
			fmt.Println("Mode: memory-only (storage unavailable)")
		}
		return nil
	},
}

var storagePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Discard the oldest 20% of each log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		_, eng, err := openService(cfg)
		if err != nil {
			return err
		}
		eng.FlushAll()
		eng.PruneOldData()
		fmt.Printf("Pruned. Used: %d bytes\n", eng.CheckStorageSize())
		return nil
	},
}

var storageCompactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Rewrite stored data in its most compact encoding",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		_, eng, err := openService(cfg)
		if err != nil {
			return err
		}
		eng.FlushAll()
		eng.Compact()
		fmt.Printf("Compacted. Used: %d bytes\n", eng.CheckStorageSize())
		return nil
	},
}
