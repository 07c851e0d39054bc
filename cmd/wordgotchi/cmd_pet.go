package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/YutaTadokoro/WordGotchi/internal/types"
)

func init() {
	rootCmd.AddCommand(feedCmd, statusCmd, expressCmd, decayCmd)
}

var feedCmd = &cobra.Command{
	Use:   "feed <text>...",
	Short: "Feed words to the pet",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		service, eng, err := openService(cfg)
		if err != nil {
			return err
		}
		defer eng.FlushAll()

		state, record, err := service.Feed(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("feed: %w", err)
		}

		fmt.Printf("Fed %d words. Feeding count: %d, stage: %d\n",
			len(record.Words), state.FeedingCount, state.Stage)
		fmt.Printf("Dominant emotion: %s\n", state.EmotionVector.Dominant())
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the pet's current state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		service, eng, err := openService(cfg)
		if err != nil {
			return err
		}
		defer eng.FlushAll()

		state := service.Pet()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "ID\t%s\n", state.ID)
		fmt.Fprintf(w, "Stage\t%d\n", state.Stage)
		fmt.Fprintf(w, "Feedings\t%d\n", state.FeedingCount)
		fmt.Fprintf(w, "Created\t%s\n", state.CreatedAt.Format("2006-01-02 15:04:05"))
		for i, name := range types.EmotionNames {
			fmt.Fprintf(w, "%s\t%.2f\n", name, state.EmotionVector.Values()[i])
		}
		if eng.MemoryOnly() {
			fmt.Fprintln(w, "Mode\tmemory-only (storage unavailable)")
		}
		return w.Flush()
	},
}

var expressCmd = &cobra.Command{
	Use:   "express",
	Short: "Ask the pet to create an expression",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		service, eng, err := openService(cfg)
		if err != nil {
			return err
		}
		defer eng.FlushAll()

		exprs, err := service.Express(cmd.Context())
		if err != nil {
			return err
		}
		for _, expr := range exprs {
			if expr.IsArt() {
				fmt.Printf("Art (%s): %d bytes of image data\n", expr.DominantEmotion, len(expr.ImageURL))
			} else {
				fmt.Println("Poem:")
				for _, line := range expr.Lines {
					fmt.Printf("  %s\n", line)
				}
			}
		}
		return nil
	},
}

var decayCmd = &cobra.Command{
	Use:   "decay",
	Short: "Apply one tick of emotion decay",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		service, eng, err := openService(cfg)
		if err != nil {
			return err
		}
		defer eng.FlushAll()

		service.ApplyDecay(cfg.Decay.Factor)
		fmt.Println("Decay applied.")
		return nil
	},
}
