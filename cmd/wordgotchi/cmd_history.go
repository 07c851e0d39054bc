package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd, galleryCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Number of records to show")
	galleryCmd.Flags().IntP("limit", "n", 20, "Number of entries to show")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent feedings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		_, eng, err := openService(cfg)
		if err != nil {
			return err
		}
		defer eng.FlushAll()

		limit, _ := cmd.Flags().GetInt("limit")
		records := eng.FeedingHistory(limit)
		if len(records) == 0 {
			fmt.Println("No feedings yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tWORDS\tTEXT")
		for _, r := range records {
			text := r.InputText
			if len(text) > 40 {
				text = text[:40] + "..."
			}
			fmt.Fprintf(w, "%s\t%d\t%s\n",
				r.Timestamp.Format("2006-01-02 15:04:05"), len(r.Words), text)
		}
		return w.Flush()
	},
}

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Show recent expressions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		_, eng, err := openService(cfg)
		if err != nil {
			return err
		}
		defer eng.FlushAll()

		limit, _ := cmd.Flags().GetInt("limit")
		exprs := eng.Expressions(limit)
		if len(exprs) == 0 {
			fmt.Println("No expressions yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tKIND\tDETAIL")
		for _, e := range exprs {
			if e.IsArt() {
				fmt.Fprintf(w, "%s\tart\t%s\n",
					e.Timestamp.Format("2006-01-02 15:04:05"), e.DominantEmotion)
			} else {
				fmt.Fprintf(w, "%s\tpoem\t%s\n",
					e.Timestamp.Format("2006-01-02 15:04:05"), strings.Join(e.Lines[:1], ""))
			}
		}
		return w.Flush()
	},
}
