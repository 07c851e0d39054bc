package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(exportCmd, importCmd, resetCmd)
	importCmd.Flags().StringP("file", "f", "", "Read the document from a file instead of stdin")
	resetCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all pet data as one JSON document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		_, eng, err := openService(cfg)
		if err != nil {
			return err
		}

		doc, err := eng.ExportData()
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Println(doc)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a previously exported document (replaces all data)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		var data []byte
		var err error
		if file, _ := cmd.Flags().GetString("file"); file != "" {
			data, err = os.ReadFile(file)
		} else {
			data, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return fmt.Errorf("read document: %w", err)
		}

		_, eng, err := openService(cfg)
		if err != nil {
			return err
		}

		if !eng.ImportData(string(data)) {
			return fmt.Errorf("import rejected: not a valid export document")
		}
		fmt.Println("Import complete.")
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all pet data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			fmt.Print("This deletes the pet, all feedings, and all expressions. Type 'yes' to continue: ")
			var answer string
			fmt.Scanln(&answer)
			if answer != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		_, eng, err := openService(cfg)
		if err != nil {
			return err
		}
		eng.Reset()
		fmt.Println("All data deleted.")
		return nil
	},
}
