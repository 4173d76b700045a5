package cmd

import (
	"fmt"
	"os"

	"github.com/chukul/flexctl/internal"
	"github.com/chukul/flexctl/internal/ui"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [file.csv]",
	Short: "Convert a downloaded report CSV to Parquet",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var csvFile string
		if len(args) > 0 {
			csvFile = args[0]
		} else {
			var err error
			csvFile, err = ui.GetInput("CSV file to convert to Parquet", "report.csv", false)
			if err != nil {
				return
			}
		}

		if csvFile == "" {
			fmt.Fprintln(os.Stderr, "❌ Filename cannot be empty")
			os.Exit(1)
		}

		fmt.Printf("Converting %s to Parquet format...\n", csvFile)

		outPath, size, err := internal.ConvertCSVToParquet(csvFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Conversion from CSV to Parquet failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("✅ Conversion successful!")
		fmt.Printf("   File: %s\n", outPath)
		fmt.Printf("   Size: %s\n", internal.FormatSize(size))
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
