package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chukul/flexctl/internal"
	"github.com/chukul/flexctl/internal/ui"
	"github.com/spf13/cobra"
)

var (
	batchFile      string
	batchAPIKey    string
	batchProfile   string
	batchSecret    string
	batchOutputDir string
	batchParquet   bool
)

func init() {
	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "", "Job list file: one name<TAB>report-id record per line")
	batchCmd.Flags().StringVar(&batchAPIKey, "api-key", "", "CloudHealth API key (or set CLOUDHEALTH_API_KEY env var)")
	batchCmd.Flags().StringVar(&batchProfile, "profile", "", "Stored profile holding the API key")
	batchCmd.Flags().StringVar(&batchSecret, "secret", os.Getenv("FLEXCTL_SECRET"), "Secret key for profile decryption (or set FLEXCTL_SECRET env var)")
	batchCmd.Flags().StringVarP(&batchOutputDir, "output", "o", ".", "Directory to save downloaded CSVs into")
	batchCmd.Flags().BoolVar(&batchParquet, "parquet", false, "Convert each downloaded CSV to Parquet")

	rootCmd.AddCommand(batchCmd)
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run every FlexReport in a job list, one at a time",
	Long: `Reads a job list (one "name<TAB>report-id" record per line, # comments
allowed) and runs each report end to end: trigger, poll, download. A failing
job is logged and skipped; the batch carries on with the next record.`,
	Run: func(cmd *cobra.Command, args []string) {
		if batchFile == "" && len(args) > 0 {
			batchFile = args[0]
		}
		if batchFile == "" {
			fmt.Fprintln(os.Stderr, "❌ You must specify --file")
			os.Exit(1)
		}

		jobs, err := internal.LoadJobList(batchFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}

		apiKey, err := resolveAPIKey(batchAPIKey, batchProfile, batchSecret)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}

		client := internal.NewClient()
		if _, err := ui.Spin("Authenticating with CloudHealth...", func() (any, error) {
			return nil, client.Authenticate(apiKey)
		}); err != nil {
			fmt.Fprintf(os.Stderr, "❌ Authentication failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Authenticated, %d jobs to run\n", len(jobs))

		succeeded := 0
		failed := 0
		for _, job := range jobs {
			fmt.Println()
			printHeader("EXECUTING REPORT: " + job.Name)
			fmt.Println()

			result, err := executeAndAwait(client, job)
			if err != nil {
				reportJobFailure(job, err)
				failed++
				continue
			}

			dest := filepath.Join(batchOutputDir, internal.SanitizeFilename(job.Name)+".csv")
			if _, err := downloadAndConvert(result, dest, batchParquet); err != nil {
				fmt.Fprintf(os.Stderr, "❌ Report '%s' download failed: %v\n", job.Name, err)
				failed++
				continue
			}
			succeeded++
		}

		fmt.Printf("\n📊 Summary: %d succeeded, %d failed\n", succeeded, failed)
		if failed > 0 {
			os.Exit(1)
		}
	},
}
