package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chukul/flexctl/internal"
	"github.com/chukul/flexctl/internal/ui"
	"github.com/spf13/cobra"
)

var (
	runReport    string
	runAPIKey    string
	runProfile   string
	runSecret    string
	runOutputDir string
	runParquet   bool
	runS3Bucket  string
	runS3Prefix  string
	runAWSProf   string
	runRegion    string
)

func init() {
	runCmd.Flags().StringVar(&runReport, "report", "", "FlexReport ID to execute")
	runCmd.Flags().StringVar(&runAPIKey, "api-key", "", "CloudHealth API key (or set CLOUDHEALTH_API_KEY env var)")
	runCmd.Flags().StringVar(&runProfile, "profile", "", "Stored profile holding the API key")
	runCmd.Flags().StringVar(&runSecret, "secret", os.Getenv("FLEXCTL_SECRET"), "Secret key for profile decryption (or set FLEXCTL_SECRET env var)")
	runCmd.Flags().StringVarP(&runOutputDir, "output", "o", ".", "Directory to save the downloaded CSV into")
	runCmd.Flags().BoolVar(&runParquet, "parquet", false, "Convert the downloaded CSV to Parquet")
	runCmd.Flags().StringVar(&runS3Bucket, "s3-bucket", "", "Upload the artifacts to this S3 bucket after download")
	runCmd.Flags().StringVar(&runS3Prefix, "s3-prefix", "", "Key prefix for S3 uploads")
	runCmd.Flags().StringVar(&runAWSProf, "aws-profile", "", "AWS shared-config profile for the S3 upload")
	runCmd.Flags().StringVar(&runRegion, "region", "", "AWS region for the S3 upload")

	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a FlexReport, wait for completion, and download the CSV",
	Long: `Triggers a FlexReport execution, polls its status with backoff until it
completes, and downloads the resulting CSV from the pre-signed URL. Optionally
converts the CSV to Parquet and ships the artifacts to S3.`,
	Run: func(cmd *cobra.Command, args []string) {
		if runReport == "" && len(args) > 0 {
			runReport = args[0]
		}
		if runReport == "" {
			fmt.Fprintln(os.Stderr, "❌ You must specify --report (or pass the report ID as an argument)")
			os.Exit(1)
		}

		apiKey, err := resolveAPIKey(runAPIKey, runProfile, runSecret)
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
		fmt.Println("✅ Authentication successful")

		info, err := client.Report(runReport)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to get report information: %v\n", err)
			os.Exit(1)
		}
		if info.Name == "" {
			fmt.Fprintln(os.Stderr, "❌ Failed to resolve report name")
			os.Exit(1)
		}

		fmt.Println()
		printHeader("EXECUTING REPORT: " + info.Name)
		fmt.Println()

		job := internal.ReportJob{Name: info.Name, ID: runReport}
		result, err := executeAndAwait(client, job)
		if err != nil {
			reportJobFailure(job, err)
			os.Exit(1)
		}

		dest := filepath.Join(runOutputDir, internal.SanitizeFilename(info.Name)+".csv")
		artifacts, err := downloadAndConvert(result, dest, runParquet)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			fmt.Fprintln(os.Stderr, "   Please try downloading manually from the CloudHealth platform.")
			os.Exit(1)
		}

		if runS3Bucket != "" {
			if err := uploadArtifacts(artifacts); err != nil {
				fmt.Fprintf(os.Stderr, "❌ %v\n", err)
				os.Exit(1)
			}
		}
	},
}

// executeAndAwait triggers a report run and polls until it finishes,
// printing the same per-check progress for single runs and batches.
func executeAndAwait(client *internal.Client, job internal.ReportJob) (*internal.ReportInfo, error) {
	if err := client.TriggerExecution(job.ID); err != nil {
		return nil, err
	}
	fmt.Println("✅ Report execution triggered")
	fmt.Printf("⏳ Waiting %d seconds before first status check...\n", int(internal.InitialPollDelay.Seconds()))
	fmt.Println()

	return client.AwaitCompletion(job, internal.PollOptions{
		Progress: func(attempt int, status string) {
			fmt.Printf("   Status check #%d: %s\n", attempt, status)
		},
		WaitNotice: func(seconds int) {
			fmt.Printf("   Next status check in %d seconds...\n", seconds)
		},
	})
}

// downloadAndConvert fetches the completed report CSV to dest and optionally
// converts it to Parquet, returning the paths of everything it produced.
func downloadAndConvert(result *internal.ReportInfo, dest string, toParquet bool) ([]string, error) {
	if result.DownloadURL == "" {
		return nil, fmt.Errorf("report completed but no download URL was returned")
	}

	fmt.Println()
	printHeader("REPORT COMPLETED SUCCESSFULLY")
	fmt.Printf("⬇️  Saving as: %s\n", dest)

	size, err := internal.DownloadArtifact(result.DownloadURL, dest)
	if err != nil {
		return nil, err
	}
	fmt.Printf("✅ Downloaded %s (%s)\n", dest, internal.FormatSize(size))
	artifacts := []string{dest}

	if toParquet {
		outPath, outSize, err := internal.ConvertCSVToParquet(dest)
		if err != nil {
			return nil, fmt.Errorf("conversion to Parquet failed: %w", err)
		}
		fmt.Printf("✅ Converted to %s (%s)\n", outPath, internal.FormatSize(outSize))
		artifacts = append(artifacts, outPath)
	}
	return artifacts, nil
}

func uploadArtifacts(paths []string) error {
	ctx := context.Background()

	res, err := ui.Spin("Verifying AWS identity...", func() (any, error) {
		return internal.NewUploader(ctx, runAWSProf, runRegion)
	})
	if err != nil {
		return err
	}
	uploader := res.(*internal.Uploader)
	fmt.Printf("🔐 Uploading as %s\n", uploader.Identity)

	for _, path := range paths {
		uri, err := uploader.Upload(ctx, runS3Bucket, runS3Prefix, path)
		if err != nil {
			return err
		}
		fmt.Printf("✅ Uploaded %s\n", uri)
	}
	return nil
}

// reportJobFailure prints the operator-facing message for a failed job.
// Every error names the stage and the report so batch output stays readable.
func reportJobFailure(job internal.ReportJob, err error) {
	var queued *internal.QueuedError
	var timeout *internal.TimeoutError

	fmt.Fprintln(os.Stderr)
	switch {
	case errors.As(err, &queued):
		fmt.Fprintf(os.Stderr, "⚠️  Report '%s' is QUEUED\n", job.Name)
		fmt.Fprintln(os.Stderr, "   This may indicate the report is waiting for resources.")
		fmt.Fprintln(os.Stderr, "   Please check its status in the CloudHealth platform.")
	case errors.As(err, &timeout):
		fmt.Fprintf(os.Stderr, "⏰ Report '%s' still running after %d checks\n", job.Name, timeout.Attempts)
		fmt.Fprintln(os.Stderr, "   The report is taking longer than expected.")
		fmt.Fprintln(os.Stderr, "   Please check its status in the CloudHealth platform.")
	default:
		fmt.Fprintf(os.Stderr, "❌ Report '%s' failed: %v\n", job.Name, err)
	}
}
