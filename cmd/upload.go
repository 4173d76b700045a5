package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/chukul/flexctl/internal"
	"github.com/chukul/flexctl/internal/ui"
	"github.com/spf13/cobra"
)

var (
	uploadBucket  string
	uploadPrefix  string
	uploadAWSProf string
	uploadRegion  string
)

var uploadCmd = &cobra.Command{
	Use:   "upload FILE [FILE...]",
	Short: "Upload report artifacts to S3",
	Long: `Uploads downloaded report files (CSV or Parquet) to an S3 bucket for
warehouse ingestion. The AWS caller identity is verified via STS before any
object is written. Static credentials from the environment take priority over
the shared-config profile.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if uploadBucket == "" {
			fmt.Fprintln(os.Stderr, "❌ You must specify --bucket")
			os.Exit(1)
		}

		ctx := context.Background()
		res, err := ui.Spin("Verifying AWS identity...", func() (any, error) {
			return internal.NewUploader(ctx, uploadAWSProf, uploadRegion)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}
		uploader := res.(*internal.Uploader)
		fmt.Printf("🔐 Uploading as %s\n", uploader.Identity)

		failed := 0
		for _, path := range args {
			uri, err := uploader.Upload(ctx, uploadBucket, uploadPrefix, path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "❌ %v\n", err)
				failed++
				continue
			}
			fmt.Printf("✅ Uploaded %s\n", uri)
		}

		if failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	uploadCmd.Flags().StringVar(&uploadBucket, "bucket", "", "Destination S3 bucket")
	uploadCmd.Flags().StringVar(&uploadPrefix, "prefix", "", "Key prefix for uploaded objects")
	uploadCmd.Flags().StringVar(&uploadAWSProf, "aws-profile", "", "AWS shared-config profile")
	uploadCmd.Flags().StringVar(&uploadRegion, "region", "", "AWS region")
	rootCmd.AddCommand(uploadCmd)
}
