package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/chukul/flexctl/internal"
	"github.com/chukul/flexctl/internal/ui"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	statusAPIKey  string
	statusProfile string
	statusSecret  string
	statusJSON    bool
)

var statusCmd = &cobra.Command{
	Use:   "status REPORT_ID [REPORT_ID...]",
	Short: "Show the current status of one or more FlexReports",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		apiKey, err := resolveAPIKey(statusAPIKey, statusProfile, statusSecret)
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

		reports := make([]*internal.ReportInfo, 0, len(args))
		for _, id := range args {
			info, err := client.PollStatus(id)
			if err != nil {
				fmt.Fprintf(os.Stderr, "❌ Failed to check report %s: %v\n", id, err)
				os.Exit(1)
			}
			reports = append(reports, info)
		}

		// Optional JSON output
		if statusJSON {
			jsonData, _ := json.MarshalIndent(reports, "", "  ")
			fmt.Println(string(jsonData))
			return
		}

		header := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Printf("%-40s %-30s %-12s %-20s\n",
			header("REPORT ID"), header("NAME"), header("STATUS"), header("UPDATED"))

		for _, r := range reports {
			statusColor := color.New(color.FgCyan).SprintFunc()
			switch r.Status {
			case internal.StatusCompleted:
				statusColor = color.New(color.FgGreen).SprintFunc()
			case internal.StatusFailed:
				statusColor = color.New(color.FgRed).SprintFunc()
			case internal.StatusQueued:
				statusColor = color.New(color.FgYellow).SprintFunc()
			}

			updated := r.UpdatedOn
			if t, err := time.Parse(time.RFC3339, r.UpdatedOn); err == nil {
				updated = internal.FormatLocal(t)
			}

			fmt.Printf("%-40s %-30s %-12s %-20s\n",
				truncateText(r.ID, 38),
				truncateText(r.Name, 28),
				statusColor(r.Status),
				updated,
			)
		}
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusAPIKey, "api-key", "", "CloudHealth API key (or set CLOUDHEALTH_API_KEY env var)")
	statusCmd.Flags().StringVar(&statusProfile, "profile", "", "Stored profile holding the API key")
	statusCmd.Flags().StringVar(&statusSecret, "secret", os.Getenv("FLEXCTL_SECRET"), "Secret key for profile decryption")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output results in JSON format for automation")
	rootCmd.AddCommand(statusCmd)
}
