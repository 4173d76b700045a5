package cmd

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/chukul/flexctl/internal"
	"github.com/chukul/flexctl/internal/ui"
	"github.com/spf13/cobra"
)

var (
	createFile    string
	createAPIKey  string
	createProfile string
	createSecret  string
)

const suffixAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomSuffix disambiguates report names across repeated runs of the same
// definitions file.
func randomSuffix(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(suffixAlphabet[rand.Intn(len(suffixAlphabet))])
	}
	return b.String()
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create FlexReports from a JSON definitions file",
	Long: `Reads a JSON array of FlexReport definitions and creates each one with a
random 6-character suffix appended to its name. Created IDs are written to
previous-run.list and created names to successful_reports.list, for use with
batch runs and cleanup.`,
	Run: func(cmd *cobra.Command, args []string) {
		if createFile == "" && len(args) > 0 {
			createFile = args[0]
		}
		if createFile == "" {
			fmt.Fprintln(os.Stderr, "❌ You must specify --file with the report definitions JSON")
			os.Exit(1)
		}

		data, err := os.ReadFile(createFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to read definitions file: %v\n", err)
			os.Exit(1)
		}
		var definitions []internal.ReportDefinition
		if err := json.Unmarshal(data, &definitions); err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to parse definitions file: %v\n", err)
			os.Exit(1)
		}
		if len(definitions) == 0 {
			fmt.Fprintln(os.Stderr, "❌ Definitions file contains no reports")
			os.Exit(1)
		}

		apiKey, err := resolveAPIKey(createAPIKey, createProfile, createSecret)
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

		var createdIDs []string
		var createdNames []string
		failed := 0
		for _, def := range definitions {
			def.Name = fmt.Sprintf("%s %s", def.Name, randomSuffix(6))

			id, name, err := client.CreateReport(def)
			if err != nil {
				fmt.Fprintf(os.Stderr, "❌ Failed to create FlexReport '%s': %v\n", def.Name, err)
				failed++
				continue
			}
			fmt.Printf("✅ FlexReport '%s' created (ID: %s)\n", name, id)
			createdIDs = append(createdIDs, id)
			createdNames = append(createdNames, name)
		}

		// Record what was created, for batch runs and later cleanup.
		if len(createdIDs) > 0 {
			if err := os.WriteFile("previous-run.list", []byte(strings.Join(createdIDs, "\n")+"\n"), 0644); err != nil {
				fmt.Fprintf(os.Stderr, "⚠️  Failed to write previous-run.list: %v\n", err)
			}
			if err := os.WriteFile("successful_reports.list", []byte(strings.Join(createdNames, "\n")+"\n"), 0644); err != nil {
				fmt.Fprintf(os.Stderr, "⚠️  Failed to write successful_reports.list: %v\n", err)
			}
		}

		fmt.Printf("\n📊 Summary: %d created, %d failed\n", len(createdIDs), failed)
		if failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	createCmd.Flags().StringVarP(&createFile, "file", "f", "", "JSON file with FlexReport definitions")
	createCmd.Flags().StringVar(&createAPIKey, "api-key", "", "CloudHealth API key (or set CLOUDHEALTH_API_KEY env var)")
	createCmd.Flags().StringVar(&createProfile, "profile", "", "Stored profile holding the API key")
	createCmd.Flags().StringVar(&createSecret, "secret", os.Getenv("FLEXCTL_SECRET"), "Secret key for profile decryption")
	rootCmd.AddCommand(createCmd)
}
