package cmd

import (
	"fmt"
	"os"

	"github.com/chukul/flexctl/internal"
	"github.com/spf13/cobra"
)

var (
	exportProfile string
	exportSecret  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored API key as an environment variable",
	Long:  `Prints a shell-compatible export of the decrypted API key. Usage: eval $(flexctl export --profile prod)`,
	Run: func(cmd *cobra.Command, args []string) {
		if exportProfile == "" {
			fmt.Fprintln(os.Stderr, "❌ You must specify --profile to export")
			return
		}

		secret, err := internal.GetSecret(exportSecret)
		if err != nil {
			fmt.Fprintln(os.Stderr, "❌ Encryption secret required")
			return
		}

		apiKey, err := internal.LoadAPIKey(exportProfile, secret)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to load profile '%s': %v\n", exportProfile, err)
			return
		}

		// Output shell-compatible export command
		fmt.Printf("export CLOUDHEALTH_API_KEY=%s\n", apiKey)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportProfile, "profile", "", "Profile to export")
	exportCmd.Flags().StringVar(&exportSecret, "secret", os.Getenv("FLEXCTL_SECRET"), "Secret key for decryption (or set FLEXCTL_SECRET env var)")
	rootCmd.AddCommand(exportCmd)
}
