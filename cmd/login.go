package cmd

import (
	"fmt"
	"os"

	"github.com/chukul/flexctl/internal"
	"github.com/chukul/flexctl/internal/ui"
	"github.com/spf13/cobra"
)

var (
	loginProfile string
	loginAPIKey  string
	loginSecret  string
)

func init() {
	loginCmd.Flags().StringVar(&loginProfile, "profile", "default", "Name to store the API key under")
	loginCmd.Flags().StringVar(&loginAPIKey, "api-key", "", "CloudHealth API key (or set CLOUDHEALTH_API_KEY env var)")
	loginCmd.Flags().StringVar(&loginSecret, "secret", os.Getenv("FLEXCTL_SECRET"), "Secret key for encryption (or set FLEXCTL_SECRET env var)")

	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verify a CloudHealth API key and store it encrypted",
	Run: func(cmd *cobra.Command, args []string) {
		secret, err := internal.GetSecret(loginSecret)
		if err != nil {
			fmt.Fprintln(os.Stderr, "❌ Encryption secret required (--secret, FLEXCTL_SECRET, or keychain)")
			os.Exit(1)
		}

		apiKey := loginAPIKey
		if apiKey == "" {
			apiKey = os.Getenv("CLOUDHEALTH_API_KEY")
		}
		if apiKey == "" {
			apiKey, err = ui.GetInput("Enter your CloudHealth API key", "", true)
			if err != nil {
				return
			}
		}
		if apiKey == "" {
			fmt.Fprintln(os.Stderr, "❌ API key cannot be empty")
			os.Exit(1)
		}

		// Verify the key before storing it.
		client := internal.NewClient()
		if _, err := ui.Spin("Verifying API key with CloudHealth...", func() (any, error) {
			return nil, client.Authenticate(apiKey)
		}); err != nil {
			fmt.Fprintf(os.Stderr, "❌ API key verification failed: %v\n", err)
			os.Exit(1)
		}

		if err := internal.SaveAPIKey(loginProfile, apiKey, secret); err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to save API key: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("✅ API key stored under profile '%s'\n", loginProfile)
	},
}
