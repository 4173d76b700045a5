package cmd

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/chukul/flexctl/internal"
	"github.com/chukul/flexctl/internal/ui"
	"github.com/spf13/cobra"
)

var (
	logoutProfile string
	logoutAll     bool
)

func init() {
	logoutCmd.Flags().StringVar(&logoutProfile, "profile", "", "Profile name to remove from the credential store")
	logoutCmd.Flags().BoolVar(&logoutAll, "all", false, "Remove all stored profiles")
	rootCmd.AddCommand(logoutCmd)
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove a stored API key, or all of them",
	Run: func(cmd *cobra.Command, args []string) {
		if !logoutAll && logoutProfile == "" {
			profiles, err := internal.ListProfiles()
			if err != nil || len(profiles) == 0 {
				fmt.Println("❌ No stored profiles found.")
				return
			}

			names := make([]string, 0, len(profiles))
			for _, p := range profiles {
				names = append(names, p.Name)
			}
			selected, err := ui.SelectProfile("Select Profile to Remove", names)
			if err != nil {
				return
			}
			logoutProfile = selected
		}

		if logoutAll {
			fmt.Print("⚠️  This will remove all stored API keys. Type 'yes' to confirm: ")
			reader := bufio.NewReader(os.Stdin)
			input, _ := reader.ReadString('\n')
			if strings.TrimSpace(input) != "yes" {
				fmt.Println("❌ Operation cancelled.")
				return
			}

			if err := internal.ClearAllProfiles(); err != nil {
				log.Fatalf("Failed to clear profiles: %v", err)
			}
			fmt.Println("✅ All profiles removed successfully.")
			return
		}

		if err := internal.RemoveProfile(logoutProfile); err != nil {
			log.Fatalf("Failed to remove profile %s: %v", logoutProfile, err)
		}

		fmt.Printf("✅ Profile '%s' removed successfully.\n", logoutProfile)
	},
}
