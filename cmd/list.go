package cmd

import (
	"fmt"

	"github.com/chukul/flexctl/internal"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored profiles",
	Run: func(cmd *cobra.Command, args []string) {
		profiles, err := internal.ListProfiles()
		if err != nil {
			fmt.Printf("❌ Failed to read credential store: %v\n", err)
			return
		}
		if len(profiles) == 0 {
			fmt.Println("No profiles found.")
			return
		}
		for _, p := range profiles {
			if p.CreatedAt.IsZero() {
				fmt.Println("📦", p.Name)
				continue
			}
			fmt.Printf("📦 %-20s (added %s)\n", p.Name, internal.FormatLocal(p.CreatedAt))
		}
	},
}
