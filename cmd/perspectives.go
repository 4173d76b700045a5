package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chukul/flexctl/internal"
	"github.com/chukul/flexctl/internal/ui"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	perspectivesAPIKey  string
	perspectivesProfile string
	perspectivesSecret  string
	perspectivesID      string
	perspectivesGroups  bool
	perspectivesJSON    bool
)

var perspectivesCmd = &cobra.Command{
	Use:   "perspectives",
	Short: "List Perspectives and their groups",
	Long: `Lists the Perspectives defined in the CloudHealth tenant. With --id (or
--groups) the static and dynamic groups of each perspective schema are shown
as well.`,
	Run: func(cmd *cobra.Command, args []string) {
		apiKey, err := resolveAPIKey(perspectivesAPIKey, perspectivesProfile, perspectivesSecret)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}

		client := internal.NewRESTClient(apiKey)

		if perspectivesID != "" {
			perspective, err := client.GetPerspective(perspectivesID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "❌ Failed to get perspective %s: %v\n", perspectivesID, err)
				os.Exit(1)
			}
			printPerspectives([]internal.Perspective{*perspective}, true)
			return
		}

		res, err := ui.Spin("Fetching perspectives...", func() (any, error) {
			return client.ListPerspectives()
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to list perspectives: %v\n", err)
			os.Exit(1)
		}
		perspectives := res.([]internal.Perspective)

		if perspectivesGroups {
			for i, p := range perspectives {
				full, err := client.GetPerspective(p.ID)
				if err != nil {
					fmt.Fprintf(os.Stderr, "❌ Failed to get perspective %s: %v\n", p.ID, err)
					os.Exit(1)
				}
				perspectives[i].Groups = full.Groups
			}
		}

		printPerspectives(perspectives, perspectivesGroups)
	},
}

func printPerspectives(perspectives []internal.Perspective, withGroups bool) {
	if perspectivesJSON {
		jsonData, _ := json.MarshalIndent(perspectives, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	if len(perspectives) == 0 {
		fmt.Println("No perspectives found.")
		return
	}

	name := color.New(color.FgCyan, color.Bold).SprintFunc()
	inactive := color.New(color.FgYellow).SprintFunc()

	for _, p := range perspectives {
		label := name(p.Name)
		if !p.Active {
			label = fmt.Sprintf("%s %s", label, inactive("(inactive)"))
		}
		fmt.Printf("🔭 %s  [%s]\n", label, p.ID)

		if withGroups {
			if len(p.Groups) == 0 {
				fmt.Println("   (no groups)")
			}
			for _, g := range p.Groups {
				fmt.Printf("   └─ %s  [%s]\n", g.Name, g.RefID)
			}
		}
	}
}

func init() {
	perspectivesCmd.Flags().StringVar(&perspectivesAPIKey, "api-key", "", "CloudHealth API key (or set CLOUDHEALTH_API_KEY env var)")
	perspectivesCmd.Flags().StringVar(&perspectivesProfile, "profile", "", "Stored profile holding the API key")
	perspectivesCmd.Flags().StringVar(&perspectivesSecret, "secret", os.Getenv("FLEXCTL_SECRET"), "Secret key for profile decryption")
	perspectivesCmd.Flags().StringVar(&perspectivesID, "id", "", "Show a single perspective with its groups")
	perspectivesCmd.Flags().BoolVar(&perspectivesGroups, "groups", false, "Include groups for every perspective")
	perspectivesCmd.Flags().BoolVar(&perspectivesJSON, "json", false, "Output results in JSON format for automation")
	rootCmd.AddCommand(perspectivesCmd)
}
