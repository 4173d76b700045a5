package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate shell integration code",
	Long:  `Generate shell integration code to simplify flexctl usage. Add the output to your shell config file.`,
	Run: func(cmd *cobra.Command, args []string) {
		shell := detectShell()

		fmt.Printf("# FlexCtl Shell Integration for %s\n", shell)
		fmt.Println("# Add this to your shell config file:")
		fmt.Println("# - Bash: ~/.bashrc or ~/.bash_profile")
		fmt.Println("# - Zsh: ~/.zshrc")
		fmt.Println("# - Fish: ~/.config/fish/config.fish")
		fmt.Println()

		switch shell {
		case "fish":
			printFishIntegration()
		default:
			printBashZshIntegration()
		}
	},
}

func detectShell() string {
	shell := os.Getenv("SHELL")
	if shell == "" {
		if runtime.GOOS == "windows" {
			return "powershell"
		}
		return "bash"
	}

	// Extract shell name from path
	for i := len(shell) - 1; i >= 0; i-- {
		if shell[i] == '/' || shell[i] == '\\' {
			return shell[i+1:]
		}
	}
	return shell
}

func printBashZshIntegration() {
	fmt.Println(`# Set your FlexCtl encryption secret
export FLEXCTL_SECRET="your-32-char-encryption-key"

# Load a stored API key into the environment - usage: fxk <profile>
fxk() {
  eval $(flexctl export --profile "${1:-default}")
}

# Aliases for common commands
alias fxr='flexctl run'
alias fxb='flexctl batch'
alias fxs='flexctl status'
alias fxp='flexctl perspectives'`)
}

func printFishIntegration() {
	fmt.Println(`# Set your FlexCtl encryption secret
set -gx FLEXCTL_SECRET "your-32-char-encryption-key"

# Load a stored API key into the environment - usage: fxk <profile>
function fxk
    if test (count $argv) -eq 0
        eval (flexctl export --profile default)
    else
        eval (flexctl export --profile $argv[1])
    end
end

# Aliases for common commands
alias fxr='flexctl run'
alias fxb='flexctl batch'
alias fxs='flexctl status'
alias fxp='flexctl perspectives'`)
}

func init() {
	rootCmd.AddCommand(initCmd)
}
