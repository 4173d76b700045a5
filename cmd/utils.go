package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"github.com/chukul/flexctl/internal"
	"golang.org/x/term"
)

// resolveAPIKey finds the CloudHealth API key to use, in priority order:
// explicit flag, CLOUDHEALTH_API_KEY env var, stored profile, interactive
// masked prompt.
func resolveAPIKey(flagValue, profile, secret string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	if envKey := os.Getenv("CLOUDHEALTH_API_KEY"); envKey != "" {
		return envKey, nil
	}

	if profile != "" {
		resolved, err := internal.GetSecret(secret)
		if err != nil {
			return "", fmt.Errorf("encryption secret required to read profile '%s'", profile)
		}
		return internal.LoadAPIKey(profile, resolved)
	}

	key := readSecretLine("Enter your CloudHealth API key: ")
	if key == "" {
		return "", fmt.Errorf("API key cannot be empty")
	}
	return key, nil
}

// readSecretLine reads a line from the terminal with masked echo.
func readSecretLine(prompt string) string {
	fmt.Print(prompt)
	var value string
	var char byte
	buf := make([]byte, 1)

	oldState, err := term.MakeRaw(int(syscall.Stdin))
	if err != nil {
		log.Fatalf("❌ Failed to set terminal mode: %v", err)
	}
	defer term.Restore(int(syscall.Stdin), oldState)

	for {
		_, err := syscall.Read(syscall.Stdin, buf)
		if err != nil {
			log.Fatalf("❌ Failed to read input: %v", err)
		}
		char = buf[0]

		if char == 13 || char == 10 { // Enter
			fmt.Print("\r\n")
			break
		} else if char == 127 || char == 8 { // Backspace
			if len(value) > 0 {
				value = value[:len(value)-1]
				fmt.Print("\b \b")
			}
		} else if char >= 32 && char <= 126 { // Printable characters
			value += string(char)
			fmt.Print("*")
		}
	}

	return strings.TrimSpace(value)
}

func printHeader(text string) {
	fmt.Println(strings.Repeat("=", 46))
	fmt.Println(text)
	fmt.Println(strings.Repeat("=", 46))
}

func truncateText(text string, max int) string {
	if len(text) > max {
		return text[:max-3] + "..."
	}
	return text
}
