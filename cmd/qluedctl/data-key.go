package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// dataKeyCmd represents the data-key command
var dataKeyCmd = &cobra.Command{
	Use:   "data-key",
	Short: "Manage the data encryption key",
	Long:  `Manage the data encryption key`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'data-key' requires a subcommand generate")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

// dataKeyGenerateCmd represents the data-key generate command
var dataKeyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a data encryption key",
	Long: `
Generate a data encryption key

Use this command to generate a new Base64-encoded 256 bit key suitable
for encrypting storage provider logins at rest.

Example:

$ export QLUED_DATA_KEY="$(qluedctl data-key generate)"
`,
	Run: func(cmd *cobra.Command, args []string) {
		raw := make([]byte, 32)
		if _, err := rand.Read(raw); err != nil {
			fmt.Fprintln(os.Stderr, "Failed to generate key:", err)
			os.Exit(1)
		}
		fmt.Printf("%s", base64.StdEncoding.Strict().EncodeToString(raw))
	},
}

func init() {
	rootCmd.AddCommand(dataKeyCmd)
	dataKeyCmd.AddCommand(dataKeyGenerateCmd)
}
