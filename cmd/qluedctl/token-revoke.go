package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alqor-ug/qlued-go/pkg/db"
	"github.com/alqor-ug/qlued-go/pkg/model"
)

// tokenRevokeCmd represents the token revoke command
var tokenRevokeCmd = &cobra.Command{
	Use:   "revoke KEY",
	Short: "Revoke an API token",
	Long: `Revoke an API token.

The token stays in the database but no longer authenticates requests.

Example:
  qluedctl token revoke 4Jx...`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]

		gormDB, err := db.Connect(db.Config{URL: db.URL()})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		tx := gormDB.Model(&model.Token{}).Where("key = ?", key).Update("is_active", false)
		if tx.Error != nil {
			fmt.Fprintln(os.Stderr, "Failed to revoke token:", tx.Error)
			os.Exit(1)
		}
		if tx.RowsAffected == 0 {
			fmt.Fprintln(os.Stderr, "Unknown token key")
			os.Exit(1)
		}

		fmt.Println("Token revoked")
	},
}

func init() {
	tokenCmd.AddCommand(tokenRevokeCmd)
}
