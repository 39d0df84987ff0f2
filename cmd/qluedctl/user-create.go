package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/alqor-ug/qlued-go/pkg/db"
	"github.com/alqor-ug/qlued-go/pkg/model"
)

// userCreateCmd represents the user create command
var userCreateCmd = &cobra.Command{
	Use:   "create USERNAME",
	Short: "Create a user",
	Long: `Create a user.

If no password is given a random one is generated and printed.

Example:
  qluedctl user create alice
  qluedctl user create alice --password hunter2`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		username := args[0]
		password, _ := cmd.Flags().GetString("password")

		generated := false
		if password == "" {
			raw := make([]byte, 18)
			_, _ = rand.Read(raw)
			password = base64.RawURLEncoding.EncodeToString(raw)
			generated = true
		}

		gormDB, err := db.Connect(db.Config{URL: db.URL()})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		user := model.User{Username: username, CreatedAt: time.Now().UTC()}
		if err := user.SetPassword(password); err != nil {
			fmt.Fprintln(os.Stderr, "Failed to hash password:", err)
			os.Exit(1)
		}

		if err := gormDB.Create(&user).Error; err != nil {
			fmt.Fprintln(os.Stderr, "Failed to create user:", err)
			os.Exit(1)
		}

		fmt.Printf("Created user %s (id %d)\n", user.Username, user.ID)
		if generated {
			fmt.Printf("Generated password: %s\n", password)
		}
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)

	userCreateCmd.Flags().String("password", "", "password for the new user")
}
