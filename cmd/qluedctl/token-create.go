package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/alqor-ug/qlued-go/pkg/config"
	"github.com/alqor-ug/qlued-go/pkg/db"
	"github.com/alqor-ug/qlued-go/pkg/model"
	"github.com/alqor-ug/qlued-go/pkg/schemes"
	"github.com/alqor-ug/qlued-go/pkg/signing"
	"github.com/alqor-ug/qlued-go/pkg/storage"
)

// tokenCreateCmd represents the token create command
var tokenCreateCmd = &cobra.Command{
	Use:   "create USERNAME",
	Short: "Create an API token for a user",
	Long: `Create an API token for a user.

A fresh Ed25519 key pair is generated. The x coordinate of the public key
becomes the token key the user authenticates with, and the public JWK is
uploaded to the storage provider so that signed results can be verified.
The private JWK is printed once and not stored anywhere.

Example:
  qluedctl token create alice --storage-provider alqor`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		username := args[0]
		providerName, _ := cmd.Flags().GetString("storage-provider")
		inactive, _ := cmd.Flags().GetBool("inactive")

		gormDB, err := db.Connect(db.Config{URL: db.URL()})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		var user model.User
		if err := gormDB.Where("username = ?", username).First(&user).Error; err != nil {
			fmt.Fprintln(os.Stderr, "Unknown user:", username)
			os.Exit(1)
		}

		uuidHex := schemes.NewJobID()

		priv, pub, err := signing.NewKeyPair(uuidHex)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to generate key pair:", err)
			os.Exit(1)
		}

		token := model.Token{
			Key:       pub.X,
			UserID:    user.ID,
			CreatedAt: time.Now().UTC(),
			IsActive:  !inactive,
			UUIDHex:   &uuidHex,
		}

		if providerName != "" {
			var entry model.StorageProvider
			if err := gormDB.Where("name = ?", providerName).First(&entry).Error; err != nil {
				fmt.Fprintln(os.Stderr, "Unknown storage provider:", providerName)
				os.Exit(1)
			}
			token.StorageProviderID = &entry.ID

			provider, err := storage.FromEntry(&entry, config.Get().OperationalWindow())
			if err != nil {
				fmt.Fprintln(os.Stderr, "Failed to open storage provider:", err)
				os.Exit(1)
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := provider.UploadPublicKey(ctx, pub, "user"); err != nil {
				fmt.Fprintln(os.Stderr, "Failed to upload public key:", err)
				os.Exit(1)
			}
		}

		if err := token.Clean(); err != nil {
			fmt.Fprintln(os.Stderr, "Invalid token:", err)
			os.Exit(1)
		}
		if err := gormDB.Create(&token).Error; err != nil {
			fmt.Fprintln(os.Stderr, "Failed to create token:", err)
			os.Exit(1)
		}

		privJSON, _ := json.Marshal(priv)
		fmt.Printf("Created token for %s\n", username)
		fmt.Printf("Token key: %s\n", token.Key)
		fmt.Printf("Private JWK (store it safely, it is not kept): %s\n", privJSON)
	},
}

func init() {
	tokenCmd.AddCommand(tokenCreateCmd)

	tokenCreateCmd.Flags().String("storage-provider", "", "storage provider to associate the token with")
	tokenCreateCmd.Flags().Bool("inactive", false, "create the token in revoked state")
}
