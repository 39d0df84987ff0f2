package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alqor-ug/qlued-go/pkg/db"
	"github.com/alqor-ug/qlued-go/pkg/model"
	"github.com/alqor-ug/qlued-go/pkg/schemes"
)

// storageAddCmd represents the storage add command
var storageAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Register a storage provider",
	Long: `Register a storage provider.

The name becomes the provider part of full backend names, so it may only
contain lowercase alphanumeric characters. The login information is a
JSON document whose shape depends on the storage type.

Example:
  qluedctl storage add alqor --type local --owner alice \
    --login '{"base_path": "/var/qlued"}'
  qluedctl storage add cloud --type mongodb --owner alice \
    --login '{"mongodb_database_url": "mongodb://db:27017", "mongodb_username": "u", "mongodb_password": "p"}'`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		storageType, _ := cmd.Flags().GetString("type")
		login, _ := cmd.Flags().GetString("login")
		owner, _ := cmd.Flags().GetString("owner")
		description, _ := cmd.Flags().GetString("description")

		parsedType, err := schemes.StorageTypeString(storageType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid storage type %q (local, mongodb, dropbox)\n", storageType)
			os.Exit(1)
		}

		gormDB, err := db.Connect(db.Config{URL: db.URL()})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		var user model.User
		if err := gormDB.Where("username = ?", owner).First(&user).Error; err != nil {
			fmt.Fprintln(os.Stderr, "Unknown owner:", owner)
			os.Exit(1)
		}

		entry := model.StorageProvider{
			StorageType: parsedType,
			Name:        name,
			IsActive:    true,
			OwnerID:     user.ID,
			Description: description,
			Login:       login,
		}
		if err := entry.Clean(); err != nil {
			fmt.Fprintln(os.Stderr, "Invalid storage provider:", err)
			os.Exit(1)
		}

		if err := gormDB.Create(&entry).Error; err != nil {
			fmt.Fprintln(os.Stderr, "Failed to create storage provider:", err)
			os.Exit(1)
		}

		fmt.Printf("Registered %s storage provider %s (id %d)\n", entry.StorageType, entry.Name, entry.ID)
	},
}

func init() {
	storageCmd.AddCommand(storageAddCmd)

	storageAddCmd.Flags().String("type", "local", "storage type (local, mongodb, dropbox)")
	storageAddCmd.Flags().String("login", "{}", "login information as a JSON document")
	storageAddCmd.Flags().String("owner", "", "username of the owning user")
	storageAddCmd.Flags().String("description", "", "optional description")
	_ = storageAddCmd.MarkFlagRequired("owner")
}
