package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alqor-ug/qlued-go/pkg/db"
	"github.com/alqor-ug/qlued-go/pkg/model"
)

// storageListCmd represents the storage list command
var storageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered storage providers",
	Run: func(cmd *cobra.Command, args []string) {
		gormDB, err := db.Connect(db.Config{URL: db.URL()})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		var entries []model.StorageProvider
		if err := gormDB.Preload("Owner").Order("name asc").Find(&entries).Error; err != nil {
			fmt.Fprintln(os.Stderr, "Failed to list storage providers:", err)
			os.Exit(1)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTYPE\tACTIVE\tOWNER\tDESCRIPTION")
		for _, entry := range entries {
			owner := ""
			if entry.Owner != nil {
				owner = entry.Owner.Username
			}
			fmt.Fprintf(w, "%s\t%s\t%v\t%s\t%s\n",
				entry.Name, entry.StorageType, entry.IsActive, owner, entry.Description)
		}
		_ = w.Flush()
	},
}

func init() {
	storageCmd.AddCommand(storageListCmd)
}
