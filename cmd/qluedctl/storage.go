package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// storageCmd represents the storage command
var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Manage storage providers",
	Long:  `Manage the storage providers backends live on.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'storage' requires a subcommand (add, list, watch)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(storageCmd)
}
