package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alqor-ug/qlued-go/pkg/config"
	"github.com/alqor-ug/qlued-go/pkg/db"
	"github.com/alqor-ug/qlued-go/pkg/log"
	"github.com/alqor-ug/qlued-go/pkg/server"
	"github.com/alqor-ug/qlued-go/pkg/server/endpoints"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the qlued application server",
	Long: `Run the qlued application server

To run the server requires the environment variable DATABASE_URL.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		if db.URL() == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		cfg := config.Get()
		log.Configure(log.Config{Level: cfg.LogLevel, Output: os.Stderr})
		logger := log.WithComponent("server")

		// Run migrations unless --no-migrate is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			logger.Info().Msg("running database migrations")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		gormDB, err := db.Connect(db.Config{URL: db.URL()})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(gormDB, cfg, host, port)

		endpoints.RegisterAll(s)

		logger.Info().Str("host", host).Str("port", port).Msg("running server")
		if err := s.Start(); err != nil {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", config.Get().Port, "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", config.Get().BindAddress, "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
