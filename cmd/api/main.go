package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/gamehub/portal/cmd/api/commands"
)

// @title GameHub API
// @version 1.0
// @description Game catalog, search, visitor favorites and SEO metadata

// @license.name MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.basic BasicAuth

func main() {
	rootCmd := &cobra.Command{
		Use:   "gamehub",
		Short: "GameHub web server",
		Long:  `GameHub serves a catalog of browser games with search, suggestions, per-visitor favorites and history, and search-engine metadata.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewSitemapCommand())
	rootCmd.AddCommand(commands.NewCatalogCommand())
	rootCmd.AddCommand(commands.NewAdminCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
