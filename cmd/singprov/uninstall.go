package main

import (
	"fmt"

	"github.com/creamcroissant/singprov/internal/config"
	"github.com/creamcroissant/singprov/internal/provision"
	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the generated artifacts",
	RunE:  runUninstall,
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	sink := &provision.FileSink{
		ServerConfigPath: cfg.Paths.ServerConfig,
		SubscriptionPath: cfg.Paths.Subscription,
		LinksPagePath:    cfg.Paths.LinksPage,
	}
	if err := sink.Remove(); err != nil {
		return err
	}
	fmt.Println("artifacts removed")
	return nil
}
