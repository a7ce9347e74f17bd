package main

import (
	"fmt"

	"github.com/creamcroissant/singprov/internal/config"
	"github.com/creamcroissant/singprov/internal/identity"
	"github.com/creamcroissant/singprov/internal/profile"
	"github.com/creamcroissant/singprov/internal/provision"
	"github.com/creamcroissant/singprov/internal/support/logging"
	"github.com/spf13/cobra"
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Generate the server profile and client artifacts",
	RunE:  runProvision,
}

func init() {
	flags := provisionCmd.Flags()
	flags.String("domain", "", "domain name the endpoints are published under")
	flags.String("tunnel-host", "", "tunnel collaborator host")
	flags.String("tunnel-domain", "", "public hostname exposed by the tunnel")
	flags.String("tunnel-token", "", "tunnel auth token")
	rootCmd.AddCommand(provisionCmd)
}

func runProvision(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(logging.Options{
		Level:     cfg.Log.SlogLevel(),
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
	})

	params := paramsFromConfig(cfg)
	if domain, _ := cmd.Flags().GetString("domain"); domain != "" {
		params.Domain = domain
	}
	if tunnelDomain, _ := cmd.Flags().GetString("tunnel-domain"); tunnelDomain != "" {
		host, _ := cmd.Flags().GetString("tunnel-host")
		token, _ := cmd.Flags().GetString("tunnel-token")
		params.Tunnel = &profile.Tunnel{Host: host, Domain: tunnelDomain, Token: token}
	}

	generator := identity.NewGenerator(nil, keygenFromConfig(cfg.Keygen))
	sink := &provision.FileSink{
		ServerConfigPath: cfg.Paths.ServerConfig,
		SubscriptionPath: cfg.Paths.Subscription,
		LinksPagePath:    cfg.Paths.LinksPage,
	}

	pipeline := provision.NewPipeline(generator, sink, logger)
	artifacts, err := pipeline.Run(cmd.Context(), params)
	if err != nil {
		return err
	}

	for _, link := range artifacts.Links {
		fmt.Printf("%s\n  %s\n", link.Kind, link.URL)
	}
	fmt.Printf("\nserver config: %s\nsubscription:  %s\n", cfg.Paths.ServerConfig, cfg.Paths.Subscription)
	return nil
}

func paramsFromConfig(cfg *config.Config) profile.Params {
	params := profile.Params{
		Domain:           cfg.Provision.Domain,
		VlessRealityPort: cfg.Provision.VlessRealityPort,
		Hysteria2Port:    cfg.Provision.Hysteria2Port,
		TuicPort:         cfg.Provision.TuicPort,
		VmessPort:        cfg.Provision.VmessPort,
		VlessWSPort:      cfg.Provision.VlessWSPort,
		WSPath:           cfg.Provision.WSPath,
	}
	if cfg.Provision.Tunnel.Domain != "" {
		params.Tunnel = &profile.Tunnel{
			Host:   cfg.Provision.Tunnel.Host,
			Domain: cfg.Provision.Tunnel.Domain,
			Token:  cfg.Provision.Tunnel.Token,
		}
	}
	return params
}

func keygenFromConfig(cfg config.KeygenConfig) identity.Keygen {
	if cfg.Command != "" {
		return identity.NewCommandKeygen(cfg.Command, cfg.Timeout, cfg.Retries)
	}
	return identity.LocalKeygen{}
}
