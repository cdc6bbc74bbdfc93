// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the cite-resolver CLI.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pdiddy/cite-resolver/internal/config"
	"github.com/pdiddy/cite-resolver/internal/logger"
	"github.com/pdiddy/cite-resolver/internal/resolve"
	"github.com/pdiddy/cite-resolver/internal/secrets"
	"github.com/pdiddy/cite-resolver/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Loaded once in PersistentPreRunE and read-only afterwards.
var (
	loadedSecrets secrets.Secrets
	cfg           types.ResolverConfig
	log           logger.Logger = logger.Discard()
)

// rootCmd is the base command for the cite-resolver CLI.
var rootCmd = &cobra.Command{
	Use:   "cite-resolver",
	Short: "Resolve free-text citations to verified bibliographic records",
	Long: `cite-resolver turns a citation as a person wrote it into a verified
bibliographic record and renders it in Chicago, APA, MLA, Bluebook or OSCOLA.

Free scholarly, book, legal and web sources are searched first. Generative
AI models are consulted only when those sources cannot produce a confident
match, cheaper models before expensive ones.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}

		s, err := secrets.Resolve(".secrets", ".env")
		if err != nil {
			return err
		}
		loadedSecrets = s

		cfgFile, _ := cmd.Flags().GetString("config")
		c, err := config.Load(config.NewViper(cfgFile))
		if err != nil {
			return err
		}
		cfg = c

		level := cfg.LogLevel
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = string(logger.DebugLevel)
		}
		log = logger.New(logger.Config{
			Level:  logger.Level(level),
			Output: os.Stderr,
			JSON:   cfg.LogJSON,
		})
		if names := s.Names(); len(names) > 0 {
			log.Debug("loaded secrets", "keys", names)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./cite-resolver.yaml or ~/.config/cite-resolver/cite-resolver.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output to stderr")
}

// newResolver assembles the registry and resolver from the loaded
// configuration. The caller closes the returned engines.
func newResolver(ctx context.Context) (*resolve.Resolver, *config.Engines, error) {
	engines, err := config.BuildRegistry(ctx, cfg, loadedSecrets, log)
	if err != nil {
		return nil, nil, err
	}
	r, err := resolve.New(engines.Registry, cfg, resolve.WithLogger(log))
	if err != nil {
		engines.Close()
		return nil, nil, err
	}
	return r, engines, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
