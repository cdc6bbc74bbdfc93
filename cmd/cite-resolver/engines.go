// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/cite-resolver/internal/config"
)

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List the registered engines by tier",
	Long: `Engines prints the registry the resolver would use with the current
configuration and secrets. AI engines without an API key are not listed.`,
	RunE: runEngines,
}

func init() {
	rootCmd.AddCommand(enginesCmd)
}

func runEngines(cmd *cobra.Command, args []string) error {
	engines, err := config.BuildRegistry(cmd.Context(), cfg, loadedSecrets, log)
	if err != nil {
		return err
	}
	defer engines.Close()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIER\tENGINE\tTIMEOUT\tTYPES")
	for _, e := range engines.Registry.Entries() {
		ts := make([]string, 0, len(e.Types))
		for _, t := range e.Types {
			ts = append(ts, string(t))
		}
		name := e.ID
		if e.AI {
			name += " (ai)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.Tier, name, e.Timeout, strings.Join(ts, ", "))
	}
	return tw.Flush()
}
