// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/cite-resolver/internal/resolve"
)

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Render a saved result file in a citation style",
	Long: `Format reads a result file written by "resolve --out" and prints each
resolved record in the requested style. No source is queried.`,
	RunE: runFormat,
}

func init() {
	formatCmd.Flags().String("in", "", "result file written by resolve --out (required)")
	formatCmd.Flags().String("style", "", "citation style: chicago, apa, mla, bluebook, oscola (default from config)")
	formatCmd.Flags().String("markup", "plain", "italics markup: plain, html, markdown")
	formatCmd.Flags().String("csl", "", "also write the records as CSL-YAML to this path")
	if err := formatCmd.MarkFlagRequired("in"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(formatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	in, _ := cmd.Flags().GetString("in")
	cslPath, _ := cmd.Flags().GetString("csl")

	dispatcher, style, err := formatter(cmd)
	if err != nil {
		return err
	}
	rf, err := resolve.ReadResultFile(in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, e := range rf.Entries {
		if err := printEntry(out, dispatcher, style, e); err != nil {
			return err
		}
	}
	if cslPath != "" {
		if err := writeCSLFile(cslPath, rf.Entries); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", cslPath)
	}
	return nil
}
