// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/cite-resolver/internal/detect"
	"github.com/pdiddy/cite-resolver/pkg/types"
)

var detectCmd = &cobra.Command{
	Use:   "detect [citation text...]",
	Short: "Show the detected reference types and search query for a citation",
	Long: `Detect runs type detection and query shaping without contacting any
source. It prints the candidate types with scores, the signals that fired,
and the query the resolver would send.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().String("url", "", "known URL of the cited work")
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	urlHint, _ := cmd.Flags().GetString("url")
	text := strings.Join(args, " ")

	detected := detect.Detect(text)
	q := detect.ExtractQuery(types.RawCitation{Text: text, URLHint: urlHint})
	q.Types = detect.Candidates(detected, "", cfg.AmbiguityThreshold, cfg.FanOut)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Detected types:")
	for _, ts := range detected {
		fmt.Fprintf(out, "  %-12s %.2f\n", ts.Type, ts.Score)
	}
	if sig := detect.Signals(text); len(sig) > 0 {
		fmt.Fprintf(out, "Signals: %s\n", strings.Join(sig, ", "))
	}

	fmt.Fprintln(out, "Query:")
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(q); err != nil {
		return fmt.Errorf("encoding query: %w", err)
	}
	return enc.Close()
}
