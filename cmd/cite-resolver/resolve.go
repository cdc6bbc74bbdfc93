// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/cite-resolver/internal/format"
	"github.com/pdiddy/cite-resolver/internal/resolve"
	"github.com/pdiddy/cite-resolver/pkg/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [citation text...]",
	Short: "Resolve citations and print them in a citation style",
	Long: `Resolve detects the kind of reference each citation is, searches the
registered sources tier by tier, and prints the best verified record in the
requested style.

Pass the citation as arguments, or use --file for a batch: one citation per
line, or a YAML list of {text, type_hint, url_hint}. Use --out to keep the
results so they can be re-rendered with "format" without searching again.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("file", "", "batch input file (.txt one per line, or .yaml)")
	resolveCmd.Flags().String("style", "", "citation style: chicago, apa, mla, bluebook, oscola (default from config)")
	resolveCmd.Flags().String("markup", "plain", "italics markup: plain, html, markdown")
	resolveCmd.Flags().String("type", "", "reference type hint: journal, book, case, newspaper, web")
	resolveCmd.Flags().String("url", "", "known URL of the cited work")
	resolveCmd.Flags().Bool("json", false, "print the full resolution result as JSON")
	resolveCmd.Flags().String("csl", "", "write resolved records as CSL-YAML to this path")
	resolveCmd.Flags().String("out", "", "write a result file for later formatting")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	typeHint, _ := cmd.Flags().GetString("type")
	urlHint, _ := cmd.Flags().GetString("url")
	asJSON, _ := cmd.Flags().GetBool("json")
	cslPath, _ := cmd.Flags().GetString("csl")
	outPath, _ := cmd.Flags().GetString("out")

	dispatcher, style, err := formatter(cmd)
	if err != nil {
		return err
	}

	var inputs []types.RawCitation
	switch {
	case file != "" && len(args) > 0:
		return fmt.Errorf("pass citation text or --file, not both")
	case file != "":
		if inputs, err = resolve.ReadInputFile(file); err != nil {
			return err
		}
	case len(args) > 0:
		inputs = []types.RawCitation{{Text: strings.Join(args, " "), URLHint: urlHint}}
	default:
		return fmt.Errorf("provide citation text or --file")
	}
	if typeHint != "" {
		t, err := types.ParseReferenceType(typeHint)
		if err != nil {
			return &types.ConfigError{Field: "type", Err: err}
		}
		for i := range inputs {
			inputs[i].TypeHint = t
		}
	}

	ctx := cmd.Context()
	r, engines, err := newResolver(ctx)
	if err != nil {
		return err
	}
	defer engines.Close()

	progress := io.Discard
	if file != "" {
		progress = cmd.ErrOrStderr()
	}
	entries, summary, err := r.ResolveAll(ctx, inputs, progress)
	if err != nil && len(entries) == 0 {
		return err
	}
	if err != nil {
		log.Warn("batch stopped early", "error", err, "completed", len(entries))
	}

	out := cmd.OutOrStdout()
	if asJSON {
		if err := writeJSON(out, entries); err != nil {
			return err
		}
	} else {
		for _, e := range entries {
			if err := printEntry(out, dispatcher, style, e); err != nil {
				return err
			}
		}
	}

	if outPath != "" {
		if err := resolve.WriteResultFile(outPath, entries); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", outPath)
	}
	if cslPath != "" {
		if err := writeCSLFile(cslPath, entries); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", cslPath)
	}
	for _, c := range engines.Costs.Totals() {
		log.Info("ai usage", "engine", c.Engine, "calls", c.Calls,
			"input_tokens", c.InputTokens, "output_tokens", c.OutputTokens, "cost_usd", c.CostUSD)
	}
	if total := engines.Costs.Total(); total > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "AI cost: $%.4f\n", total)
	}

	if err != nil {
		return err
	}
	if summary.Unresolved > 0 {
		return fmt.Errorf("%d citation(s) unresolved", summary.Unresolved)
	}
	return nil
}

// formatter reads the --style and --markup flags, falling back to the
// configured style.
func formatter(cmd *cobra.Command) (*format.Dispatcher, format.Style, error) {
	styleName, _ := cmd.Flags().GetString("style")
	if styleName == "" {
		styleName = cfg.Style
	}
	style, err := format.ParseStyle(styleName)
	if err != nil {
		return nil, "", err
	}
	markupName, _ := cmd.Flags().GetString("markup")
	mk, err := format.ParseMarkup(markupName)
	if err != nil {
		return nil, "", err
	}
	return format.NewDispatcher(mk), style, nil
}

// printEntry writes the formatted best match, or the status when there is
// none. Low-confidence results are marked so they get a second look.
func printEntry(w io.Writer, d *format.Dispatcher, style format.Style, e resolve.Entry) error {
	res := e.Result
	if res.Best == nil {
		_, err := fmt.Fprintf(w, "[%s] %s\n", res.Status, e.Input.Text)
		return err
	}
	text, err := d.Format(*res.Best, style)
	if err != nil {
		return err
	}
	if res.Status == types.StatusLowConfidence {
		_, err = fmt.Fprintf(w, "[%s %.2f] %s\n", res.Status, res.Best.Confidence, text)
		return err
	}
	_, err = fmt.Fprintln(w, text)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeCSLFile exports the best record of every entry that has one.
func writeCSLFile(path string, entries []resolve.Entry) error {
	var records []types.CanonicalMetadata
	for _, e := range entries {
		if e.Result.Best != nil {
			records = append(records, *e.Result.Best)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSL file: %w", err)
	}
	if err := format.WriteCSL(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
