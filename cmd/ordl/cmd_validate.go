package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"svw.info/ordl/internal/corpus"
	"svw.info/ordl/internal/validator"
)

func newValidateCmd(get func() *app) *cobra.Command {
	var (
		path    string
		asJSON  bool
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the event corpus for puzzles that are too easy or ambiguous",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = get().cfg.Corpus.Path
			}
			c, err := corpus.Open(path)
			if err != nil {
				return fmt.Errorf("load corpus: %w", err)
			}
			report := validator.Corpus(c)
			issues, warnings := report.IssueCount()

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				p := newPrinter(cmd)
				printReport(p, report, verbose)
				p.printf("%d events, %d puzzles, %d issues, %d warnings\n", c.Len(), c.TotalPuzzles(), issues, warnings)
			}
			if !report.OK() {
				return fmt.Errorf("corpus has %d blocking issues", issues)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "corpus", "", "corpus JSON file (default: configured or embedded corpus)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list clean puzzles too")
	return cmd
}

func printReport(p *printer, r validator.Report, verbose bool) {
	for _, w := range r.Warnings {
		p.println(p.style(warnStyle, "⚠ "+w))
	}
	for _, pz := range r.Puzzles {
		clean := len(pz.Issues) == 0 && len(pz.Warnings) == 0
		if clean && !verbose {
			continue
		}
		status := p.style(goodStyle, "✓")
		if len(pz.Issues) > 0 {
			status = p.style(badStyle, "✗")
		} else if len(pz.Warnings) > 0 {
			status = p.style(warnStyle, "⚠")
		}
		p.printf("%s Puzzle #%d (span %d years)\n", status, pz.Number, pz.Span)
		for _, is := range pz.Issues {
			p.println("    " + p.style(badStyle, is))
		}
		for _, w := range pz.Warnings {
			p.println("    " + p.style(warnStyle, w))
		}
	}
}
