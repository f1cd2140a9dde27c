package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pophealth/analyte-cli/internal/model"
	"github.com/pophealth/analyte-cli/internal/reference"
)

var lookupReferencePath string

var lookupCmd = &cobra.Command{
	Use:   "lookup <name-or-cas>",
	Short: "Look up an analyte in the reference",
	Long: `Resolves a query against the best available reference file. Matches
analyte name, CAS number, or NHANES variable name; near-misses are
suggested when no exact match exists.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := &reference.Loader{
			Root:               cfg.Reference.Root,
			InjectPlaceholders: cfg.Reference.InjectPlaceholders,
		}

		var (
			records []model.AnalyteRecord
			err     error
		)
		if lookupReferencePath != "" {
			records, err = loader.LoadPath(lookupReferencePath)
		} else {
			records, err = loader.Load()
		}
		if err != nil {
			return eris.Wrap(err, "lookup")
		}

		info := reference.GetAnalyteInfo(args[0], records)
		if info.Match != nil {
			m := info.Match
			fmt.Printf("%s (%s)\n", m.AnalyteName, m.VariableName)
			fmt.Printf("  CAS:     %s", m.CASRN)
			if m.CASVerifiedSource != "" {
				fmt.Printf("  [%s]", m.CASVerifiedSource)
			}
			fmt.Println()
			fmt.Printf("  Matrix:  %s\n", m.Matrix)
			fmt.Printf("  Unit:    %s\n", m.Unit)
			fmt.Printf("  Cycles:  %d-%d (%d cycles)\n", m.CycleFirst, m.CycleLast, m.CycleCount)
			if m.Classified() {
				fmt.Printf("  Class:   %s", m.ChemicalClass)
				if m.ChemicalSubclass != "" {
					fmt.Printf(" / %s", m.ChemicalSubclass)
				}
				fmt.Println()
			}
			return nil
		}

		fmt.Printf("No exact match for %q (%d analytes in reference)\n", args[0], info.Count)
		for _, s := range info.Suggestions {
			fmt.Printf("  ? %s\n", s)
		}
		return nil
	},
}

func init() {
	lookupCmd.Flags().StringVar(&lookupReferencePath, "reference", "", "explicit reference CSV (default: cascade under reference root)")
	rootCmd.AddCommand(lookupCmd)
}
