package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pophealth/analyte-cli/internal/curate"
	"github.com/pophealth/analyte-cli/internal/reference"
)

var (
	buildDiscoveryPath   string
	buildCuratedPath     string
	buildOutputPath      string
	buildKeepNonChemical bool
)

var referenceBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the minimal reference from discovery data",
	Long: `Aggregates NHANES variable discovery rows into one record per variable
and attaches PubChem-verified CAS numbers from the curated table.

Only directly observable fields are written: analyte name, verified CAS,
matrix, unit, and cycle availability. No classifications or inferred
relationships.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		log := zap.L().With(zap.String("command", "reference.build"))

		discoveryPath := buildDiscoveryPath
		if discoveryPath == "" {
			discoveryPath = reference.DiscoveryPath(cfg.Reference.Root)
		}
		curatedPath := buildCuratedPath
		if curatedPath == "" {
			curatedPath = reference.CuratedCASPath(cfg.Reference.Root)
		}
		outputPath := buildOutputPath
		if outputPath == "" {
			outputPath = reference.MinimalPath(cfg.Reference.Root)
		}

		rows, err := curate.LoadDiscoveryRows(discoveryPath)
		if err != nil {
			return eris.Wrap(err, "reference build")
		}
		if !buildKeepNonChemical {
			rows = curate.FilterChemicalVariables(rows)
		}
		if len(rows) == 0 {
			return eris.New("reference build: no chemical variables remain after filtering")
		}

		curated, err := curate.LoadCuratedCAS(curatedPath)
		if err != nil {
			return eris.Wrap(err, "reference build")
		}

		records := curate.BuildMinimalReference(rows, curated)
		if err := reference.SaveRecords(outputPath, records, false); err != nil {
			return eris.Wrap(err, "reference build")
		}

		log.Info("minimal reference written",
			zap.String("path", outputPath),
			zap.Int("records", len(records)),
		)
		return nil
	},
}

func init() {
	referenceBuildCmd.Flags().StringVar(&buildDiscoveryPath, "discovery", "", "discovery CSV (default <root>/discovery/nhanes_analyte_variables_discovered.csv)")
	referenceBuildCmd.Flags().StringVar(&buildCuratedPath, "curated", "", "curated CAS CSV (default <root>/legacy/analyte_reference_curated.csv)")
	referenceBuildCmd.Flags().StringVar(&buildOutputPath, "output", "", "output CSV (default <root>/minimal/analyte_reference_minimal.csv)")
	referenceBuildCmd.Flags().BoolVar(&buildKeepNonChemical, "include-non-chemicals", false, "keep weights, comment codes and other non-chemical variables")
	referenceCmd.AddCommand(referenceBuildCmd)
}
