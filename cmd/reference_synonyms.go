package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pophealth/analyte-cli/internal/reference"
	"github.com/pophealth/analyte-cli/internal/store"
	"github.com/pophealth/analyte-cli/internal/synonym"
)

var (
	synonymsInputPath  string
	synonymsOutputPath string
)

var referenceSynonymsCmd = &cobra.Command{
	Use:   "synonyms",
	Short: "Expand PubChem synonyms for verified analytes",
	Long: `Fetches registered synonyms for every verified CAS number in the
reference and writes the synonym map used by the classify command.
Responses are cached locally so repeated runs stay cheap.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		log := zap.L().With(zap.String("command", "reference.synonyms"))

		inputPath := synonymsInputPath
		if inputPath == "" {
			inputPath = reference.MinimalPath(cfg.Reference.Root)
		}
		outputPath := synonymsOutputPath
		if outputPath == "" {
			outputPath = reference.SynonymMapPath(cfg.Reference.Root)
		}

		records, err := reference.LoadRecords(inputPath)
		if err != nil {
			return eris.Wrap(err, "reference synonyms")
		}

		var cache synonym.Cache
		if cfg.Cache.Enabled {
			sc, err := store.OpenSynonymCache(cfg.Cache.Path)
			if err != nil {
				return eris.Wrap(err, "reference synonyms")
			}
			defer sc.Close()
			cache = sc
		}

		expander := synonym.NewExpander(newPubChemClient(), cfg.PubChem.RateLimit, cache)
		result, err := expander.Expand(ctx, records)
		if err != nil {
			return eris.Wrap(err, "reference synonyms")
		}

		if err := synonym.SaveMap(outputPath, result.Entries); err != nil {
			return eris.Wrap(err, "reference synonyms")
		}

		log.Info("synonym map written",
			zap.String("path", outputPath),
			zap.Int("entries", len(result.Entries)),
		)
		return nil
	},
}

func init() {
	referenceSynonymsCmd.Flags().StringVar(&synonymsInputPath, "input", "", "input reference CSV (default <root>/minimal/analyte_reference_minimal.csv)")
	referenceSynonymsCmd.Flags().StringVar(&synonymsOutputPath, "output", "", "output synonym map CSV (default <root>/config/pubchem_synonyms.csv)")
	referenceCmd.AddCommand(referenceSynonymsCmd)
}
