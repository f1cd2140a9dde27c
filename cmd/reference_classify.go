package main

import (
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pophealth/analyte-cli/internal/classify"
	"github.com/pophealth/analyte-cli/internal/reference"
	"github.com/pophealth/analyte-cli/internal/synonym"
)

var (
	classifyInputPath   string
	classifySynonymPath string
	classifyCDCPath     string
	classifyOutputPath  string
	classifyXLSXPath    string
)

var referenceClassifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Match CDC classifications and log evidence",
	Long: `Two passes over the minimal reference:

1. CAS enrichment: copies authoritative CDC Fourth Report class labels
   onto records whose CAS number appears in the CDC table, writing the
   classified reference. Records without a CAS match keep empty
   classification fields.
2. Evidence logging: for every analyte still unclassified, finds name
   and synonym based candidates against the CDC list and writes a dated
   evidence file for manual review. Candidates are never written into
   the reference.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		log := zap.L().With(zap.String("command", "reference.classify"))

		inputPath := classifyInputPath
		if inputPath == "" {
			inputPath = reference.MinimalPath(cfg.Reference.Root)
		}
		outputPath := classifyOutputPath
		if outputPath == "" {
			outputPath = reference.ClassifiedPath(cfg.Reference.Root)
		}
		cdcPath := classifyCDCPath
		if cdcPath == "" {
			cdcPath = reference.CDCClassesPath(cfg.Reference.Root)
		}

		records, err := reference.LoadRecords(inputPath)
		if err != nil {
			return eris.Wrap(err, "reference classify")
		}

		// Pass 1: CAS-keyed enrichment when the CDC table is present.
		enriched := records
		if _, err := os.Stat(cdcPath); err == nil {
			lookup, err := classify.LoadCASClassifications(cdcPath)
			if err != nil {
				return eris.Wrap(err, "reference classify")
			}
			var matched int
			enriched, matched = classify.EnrichByCAS(records, lookup)
			if err := reference.SaveRecords(outputPath, enriched, true); err != nil {
				return eris.Wrap(err, "reference classify")
			}
			log.Info("classified reference written",
				zap.String("path", outputPath),
				zap.Int("matched", matched),
			)
			for class, count := range classify.ClassDistribution(enriched) {
				log.Info("class distribution", zap.String("chemical_class", class), zap.Int("count", count))
			}
		} else {
			log.Warn("CDC CAS table not found, skipping enrichment pass", zap.String("path", cdcPath))
		}

		// Pass 2: evidence logging for the remainder.
		cdcList := classify.CDCFourthReport
		if classifyXLSXPath != "" {
			cdcList, err = classify.LoadClassificationsXLSX(classifyXLSXPath)
			if err != nil {
				return eris.Wrap(err, "reference classify")
			}
		}

		synIndex := map[string]map[string]bool{}
		synonymPath := classifySynonymPath
		if synonymPath == "" {
			synonymPath = reference.SynonymMapPath(cfg.Reference.Root)
		}
		if entries, err := synonym.LoadMap(synonymPath); err != nil {
			log.Warn("no synonym map, falling back to fuzzy matching only", zap.String("path", synonymPath), zap.Error(err))
		} else {
			synIndex = synonym.BuildIndex(entries)
		}

		matcher := classify.NewMatcher(cdcList, synIndex, cfg.Classify.FuzzyThreshold)
		logger := classify.NewEvidenceLogger(reference.EvidenceDir(cfg.Reference.Root), clockwork.NewRealClock())

		unclassified := 0
		for _, rec := range enriched {
			if !rec.Classified() {
				unclassified++
			}
		}
		if unclassified == 0 {
			log.Info("all analytes classified, no evidence to log")
			return nil
		}

		summary, err := logger.Log(enriched, matcher)
		if err != nil {
			return eris.Wrap(err, "reference classify")
		}
		log.Info("evidence file ready for review",
			zap.String("path", logger.Path()),
			zap.Int("unclassified", summary.Total),
			zap.Int("with_candidates", summary.WithCandidates),
		)
		return nil
	},
}

func init() {
	referenceClassifyCmd.Flags().StringVar(&classifyInputPath, "input", "", "input reference CSV (default <root>/minimal/analyte_reference_minimal.csv)")
	referenceClassifyCmd.Flags().StringVar(&classifySynonymPath, "synonyms", "", "synonym map CSV (default <root>/config/pubchem_synonyms.csv)")
	referenceClassifyCmd.Flags().StringVar(&classifyCDCPath, "cdc", "", "CAS-keyed CDC classification CSV (default <root>/raw/cdc/fourth_report_analyte_classes.csv)")
	referenceClassifyCmd.Flags().StringVar(&classifyXLSXPath, "cdc-xlsx", "", "name-keyed CDC workbook overriding the built-in list")
	referenceClassifyCmd.Flags().StringVar(&classifyOutputPath, "output", "", "classified output CSV (default <root>/classified/analyte_reference_classified.csv)")
	referenceCmd.AddCommand(referenceClassifyCmd)
}
