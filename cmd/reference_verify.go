package main

import (
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pophealth/analyte-cli/internal/curate"
	"github.com/pophealth/analyte-cli/internal/reference"
	"github.com/pophealth/analyte-cli/pkg/pubchem"
)

var (
	verifyInputPath  string
	verifyOutputPath string
)

var referenceVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify CAS numbers against PubChem",
	Long: `Queries PubChem by chemical name for every analyte lacking a CAS number
and writes verified numbers back to the reference with pubchem_api
provenance. Ambiguous multi-compound matches are reported for manual
review and never written.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		log := zap.L().With(zap.String("command", "reference.verify"))

		inputPath := verifyInputPath
		if inputPath == "" {
			inputPath = reference.MinimalPath(cfg.Reference.Root)
		}
		outputPath := verifyOutputPath
		if outputPath == "" {
			outputPath = inputPath
		}

		records, err := reference.LoadRecords(inputPath)
		if err != nil {
			return eris.Wrap(err, "reference verify")
		}

		client := newPubChemClient()
		verifier := curate.NewVerifier(client, cfg.PubChem.RateLimit)

		stats, err := verifier.VerifyAll(ctx, records)
		if err != nil {
			return eris.Wrap(err, "reference verify")
		}

		if err := reference.SaveRecords(outputPath, records, false); err != nil {
			return eris.Wrap(err, "reference verify")
		}

		log.Info("reference updated",
			zap.String("path", outputPath),
			zap.Int("verified", stats.Verified),
			zap.Int("ambiguous", stats.Ambiguous),
			zap.Int("not_found", stats.NotFound),
			zap.Int("api_errors", stats.APIErrors),
		)
		return nil
	},
}

// newPubChemClient builds a client from the loaded config.
func newPubChemClient() pubchem.Client {
	return pubchem.NewClient(
		pubchem.WithBaseURL(cfg.PubChem.BaseURL),
		pubchem.WithMaxRetries(cfg.PubChem.MaxRetries),
		pubchem.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.PubChem.TimeoutSecs) * time.Second,
		}),
	)
}

func init() {
	referenceVerifyCmd.Flags().StringVar(&verifyInputPath, "input", "", "input reference CSV (default <root>/minimal/analyte_reference_minimal.csv)")
	referenceVerifyCmd.Flags().StringVar(&verifyOutputPath, "output", "", "output CSV (default: overwrite input)")
	referenceCmd.AddCommand(referenceVerifyCmd)
}
