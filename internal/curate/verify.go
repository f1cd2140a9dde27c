package curate

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pophealth/analyte-cli/internal/model"
	"github.com/pophealth/analyte-cli/pkg/pubchem"
)

// Verification statuses reported per analyte.
const (
	VerifyStatusVerified  = "pubchem_api"
	VerifyStatusAmbiguous = "ambiguous"
	VerifyStatusNotFound  = "not_found"
	VerifyStatusAPIError  = "api_error"
)

// Verifier fills in missing CAS numbers by querying PubChem by
// chemical name.
type Verifier struct {
	client  pubchem.Client
	limiter *rate.Limiter
}

// NewVerifier creates a Verifier with the given request spacing.
func NewVerifier(client pubchem.Client, ratePerSec float64) *Verifier {
	if ratePerSec <= 0 {
		ratePerSec = 2
	}
	return &Verifier{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), 1),
	}
}

// VerifyStats counts outcomes of one verification run.
type VerifyStats struct {
	Verified  int
	Ambiguous int
	NotFound  int
	APIErrors int
}

// VerifyAll resolves a CAS number for every record that lacks one,
// updating records in place. Ambiguous name matches (multiple CIDs)
// are reported but not written; only single-CID resolutions earn the
// pubchem_api provenance tag.
func (v *Verifier) VerifyAll(ctx context.Context, records []model.AnalyteRecord) (*VerifyStats, error) {
	log := zap.L().With(zap.String("component", "cas_verifier"))

	unverified := 0
	for i := range records {
		if strings.TrimSpace(records[i].CASRN) == "" {
			unverified++
		}
	}
	log.Info("verifying CAS numbers",
		zap.Int("total", len(records)),
		zap.Int("unverified", unverified),
	)
	if unverified == 0 {
		return &VerifyStats{}, nil
	}

	stats := &VerifyStats{}
	processed := 0
	for i := range records {
		if strings.TrimSpace(records[i].CASRN) != "" {
			continue
		}
		if ctx.Err() != nil {
			return stats, eris.Wrap(ctx.Err(), "curate: verification cancelled")
		}
		processed++

		cas, cid, status := v.lookupCAS(ctx, records[i].AnalyteName)
		fields := []zap.Field{
			zap.Int("n", processed),
			zap.Int("of", unverified),
			zap.String("analyte_name", records[i].AnalyteName),
		}
		switch status {
		case VerifyStatusVerified:
			records[i].CASRN = cas
			records[i].CASVerifiedSource = model.CASSourcePubChemAPI
			stats.Verified++
			log.Info("verified", append(fields, zap.String("cas_rn", cas))...)
		case VerifyStatusAmbiguous:
			stats.Ambiguous++
			log.Warn("ambiguous match, manual review needed", append(fields, zap.Int64("cid", cid))...)
		case VerifyStatusNotFound:
			stats.NotFound++
			log.Info("not found", fields...)
		default:
			stats.APIErrors++
			log.Warn("api error", fields...)
		}
	}

	log.Info("CAS verification complete",
		zap.Int("verified", stats.Verified),
		zap.Int("ambiguous", stats.Ambiguous),
		zap.Int("not_found", stats.NotFound),
		zap.Int("api_errors", stats.APIErrors),
	)
	return stats, nil
}

// lookupCAS tries name variants against PubChem and extracts a CAS
// number from the first CID's synonym list.
func (v *Verifier) lookupCAS(ctx context.Context, analyteName string) (cas string, cid int64, status string) {
	name := strings.TrimSpace(analyteName)

	// Skip truncated descriptions and junk names.
	if len(name) < 3 || strings.Contains(strings.ToLower(name), "usted") {
		return "", 0, VerifyStatusNotFound
	}
	name = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(name, "Lipid Adjusted", ""), "Lipid Adj", ""))

	variants := []string{
		name,
		strings.ReplaceAll(name, "-", ""),
		strings.ReplaceAll(name, ",", ""),
	}

	sawError := false
	for _, variant := range variants {
		if len(variant) < 3 {
			continue
		}
		if err := v.limiter.Wait(ctx); err != nil {
			return "", 0, VerifyStatusAPIError
		}

		cids, err := v.client.CIDsByName(ctx, variant)
		if err != nil {
			sawError = true
			continue
		}
		if len(cids) == 0 {
			continue
		}

		if err := v.limiter.Wait(ctx); err != nil {
			return "", 0, VerifyStatusAPIError
		}
		synonyms, err := v.client.SynonymsByCID(ctx, cids[0])
		if err != nil {
			sawError = true
			continue
		}
		for _, syn := range synonyms {
			if model.ValidCASRN(syn) {
				if len(cids) > 1 {
					return syn, cids[0], VerifyStatusAmbiguous
				}
				return syn, cids[0], VerifyStatusVerified
			}
		}
	}

	if sawError {
		return "", 0, VerifyStatusAPIError
	}
	return "", 0, VerifyStatusNotFound
}
