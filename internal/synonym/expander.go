// Package synonym builds the PubChem synonym map for verified analytes
// and the normalized-synonym index consumed by the classification
// matcher.
package synonym

import (
	"context"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pophealth/analyte-cli/internal/model"
	"github.com/pophealth/analyte-cli/internal/normalize"
	"github.com/pophealth/analyte-cli/pkg/pubchem"
)

// Cache is the optional lookup cache consulted before calling PubChem.
type Cache interface {
	Get(ctx context.Context, casRN string) ([]string, bool, error)
	Put(ctx context.Context, casRN string, synonyms []string) error
}

// Expander fetches registered synonyms for every verified CAS number
// in the reference, respecting the upstream rate limit.
type Expander struct {
	client  pubchem.Client
	limiter *rate.Limiter
	cache   Cache // may be nil
}

// NewExpander creates an Expander. ratePerSec bounds outbound request
// spacing; cache may be nil to disable local caching.
func NewExpander(client pubchem.Client, ratePerSec float64, cache Cache) *Expander {
	if ratePerSec <= 0 {
		ratePerSec = 3.3
	}
	return &Expander{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), 1),
		cache:   cache,
	}
}

// Result summarizes one expansion run.
type Result struct {
	Queried      int
	WithSynonyms int
	NotFound     int
	Errors       int
	Entries      []model.SynonymEntry
}

// Expand queries synonyms for every unique verified CAS number among
// records and returns the flattened synonym entries. Fetch failures
// degrade to an empty synonym set for that CAS; the batch continues.
func (e *Expander) Expand(ctx context.Context, records []model.AnalyteRecord) (*Result, error) {
	log := zap.L().With(zap.String("component", "synonym_expander"))

	// Unique verified CAS numbers, skipping placeholder values.
	casToAnalyte := make(map[string]string)
	for _, rec := range records {
		cas := strings.TrimSpace(rec.CASRN)
		if cas == "" || !model.ValidCASRN(cas) {
			continue
		}
		if _, seen := casToAnalyte[cas]; !seen {
			casToAnalyte[cas] = rec.AnalyteName
		}
	}

	order := make([]string, 0, len(casToAnalyte))
	for cas := range casToAnalyte {
		order = append(order, cas)
	}
	sort.Strings(order)

	log.Info("expanding synonyms", zap.Int("cas_count", len(order)))

	result := &Result{}
	for i, cas := range order {
		if ctx.Err() != nil {
			return result, eris.Wrap(ctx.Err(), "synonym: expand cancelled")
		}

		synonyms, err := e.fetch(ctx, cas)
		result.Queried++
		switch {
		case err != nil:
			result.Errors++
			log.Warn("synonym fetch failed", zap.String("cas_rn", cas), zap.Error(err))
		case len(synonyms) == 0:
			result.NotFound++
		default:
			result.WithSynonyms++
		}

		analyte := casToAnalyte[cas]
		for _, syn := range synonyms {
			result.Entries = append(result.Entries, model.SynonymEntry{
				CASRN:             cas,
				AnalyteName:       analyte,
				Synonym:           syn,
				SynonymNormalized: normalize.ForClassification(syn),
			})
		}

		if (i+1)%25 == 0 {
			log.Info("progress", zap.Int("queried", i+1), zap.Int("total", len(order)))
		}
	}

	log.Info("synonym expansion complete",
		zap.Int("queried", result.Queried),
		zap.Int("with_synonyms", result.WithSynonyms),
		zap.Int("not_found", result.NotFound),
		zap.Int("errors", result.Errors),
		zap.Int("entries", len(result.Entries)),
	)
	return result, nil
}

// fetch consults the cache, then PubChem under the rate limiter.
func (e *Expander) fetch(ctx context.Context, cas string) ([]string, error) {
	if e.cache != nil {
		if synonyms, ok, err := e.cache.Get(ctx, cas); err != nil {
			zap.L().Warn("synonym cache read failed", zap.String("cas_rn", cas), zap.Error(err))
		} else if ok {
			return synonyms, nil
		}
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "synonym: rate limiter")
	}

	synonyms, err := e.client.Synonyms(ctx, cas)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if err := e.cache.Put(ctx, cas, synonyms); err != nil {
			zap.L().Warn("synonym cache write failed", zap.String("cas_rn", cas), zap.Error(err))
		}
	}
	return synonyms, nil
}
