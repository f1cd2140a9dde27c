package curate

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pophealth/analyte-cli/internal/model"
)

// fakePubChem implements pubchem.Client against canned responses.
type fakePubChem struct {
	cidsByName    map[string][]int64
	synonymsByCID map[int64][]string
	failNames     map[string]bool
	nameQueries   []string
}

func (f *fakePubChem) Synonyms(ctx context.Context, casRN string) ([]string, error) {
	return nil, nil
}

func (f *fakePubChem) CIDsByName(ctx context.Context, name string) ([]int64, error) {
	f.nameQueries = append(f.nameQueries, name)
	if f.failNames[name] {
		return nil, eris.New("boom")
	}
	return f.cidsByName[name], nil
}

func (f *fakePubChem) SynonymsByCID(ctx context.Context, cid int64) ([]string, error) {
	return f.synonymsByCID[cid], nil
}

func TestVerifier_VerifiesMissingCAS(t *testing.T) {
	client := &fakePubChem{
		cidsByName:    map[string][]int64{"Atrazine": {2256}},
		synonymsByCID: map[int64][]string{2256: {"atrazine", "1912-24-9", "Gesaprim"}},
	}
	verifier := NewVerifier(client, 100)

	records := []model.AnalyteRecord{
		{VariableName: "URXATZ", AnalyteName: "Atrazine"},
		{VariableName: "LBXHCB", AnalyteName: "Hexachlorobenzene", CASRN: "118-74-1", CASVerifiedSource: model.CASSourcePubChemAPI},
	}

	stats, err := verifier.VerifyAll(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Verified)

	assert.Equal(t, "1912-24-9", records[0].CASRN)
	assert.Equal(t, model.CASSourcePubChemAPI, records[0].CASVerifiedSource)

	assert.Equal(t, "118-74-1", records[1].CASRN, "already verified records are skipped")
	assert.NotContains(t, client.nameQueries, "Hexachlorobenzene")
}

func TestVerifier_AmbiguousNotWritten(t *testing.T) {
	client := &fakePubChem{
		cidsByName:    map[string][]int64{"DDT": {3036, 3035}},
		synonymsByCID: map[int64][]string{3036: {"50-29-3"}},
	}
	verifier := NewVerifier(client, 100)

	records := []model.AnalyteRecord{{VariableName: "LBXDDT", AnalyteName: "DDT"}}
	stats, err := verifier.VerifyAll(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Ambiguous)
	assert.Empty(t, records[0].CASRN, "multi-CID matches need manual review")
	assert.Empty(t, records[0].CASVerifiedSource)
}

func TestVerifier_NameVariants(t *testing.T) {
	// Hyphenless variant resolves when the literal name does not.
	client := &fakePubChem{
		cidsByName:    map[string][]int64{"24D": {1486}},
		synonymsByCID: map[int64][]string{1486: {"94-75-7"}},
	}
	verifier := NewVerifier(client, 100)

	records := []model.AnalyteRecord{{VariableName: "URX24D", AnalyteName: "2-4D"}}
	stats, err := verifier.VerifyAll(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Verified)
	assert.Equal(t, "94-75-7", records[0].CASRN)
}

func TestVerifier_NotFound(t *testing.T) {
	verifier := NewVerifier(&fakePubChem{}, 100)
	records := []model.AnalyteRecord{{VariableName: "URXUNK", AnalyteName: "Unobtainium"}}
	stats, err := verifier.VerifyAll(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.NotFound)
	assert.Empty(t, records[0].CASRN)
}

func TestVerifier_APIError(t *testing.T) {
	client := &fakePubChem{failNames: map[string]bool{"Atrazine": true}}
	verifier := NewVerifier(client, 100)

	records := []model.AnalyteRecord{{VariableName: "URXATZ", AnalyteName: "Atrazine"}}
	stats, err := verifier.VerifyAll(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.APIErrors)
}

func TestVerifier_SkipsJunkNames(t *testing.T) {
	client := &fakePubChem{}
	verifier := NewVerifier(client, 100)

	records := []model.AnalyteRecord{
		{VariableName: "URXA", AnalyteName: "ab"},
	}
	stats, err := verifier.VerifyAll(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.NotFound)
	assert.Empty(t, client.nameQueries, "short names are never sent upstream")
}
