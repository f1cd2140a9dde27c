package pubchem

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynonyms_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/compound/name/3739-38-6/synonyms/JSON", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"InformationList":{"Information":[{"CID":75843,"Synonym":["3-Phenoxybenzoic acid","3-PBA","3739-38-6"]}]}}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	synonyms, err := client.Synonyms(context.Background(), "3739-38-6")

	require.NoError(t, err)
	assert.Equal(t, []string{"3-Phenoxybenzoic acid", "3-PBA", "3739-38-6"}, synonyms)
}

func TestSynonyms_NotFoundIsEmpty(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"Fault":{"Code":"PUGREST.NotFound"}}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	synonyms, err := client.Synonyms(context.Background(), "0000-00-0")

	require.NoError(t, err, "an unregistered CAS is an expected outcome, not an error")
	assert.Nil(t, synonyms)
}

func TestSynonyms_RetriesTransientFailure(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"InformationList":{"Information":[{"CID":1,"Synonym":["X"]}]}}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithMaxRetries(2))
	synonyms, err := client.Synonyms(context.Background(), "50-29-3")

	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, synonyms)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSynonyms_RetriesExhausted(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithMaxRetries(1))
	_, err := client.Synonyms(context.Background(), "50-29-3")

	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load(), "initial attempt plus one retry")
}

func TestSynonyms_NoInformation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"InformationList":{"Information":[]}}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	synonyms, err := client.Synonyms(context.Background(), "50-29-3")
	require.NoError(t, err)
	assert.Nil(t, synonyms)
}

func TestCIDsByName(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/compound/name/atrazine/cids/JSON", r.URL.Path)
		w.Write([]byte(`{"IdentifierList":{"CID":[2256]}}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	cids, err := client.CIDsByName(context.Background(), "atrazine")

	require.NoError(t, err)
	assert.Equal(t, []int64{2256}, cids)
}

func TestCIDsByName_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	cids, err := client.CIDsByName(context.Background(), "unobtainium")
	require.NoError(t, err)
	assert.Nil(t, cids)
}

func TestSynonymsByCID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/compound/cid/2256/synonyms/JSON", r.URL.Path)
		w.Write([]byte(`{"InformationList":{"Information":[{"CID":2256,"Synonym":["atrazine","1912-24-9"]}]}}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	synonyms, err := client.SynonymsByCID(context.Background(), 2256)

	require.NoError(t, err)
	assert.Equal(t, []string{"atrazine", "1912-24-9"}, synonyms)
}

func TestSynonyms_ContextCancelled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(WithBaseURL(srv.URL), WithMaxRetries(3))
	_, err := client.Synonyms(ctx, "50-29-3")
	require.Error(t, err)
}
