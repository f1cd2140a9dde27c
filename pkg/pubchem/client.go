// Package pubchem provides a client for the PubChem PUG REST API:
// synonym retrieval by CAS Registry Number and compound lookup by name.
package pubchem

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Client defines the PubChem operations used by the curation pipeline.
type Client interface {
	// Synonyms returns all registered synonyms for a CAS Registry
	// Number. A compound absent from PubChem yields an empty list and a
	// nil error; many legitimate CAS numbers lack registration.
	Synonyms(ctx context.Context, casRN string) ([]string, error)
	// CIDsByName searches compounds by chemical name and returns the
	// matching compound IDs, most relevant first. Absent names yield an
	// empty list and a nil error.
	CIDsByName(ctx context.Context, name string) ([]int64, error)
	// SynonymsByCID returns all registered synonyms for a compound ID.
	SynonymsByCID(ctx context.Context, cid int64) ([]string, error)
}

// Option configures the PubChem client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithMaxRetries sets the number of retries after the first attempt.
func WithMaxRetries(n int) Option {
	return func(c *httpClient) {
		c.maxRetries = n
	}
}

type httpClient struct {
	baseURL    string
	http       *http.Client
	maxRetries int
}

// NewClient creates a PubChem PUG REST client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:    "https://pubchem.ncbi.nlm.nih.gov/rest/pug",
		maxRetries: 2,
		http: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// synonymResponse mirrors the PUG REST synonym payload.
type synonymResponse struct {
	InformationList struct {
		Information []struct {
			CID     int64    `json:"CID"`
			Synonym []string `json:"Synonym"`
		} `json:"Information"`
	} `json:"InformationList"`
}

// cidResponse mirrors the PUG REST compound-search payload.
type cidResponse struct {
	IdentifierList struct {
		CID []int64 `json:"CID"`
	} `json:"IdentifierList"`
}

// retryableStatusCode returns true if the HTTP status code should
// trigger a retry.
func retryableStatusCode(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusInternalServerError ||
		code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable ||
		code == http.StatusGatewayTimeout
}

// retryDo executes a GET with exponential backoff retries on transient
// failures. Backoff starts at 1s and doubles per attempt. Returns the
// response body and status code; a 404 is returned to the caller, not
// retried.
func (c *httpClient) retryDo(ctx context.Context, reqURL string) ([]byte, int, error) {
	backoff := 1 * time.Second

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, 0, eris.Wrap(err, "pubchem: create request")
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			if attempt < c.maxRetries {
				select {
				case <-ctx.Done():
					return nil, 0, ctx.Err()
				case <-time.After(backoff):
				}
				backoff *= 2
				continue
			}
			return nil, 0, eris.Wrap(lastErr, "pubchem: request failed")
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, resp.StatusCode, eris.Wrap(readErr, "pubchem: read response body")
		}

		if retryableStatusCode(resp.StatusCode) && attempt < c.maxRetries {
			lastErr = eris.Errorf("pubchem: status %d: %s", resp.StatusCode, string(body))
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			continue
		}

		return body, resp.StatusCode, nil
	}

	return nil, 0, eris.Wrap(lastErr, "pubchem: request failed")
}

func (c *httpClient) Synonyms(ctx context.Context, casRN string) ([]string, error) {
	reqURL := fmt.Sprintf("%s/compound/name/%s/synonyms/JSON", c.baseURL, url.PathEscape(casRN))

	body, statusCode, err := c.retryDo(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	// A CAS number PubChem has never registered is an expected terminal
	// state, not a failure.
	if statusCode == http.StatusNotFound {
		zap.L().Debug("CAS not registered in PubChem", zap.String("cas_rn", casRN))
		return nil, nil
	}
	if statusCode != http.StatusOK {
		return nil, eris.Errorf("pubchem: synonyms for %s: unexpected status %d: %s", casRN, statusCode, string(body))
	}

	var result synonymResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrapf(err, "pubchem: unmarshal synonyms for %s", casRN)
	}

	if len(result.InformationList.Information) == 0 {
		return nil, nil
	}
	return result.InformationList.Information[0].Synonym, nil
}

func (c *httpClient) CIDsByName(ctx context.Context, name string) ([]int64, error) {
	reqURL := fmt.Sprintf("%s/compound/name/%s/cids/JSON", c.baseURL, url.PathEscape(name))

	body, statusCode, err := c.retryDo(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	if statusCode == http.StatusNotFound {
		return nil, nil
	}
	if statusCode != http.StatusOK {
		return nil, eris.Errorf("pubchem: cids for %q: unexpected status %d: %s", name, statusCode, string(body))
	}

	var result cidResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrapf(err, "pubchem: unmarshal cids for %q", name)
	}
	return result.IdentifierList.CID, nil
}

func (c *httpClient) SynonymsByCID(ctx context.Context, cid int64) ([]string, error) {
	reqURL := fmt.Sprintf("%s/compound/cid/%d/synonyms/JSON", c.baseURL, cid)

	body, statusCode, err := c.retryDo(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	if statusCode == http.StatusNotFound {
		return nil, nil
	}
	if statusCode != http.StatusOK {
		return nil, eris.Errorf("pubchem: synonyms for cid %d: unexpected status %d: %s", cid, statusCode, string(body))
	}

	var result synonymResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrapf(err, "pubchem: unmarshal synonyms for cid %d", cid)
	}

	if len(result.InformationList.Information) == 0 {
		return nil, nil
	}
	return result.InformationList.Information[0].Synonym, nil
}
