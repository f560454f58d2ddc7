// Package pubchem looks up compound identifiers on PubChem, either through the
// PUG REST API or by scraping the NCBI compound search page.
package pubchem

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/giygas/coshh-api/logging"
	"golang.org/x/text/encoding/charmap"
)

const maxResponseSize = 10 * 1024 * 1024

var ErrInvalidResponse = errors.New("invalid upstream response")

// UpstreamError is returned when PubChem answers with a non-2xx status
type UpstreamError struct {
	URL        string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("PubChem API responded with status %d", e.StatusCode)
}

// Client queries PubChem. It is safe for concurrent use.
type Client struct {
	pugBaseURL  string
	ncbiBaseURL string
	httpClient  *http.Client
}

// NewClient creates a client. Base URLs have no trailing slash, e.g.
// https://pubchem.ncbi.nlm.nih.gov and https://www.ncbi.nlm.nih.gov.
func NewClient(pugBaseURL, ncbiBaseURL string, timeout time.Duration) *Client {
	return &Client{
		pugBaseURL:  strings.TrimRight(pugBaseURL, "/"),
		ncbiBaseURL: strings.TrimRight(ncbiBaseURL, "/"),
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// cidsURL builds the PUG REST compound-by-name CID lookup URL
func (c *Client) cidsURL(chemical string, partial bool) string {
	u := fmt.Sprintf("%s/rest/pug/compound/name/%s/cids/JSON", c.pugBaseURL, url.PathEscape(chemical))
	if partial {
		u += "?name_type=word"
	}
	return u
}

// searchURL builds the NCBI compound search URL: lowercase name, spaces as +
func (c *Client) searchURL(chemical string) string {
	return fmt.Sprintf("%s/pccompound/?term=%s", c.ncbiBaseURL, url.QueryEscape(strings.ToLower(chemical)))
}

// ExactSearch returns the PubChem CID payload for an exact name match
func (c *Client) ExactSearch(ctx context.Context, chemical string) (json.RawMessage, error) {
	return c.fetchJSON(ctx, c.cidsURL(chemical, false))
}

// PartialSearch returns the PubChem CID payload for compounds whose names
// contain every word of chemical
func (c *Client) PartialSearch(ctx context.Context, chemical string) (json.RawMessage, error) {
	return c.fetchJSON(ctx, c.cidsURL(chemical, true))
}

// GeneralSearch scrapes the NCBI compound search results page
func (c *Client) GeneralSearch(ctx context.Context, chemical string) ([]GeneralResult, error) {
	body, err := c.get(ctx, c.searchURL(chemical), "text/html")
	if err != nil {
		return nil, err
	}
	return parseSearchPage(decodeBody(body))
}

func (c *Client) fetchJSON(ctx context.Context, target string) (json.RawMessage, error) {
	body, err := c.get(ctx, target, "application/json")
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: body is not JSON", ErrInvalidResponse)
	}
	return json.RawMessage(body), nil
}

func (c *Client) get(ctx context.Context, target, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", target, err)
	}
	req.Header.Set("Accept", accept)

	start := time.Now()
	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	defer func() {
		if err := response.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "error", err)
		}
	}()

	logging.Debug("Upstream request",
		"url", target,
		"status_code", response.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, &UpstreamError{URL: target, StatusCode: response.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// decodeBody returns body as UTF-8, treating anything that is not valid
// UTF-8 as ISO-8859-1
func decodeBody(body []byte) io.Reader {
	if utf8.Valid(body) {
		return bytes.NewReader(body)
	}
	return charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(body))
}
