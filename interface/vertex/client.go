// Package vertex is a client for the ASF granule search API.
package vertex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/opensarlab/asftool/common"
	"github.com/opensarlab/asftool/service"
	"github.com/opensarlab/asftool/service/log"
)

const searchPath = "/services/search/param"

// ErrNoResults is returned when a search matches no granules, typically a
// granule name / processing level mismatch.
var ErrNoResults = errors.New("no results: granule/processing level mismatch")

// Config is the search API endpoint configuration, read from the environment.
type Config struct {
	BaseURL string        `env:"VERTEX_BASE_URL" envDefault:"https://api.daac.asf.alaska.edu"`
	Timeout time.Duration `env:"VERTEX_TIMEOUT" envDefault:"30s"`
}

// ConfigFromEnv loads the Config from VERTEX_* environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("vertex.ConfigFromEnv: %w", err)
	}
	return cfg, nil
}

// Product is a single search result record. The API returns more properties;
// only the consumed subset is mapped.
type Product struct {
	GranuleName     string `json:"granuleName"`
	ProcessingLevel string `json:"processingLevel"`
	DownloadURL     string `json:"downloadUrl"`
	FileName        string `json:"fileName"`
	FlightDirection string `json:"flightDirection"`
	Track           string `json:"track"`
	SizeMB          string `json:"sizeMB"`
}

// Client queries the ASF search API.
type Client struct {
	cfg  Config
	http *retryablehttp.Client
}

// NewClient creates a search API client.
func NewClient(cfg Config) *Client {
	cl := retryablehttp.NewClient()
	cl.Logger = nil
	cl.HTTPClient.Timeout = cfg.Timeout
	return &Client{cfg: cfg, http: cl}
}

// search POSTs the form parameters and decodes the json output format, an
// array of arrays of records.
func (c *Client) search(ctx context.Context, params neturl.Values) ([][]Product, error) {
	params.Set("output", "json")

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+searchPath, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("search.NewRequest: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search[%s]: %w", c.cfg.BaseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("search[%s]: %s: %s", c.cfg.BaseURL, resp.Status, body)
		if service.TemporaryHTTPCode(resp.StatusCode) {
			return nil, service.MakeTemporary(err)
		}
		return nil, service.MakeFatal(err)
	}

	var results [][]Product
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("search.Decode: %w", err)
	}
	return results, nil
}

// Lookup returns the first record matching the granule name and processing
// level. A miss is ErrNoResults, not an empty record.
func (c *Client) Lookup(ctx context.Context, granuleName, processingLevel string) (*Product, error) {
	params := neturl.Values{}
	params.Set("granule_list", granuleName)
	params.Set("processingLevel", processingLevel)

	results, err := c.search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("Lookup.%w", err)
	}
	if len(results) == 0 || len(results[0]) == 0 {
		return nil, ErrNoResults
	}
	return &results[0][0], nil
}

// Confirm re-queries the granule with the given flight direction and/or
// relative orbit constraints and reports whether the API confirms the match.
// The echoed granule name is checked: an echo for a different granule does
// not count as a confirmation.
func (c *Client) Confirm(ctx context.Context, granuleName string, direction common.FlightDirection, path int) (bool, error) {
	params := neturl.Values{}
	params.Set("granule_list", granuleName)
	if direction != "" {
		params.Set("flightDirection", direction.String())
	}
	if path != 0 {
		params.Set("relativeOrbit", strconv.Itoa(path))
	}

	results, err := c.search(ctx, params)
	if err != nil {
		return false, fmt.Errorf("Confirm.%w", err)
	}
	if len(results) == 0 || len(results[0]) == 0 {
		return false, nil
	}
	if echoed := results[0][0].GranuleName; echoed != granuleName {
		log.Logger(ctx).Sugar().Warnf("search API echoed %s for granule %s, not counting as a match", echoed, granuleName)
		return false, nil
	}
	return true, nil
}
