// Package hyp3 is a client for the HyP3 subscription processing service.
package hyp3

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strconv"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/opensarlab/asftool/service"
)

// ErrNoSubscriptions is returned when an account has no enabled
// subscriptions, as opposed to an empty products page.
var ErrNoSubscriptions = errors.New("no subscriptions associated with this account")

// LoginError is an authentication failure. It is the only recoverable API
// failure: callers re-prompt for credentials on it.
type LoginError struct {
	Message string
}

func (e *LoginError) Error() string {
	return "login failed: " + e.Message
}

// Config is the HyP3 API endpoint configuration, read from the environment.
type Config struct {
	BaseURL string        `env:"HYP3_BASE_URL" envDefault:"https://api.hyp3.asf.alaska.edu"`
	Host    string        `env:"HYP3_CREDENTIAL_HOST" envDefault:"urs.earthdata.nasa.gov"`
	Timeout time.Duration `env:"HYP3_TIMEOUT" envDefault:"30s"`
}

// ConfigFromEnv loads the Config from HYP3_* environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("hyp3.ConfigFromEnv: %w", err)
	}
	return cfg, nil
}

// Subscription is a saved recurring processing request.
type Subscription struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// Product is a processed product attached to a subscription.
type Product struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// API is an unauthenticated HyP3 endpoint.
type API struct {
	cfg  Config
	http *retryablehttp.Client
}

// NewAPI creates a HyP3 API client.
func NewAPI(cfg Config) *API {
	cl := retryablehttp.NewClient()
	cl.Logger = nil
	cl.HTTPClient.Timeout = cfg.Timeout
	return &API{cfg: cfg, http: cl}
}

// Host is the machine name credentials are stored under.
func (a *API) Host() string {
	return a.cfg.Host
}

func (a *API) get(ctx context.Context, path string, params neturl.Values, out interface{}) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, a.cfg.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("get.NewRequest: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("get[%s]: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		body, _ := io.ReadAll(resp.Body)
		return &LoginError{Message: string(body)}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("get[%s]: %s: %s", path, resp.Status, body)
		if service.TemporaryHTTPCode(resp.StatusCode) {
			return service.MakeTemporary(err)
		}
		return service.MakeFatal(err)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("get[%s].Decode: %w", path, err)
	}
	return nil
}

// Login authenticates the user and returns a session. An authentication
// rejection is a *LoginError; any other failure is not recoverable.
func (a *API) Login(ctx context.Context, username, password string) (*Session, error) {
	params := neturl.Values{}
	params.Set("username", username)
	params.Set("password", password)

	var result struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		APIKey  string `json:"api_key"`
	}
	if err := a.get(ctx, "/login", params, &result); err != nil {
		return nil, fmt.Errorf("Login.%w", err)
	}
	if result.Status != "success" || result.APIKey == "" {
		return nil, &LoginError{Message: result.Message}
	}
	return &Session{api: a, Username: username, apiKey: result.APIKey}, nil
}

// Session is an authenticated HyP3 connection.
type Session struct {
	api      *API
	Username string
	apiKey   string
}

func (s *Session) params() neturl.Values {
	params := neturl.Values{}
	params.Set("api_key", s.apiKey)
	return params
}

// Subscriptions returns the account's subscriptions. With enabledOnly, only
// enabled ones are requested. An empty result is ErrNoSubscriptions.
func (s *Session) Subscriptions(ctx context.Context, enabledOnly bool) ([]Subscription, error) {
	params := s.params()
	if enabledOnly {
		params.Set("enabled", "true")
	}

	var result struct {
		Subscriptions []Subscription `json:"subscriptions"`
	}
	if err := s.api.get(ctx, "/get_subscriptions", params, &result); err != nil {
		return nil, fmt.Errorf("Subscriptions.%w", err)
	}
	if len(result.Subscriptions) == 0 {
		return nil, ErrNoSubscriptions
	}
	return result.Subscriptions, nil
}

// Products returns one page of the subscription's products. An empty page
// means the previous page was the last one.
func (s *Session) Products(ctx context.Context, subID, page, pageSize int) ([]Product, error) {
	params := s.params()
	params.Set("sub_id", strconv.Itoa(subID))
	params.Set("page", strconv.Itoa(page))
	params.Set("page_size", strconv.Itoa(pageSize))

	var result struct {
		Products []Product `json:"products"`
	}
	if err := s.api.get(ctx, "/get_products", params, &result); err != nil {
		return nil, fmt.Errorf("Products.%w", err)
	}
	return result.Products, nil
}
