package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/ratelimit"
	"github.com/dharmasatrya/flightfinder/pkg/logger"
)

const (
	DefaultBaseURL = "https://test.api.amadeus.com"

	tokenPath        = "/v1/security/oauth2/token"
	locationsPath    = "/v1/reference-data/locations"
	flightOffersPath = "/v2/shopping/flight-offers"

	locationsLimit = 10
	offersLimit    = 50

	opLocations    = "locations"
	opFlightOffers = "flight offers"

	defaultTimeout = 10 * time.Second
)

// maxResponseBody caps how much of an upstream body is read.
var maxResponseBody int64 = 10 << 20

type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
	HTTPClient   *http.Client
	Limiter      *ratelimit.Limiter
}

// Client talks to the Amadeus self-service API. It is safe for concurrent
// use; the token cache is shared by every request.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	clientSecret string
	tokens       *TokenCache
	refresh      singleflight.Group
	tokenTimeout time.Duration
	limiter      *ratelimit.Limiter
	logger       *logger.Logger
}

func NewClient(cfg Config, tokens *TokenCache, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	if tokens == nil {
		tokens = NewTokenCache(DefaultTokenBuffer, nil)
	}
	if log == nil {
		log = logger.Nop()
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		tokens:       tokens,
		tokenTimeout: timeout,
		limiter:      cfg.Limiter,
		logger:       log.Named("amadeus-client"),
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   *int   `json:"expires_in"`
}

// accessToken returns the cached token or performs one client-credentials
// exchange. Simultaneous misses share a single exchange, which runs detached
// from any one caller so a departing caller cannot fail the others.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if token, ok := c.tokens.Get(); ok {
		return token, nil
	}

	ch := c.refresh.DoChan("token", func() (any, error) {
		if token, ok := c.tokens.Get(); ok {
			return token, nil
		}
		exchangeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.tokenTimeout)
		defer cancel()
		return c.exchange(exchangeCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", &AuthError{Err: ctx.Err()}
	}
}

func (c *Client) exchange(ctx context.Context) (string, error) {
	if err := c.wait(ctx, "token"); err != nil {
		return "", &AuthError{Err: err}
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &AuthError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &AuthError{Err: err}
	}
	defer resp.Body.Close()

	body, err := readBody(resp.Body)
	if err != nil {
		return "", &AuthError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("Token exchange rejected",
			logger.Int("status", resp.StatusCode),
			logger.String("body", truncate(body)),
		)
		return "", &AuthError{StatusCode: resp.StatusCode, Body: truncate(body)}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", &AuthError{StatusCode: resp.StatusCode, Body: truncate(body), Err: fmt.Errorf("invalid token response: %w", err)}
	}
	if tr.AccessToken == "" {
		return "", &AuthError{StatusCode: resp.StatusCode, Body: truncate(body), Err: fmt.Errorf("token response without access_token")}
	}

	ttl := defaultTokenTTL
	if tr.ExpiresIn != nil {
		ttl = time.Duration(*tr.ExpiresIn) * time.Second
	}
	c.tokens.Set(tr.AccessToken, ttl)

	c.logger.Debug("Obtained access token", logger.Duration("ttl", ttl))
	return tr.AccessToken, nil
}

// SearchLocations looks up airports and cities matching keyword. The
// payload is returned as received.
func (c *Client) SearchLocations(ctx context.Context, keyword string) (json.RawMessage, error) {
	params := url.Values{
		"keyword":     {strings.TrimSpace(keyword)},
		"subType":     {"AIRPORT,CITY"},
		"page[limit]": {strconv.Itoa(locationsLimit)},
	}

	body, err := c.get(ctx, opLocations, locationsPath, params)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &RequestError{Op: opLocations, StatusCode: http.StatusOK, Body: truncate(body), Err: fmt.Errorf("response is not JSON")}
	}
	return json.RawMessage(body), nil
}

// SearchFlightOffers runs a one-shot offer search. Optional criteria are
// left out of the query entirely when they carry no value.
func (c *Client) SearchFlightOffers(ctx context.Context, criteria models.SearchCriteria) (*OfferSearchResponse, error) {
	body, err := c.get(ctx, opFlightOffers, flightOffersPath, OfferQuery(criteria))
	if err != nil {
		return nil, err
	}

	var resp OfferSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("Flight offers response is not JSON",
			logger.String("body", truncate(body)),
		)
		return nil, &RequestError{Op: opFlightOffers, StatusCode: http.StatusOK, Body: truncate(body), Err: err}
	}
	return &resp, nil
}

// OfferQuery builds the flight-offers query string for criteria.
func OfferQuery(criteria models.SearchCriteria) url.Values {
	c := criteria.Normalize()

	params := url.Values{
		"originLocationCode":      {c.Origin},
		"destinationLocationCode": {c.Destination},
		"departureDate":           {c.DepartureDate},
		"adults":                  {strconv.Itoa(c.Adults)},
		"max":                     {strconv.Itoa(offersLimit)},
	}
	if c.ReturnDate != "" {
		params.Set("returnDate", c.ReturnDate)
	}
	if c.Children > 0 {
		params.Set("children", strconv.Itoa(c.Children))
	}
	// The GET endpoint only knows a combined infant count.
	if infants := c.Infants(); infants > 0 {
		params.Set("infants", strconv.Itoa(infants))
	}
	if c.CabinClass != "" {
		params.Set("travelClass", c.CabinClass)
	}
	return params
}

func (c *Client) get(ctx context.Context, op, path string, params url.Values) ([]byte, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.wait(ctx, op); err != nil {
		return nil, &RequestError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &RequestError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := readBody(resp.Body)
	if err != nil {
		return nil, &RequestError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	c.logger.Debug("Amadeus request finished",
		logger.String("op", op),
		logger.Int("status", resp.StatusCode),
		logger.Duration("took", time.Since(start)),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		c.tokens.Invalidate(token)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("Amadeus request failed",
			logger.String("op", op),
			logger.Int("status", resp.StatusCode),
			logger.String("body", truncate(body)),
		)
		return nil, &RequestError{Op: op, StatusCode: resp.StatusCode, Body: truncate(body)}
	}
	return body, nil
}

func readBody(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxResponseBody+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > maxResponseBody {
		return nil, fmt.Errorf("body exceeds %d bytes", maxResponseBody)
	}
	return body, nil
}

func (c *Client) wait(ctx context.Context, key string) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx, key)
}
