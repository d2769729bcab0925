package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"hashtag-feed-platform/internal/config"
	"hashtag-feed-platform/internal/logger"
)

const defaultTokenTTL = 30 * time.Minute

// Client talks to the LinkedIn REST API. All calls are authenticated with
// an app-level token (service token or client-credentials exchange) and
// pass through a circuit breaker plus a rate limiter. A single failed call
// is never retried; resilience comes from the aggregation loop above.
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
	tokens     *TokenCache
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
	baseURL    string
	tokenURL   string
}

func NewClient(cfg *config.Config, tokens *TokenCache) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "LinkedInAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	})

	// Keep well under LinkedIn's application throttles.
	limiter := rate.NewLimiter(rate.Limit(5), 10)

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.UpstreamTimeout,
		},
		tokens:   tokens,
		breaker:  breaker,
		limiter:  limiter,
		baseURL:  cfg.LinkedInAPIBaseURL,
		tokenURL: cfg.LinkedInTokenURL,
	}
}

// SetBaseURL overrides the API base URL (used for testing).
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// SetTokenURL overrides the OAuth token endpoint (used for testing).
func (c *Client) SetTokenURL(u string) {
	c.tokenURL = u
}

// AccessToken returns a usable bearer token: a pre-provisioned service
// token when available, otherwise a cached client-credentials token.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	if c.cfg.LinkedInServiceToken != "" {
		return c.cfg.LinkedInServiceToken, nil
	}
	return c.tokens.Get(ctx, c.exchangeClientCredentials)
}

func (c *Client) exchangeClientCredentials(ctx context.Context) (string, time.Duration, error) {
	if c.cfg.LinkedInClientID == "" || c.cfg.LinkedInClientSecret == "" {
		return "", 0, ErrMissingCredentials
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.cfg.LinkedInClientID},
		"client_secret": {c.cfg.LinkedInClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", 0, &UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", 0, fmt.Errorf("failed to parse token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", 0, fmt.Errorf("token response contained no access_token")
	}

	ttl := time.Duration(tokenResp.ExpiresIn) * time.Second
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return tokenResp.AccessToken, ttl, nil
}

// FetchPage runs one keyword-search request against the posts endpoint.
// An empty slice on a nil error means the upstream has no more results.
func (c *Client) FetchPage(ctx context.Context, hashtag string, start, count int) ([]RawPost, error) {
	q := url.Values{
		"q":        {"search"},
		"keywords": {hashtag},
		"start":    {strconv.Itoa(start)},
		"count":    {strconv.Itoa(count)},
	}
	endpoint := fmt.Sprintf("%s/rest/posts?%s", c.baseURL, q.Encode())

	body, _, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var page postsResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to parse posts response: %w", err)
	}
	return page.Elements, nil
}

// LikePost creates a LIKE reaction on the given post URN, acting as the
// configured owner account.
func (c *Client) LikePost(ctx context.Context, postURN string) error {
	endpoint := fmt.Sprintf("%s/rest/reactions?actor=%s", c.baseURL, url.QueryEscape(c.cfg.OwnerURN))
	payload := reactionRequest{
		Root:         postURN,
		ReactionType: "LIKE",
	}
	_, _, err := c.doRequest(ctx, http.MethodPost, endpoint, payload)
	return err
}

// CommentOnPost adds a comment to the given post URN.
func (c *Client) CommentOnPost(ctx context.Context, postURN, text string) error {
	endpoint := fmt.Sprintf("%s/rest/socialActions/%s/comments", c.baseURL, url.PathEscape(postURN))
	payload := commentRequest{
		Actor:   c.cfg.OwnerURN,
		Message: TextBlock{Text: text},
	}
	_, _, err := c.doRequest(ctx, http.MethodPost, endpoint, payload)
	return err
}

// Repost reshares the given post URN with optional commentary.
func (c *Client) Repost(ctx context.Context, postURN, commentary string) error {
	payload := createPostRequest{
		Author:         c.cfg.OwnerURN,
		Commentary:     commentary,
		Visibility:     "PUBLIC",
		LifecycleState: "PUBLISHED",
		Distribution: postDistribution{
			FeedDistribution:               "MAIN_FEED",
			TargetEntities:                 []string{},
			ThirdPartyDistributionChannels: []string{},
		},
		ReshareContext: &reshareContext{Parent: postURN},
	}
	_, _, err := c.doRequest(ctx, http.MethodPost, c.baseURL+"/rest/posts", payload)
	return err
}

// CreatePost publishes a new post as the owner account and returns the
// created post id from the x-restli-id response header.
func (c *Client) CreatePost(ctx context.Context, commentary string) (string, error) {
	payload := createPostRequest{
		Author:         c.cfg.OwnerURN,
		Commentary:     commentary,
		Visibility:     "PUBLIC",
		LifecycleState: "PUBLISHED",
		Distribution: postDistribution{
			FeedDistribution:               "MAIN_FEED",
			TargetEntities:                 []string{},
			ThirdPartyDistributionChannels: []string{},
		},
	}
	_, header, err := c.doRequest(ctx, http.MethodPost, c.baseURL+"/rest/posts", payload)
	if err != nil {
		return "", err
	}
	return header.Get("x-restli-id"), nil
}

// doRequest performs one authenticated API call through the rate limiter
// and circuit breaker. Non-2xx responses become *UpstreamError.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, payload any) ([]byte, http.Header, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}

	type result struct {
		body   []byte
		header http.Header
	}

	res, err := c.breaker.Execute(func() (any, error) {
		var reqBody io.Reader
		if payload != nil {
			data, err := json.Marshal(payload)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal request payload: %w", err)
			}
			reqBody = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("LinkedIn-Version", c.cfg.LinkedInVersion)
		req.Header.Set("X-Restli-Protocol-Version", "2.0.0")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &UpstreamError{Status: resp.StatusCode, Body: string(body)}
		}
		return result{body: body, header: resp.Header}, nil
	})
	if err != nil {
		return nil, nil, err
	}

	r := res.(result)
	return r.body, r.header, nil
}

// Request payload types

type reactionRequest struct {
	Root         string `json:"root"`
	ReactionType string `json:"reactionType"`
}

type commentRequest struct {
	Actor   string    `json:"actor"`
	Message TextBlock `json:"message"`
}

type createPostRequest struct {
	Author                    string           `json:"author"`
	Commentary                string           `json:"commentary"`
	Visibility                string           `json:"visibility"`
	Distribution              postDistribution `json:"distribution"`
	LifecycleState            string           `json:"lifecycleState"`
	IsReshareDisabledByAuthor bool             `json:"isReshareDisabledByAuthor"`
	ReshareContext            *reshareContext  `json:"reshareContext,omitempty"`
}

type postDistribution struct {
	FeedDistribution               string   `json:"feedDistribution"`
	TargetEntities                 []string `json:"targetEntities"`
	ThirdPartyDistributionChannels []string `json:"thirdPartyDistributionChannels"`
}

type reshareContext struct {
	Parent string `json:"parent"`
}
