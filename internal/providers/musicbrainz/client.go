package musicbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"tunesort/internal/metadata"
	"tunesort/internal/shared"
)

// 1. Constants and types
const (
	defaultBaseURL      = "https://musicbrainz.org/ws/2/"
	defaultUserAgent    = "tunesort/1.0 ( https://github.com/tunesort )"
	defaultTimeout      = 30 * time.Second
	defaultRateLimit    = 333 * time.Millisecond // MusicBrainz allows ~3 requests per second
	defaultBurstLimit   = 6
	defaultMaxRetries   = 3
	defaultInitialDelay = 2 * time.Second
	defaultMaxDelay     = 30 * time.Second
)

// Config holds configuration for the MusicBrainz API client
type Config struct {
	BaseURL      string        `json:"base_url"`
	UserAgent    string        `json:"user_agent"`
	Timeout      time.Duration `json:"timeout"`
	MaxRetries   int           `json:"max_retries"`
	InitialDelay time.Duration `json:"initial_delay"`
	MaxDelay     time.Duration `json:"max_delay"`
	RateLimit    time.Duration `json:"rate_limit"`
	BurstLimit   int           `json:"burst_limit"`
}

// Client represents a MusicBrainz API client
type Client struct {
	httpClient  *http.Client
	config      Config
	rateLimiter *rate.Limiter
}

// 2. Constructor and configuration

// DefaultConfig returns sensible defaults for the MusicBrainz API client
func DefaultConfig() Config {
	return Config{
		BaseURL:      defaultBaseURL,
		UserAgent:    defaultUserAgent,
		Timeout:      defaultTimeout,
		MaxRetries:   defaultMaxRetries,
		InitialDelay: defaultInitialDelay,
		MaxDelay:     defaultMaxDelay,
		RateLimit:    defaultRateLimit,
		BurstLimit:   defaultBurstLimit,
	}
}

// NewClient creates a new MusicBrainz API client with default configuration
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new MusicBrainz API client with custom configuration
func NewClientWithConfig(config Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config:      config,
		rateLimiter: rate.NewLimiter(rate.Every(config.RateLimit), config.BurstLimit),
	}
}

// Name implements providers.Provider
func (c *Client) Name() string { return "musicbrainz" }

// 3. Core HTTP methods (private)

// makeRequest creates and executes an HTTP request with proper headers
func (c *Client) makeRequest(ctx context.Context, path string) (*http.Response, error) {
	reqURL, err := url.Parse(c.config.BaseURL + path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// get makes a single GET request to the MusicBrainz API
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := c.makeRequest(ctx, path)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, &shared.HTTPError{
				StatusCode: http.StatusGatewayTimeout,
				Status:     "Gateway Timeout",
				Message:    err.Error(),
			}
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		message := string(body)
		if len(message) > 200 {
			message = message[:200] + "..."
		}
		return nil, &shared.HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    message,
		}
	}

	return body, nil
}

// getWithRetry makes a GET request with retry logic for retryable statuses
func (c *Client) getWithRetry(ctx context.Context, path string) ([]byte, error) {
	var result []byte
	var err error

	retryErr := shared.RetryWithBackoffForHTTP(
		c.config.MaxRetries,
		c.config.InitialDelay,
		c.config.MaxDelay,
		func() error {
			result, err = c.get(ctx, path)
			return err
		},
	)
	if retryErr != nil {
		return nil, retryErr
	}
	return result, nil
}

// 4. Search API

// recordingSearchResponse is the subset of the recording search payload the
// lookup consumes.
type recordingSearchResponse struct {
	Recordings []struct {
		Title        string `json:"title"`
		ArtistCredit []struct {
			Artist struct {
				Name string `json:"name"`
			} `json:"artist"`
		} `json:"artist-credit"`
		Releases []struct {
			Title string `json:"title"`
			Date  string `json:"date"`
		} `json:"releases"`
		Tags []struct {
			Name string `json:"name"`
		} `json:"tags"`
	} `json:"recordings"`
}

// Lookup searches for a recording matching the artist/album/title identity
// and maps the best hit onto partial field overrides.
func (c *Client) Lookup(ctx context.Context, artist, album, title string) (metadata.Overrides, error) {
	var overrides metadata.Overrides

	query := fmt.Sprintf(`recording:%q AND artist:%q`, title, artist)
	if album != "" {
		query += fmt.Sprintf(` AND release:%q`, album)
	}
	path := "recording?query=" + url.QueryEscape(query) + "&limit=1&fmt=json"

	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return overrides, err
	}

	var parsed recordingSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return overrides, fmt.Errorf("failed to parse recording search response: %w", err)
	}
	if len(parsed.Recordings) == 0 {
		return overrides, nil
	}

	rec := parsed.Recordings[0]
	if rec.Title != "" {
		overrides.Title = metadata.Set(rec.Title)
	}
	if len(rec.ArtistCredit) > 0 && rec.ArtistCredit[0].Artist.Name != "" {
		overrides.Artist = metadata.Set(rec.ArtistCredit[0].Artist.Name)
	}
	if len(rec.Releases) > 0 {
		release := rec.Releases[0]
		if release.Title != "" {
			overrides.Album = metadata.Set(release.Title)
		}
		if year := yearOf(release.Date); year != "" {
			overrides.Year = metadata.Set(year)
		}
	}
	if len(rec.Tags) > 0 && rec.Tags[0].Name != "" {
		overrides.Genre = metadata.Set(rec.Tags[0].Name)
	}

	return overrides, nil
}

// yearOf extracts the year from a MusicBrainz date ("1991-09-24", "1991").
func yearOf(date string) string {
	if len(date) < 4 {
		return ""
	}
	if _, err := strconv.Atoi(date[:4]); err != nil {
		return ""
	}
	return date[:4]
}
