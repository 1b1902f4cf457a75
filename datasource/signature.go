package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/clbanning/mxj/v2"
	"github.com/mmcdole/gofeed"
)

// Free-tier courtesy limit on the public portal.
const (
	publicRPS   = 2.0
	publicBurst = 4
)

// PublicClient fetches the unauthenticated public weather endpoints:
// the signature portal's JSON API and the nowcasting alert feed. No
// session state is involved; the client is safe for concurrent use.
type PublicClient struct {
	signatureURL string
	feedURL      string
	doer         httpDoer
	feedParser   *gofeed.Parser
	logger       *slog.Logger
}

// NewPublicClient creates a public-endpoint client from the service
// config.
func NewPublicClient(cfg Config, logger *slog.Logger) *PublicClient {
	base := &http.Client{Timeout: 15 * time.Second}
	return &PublicClient{
		signatureURL: cfg.SignatureBaseURL,
		feedURL:      cfg.NowcastFeedURL,
		doer:         newLimitedDoer(base, publicRPS, publicBurst),
		feedParser:   gofeed.NewParser(),
		logger:       logger,
	}
}

func (c *PublicClient) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func (c *PublicClient) getJSON(ctx context.Context, rawURL string, out any) error {
	body, err := c.get(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *PublicClient) signatureQuery(params url.Values) string {
	sep := "?"
	if strings.Contains(c.signatureURL, "?") {
		sep = "&"
	}
	return c.signatureURL + sep + params.Encode()
}

// PwxDarat fetches the nationwide land-weather table: one positional
// array per forecast location.
func (c *PublicClient) PwxDarat(ctx context.Context) ([][]any, error) {
	params := url.Values{}
	params.Set("type", "pwxDarat")

	var rows [][]any
	if err := c.getJSON(ctx, c.signatureQuery(params), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// LocationWeather fetches the point forecast for a coordinate.
func (c *PublicClient) LocationWeather(ctx context.Context, lat, lon float64) (any, error) {
	params := url.Values{}
	params.Set("type", "lokasiCuaca")
	params.Set("lat", fmt.Sprintf("%v", lat))
	params.Set("lon", fmt.Sprintf("%v", lon))

	var data any
	if err := c.getJSON(ctx, c.signatureQuery(params), &data); err != nil {
		return nil, err
	}
	return data, nil
}

// LocationWeatherByCode fetches the point forecast for an ADM4 area
// code (e.g. 33.01.22.1003).
func (c *PublicClient) LocationWeatherByCode(ctx context.Context, code string) (any, error) {
	params := url.Values{}
	params.Set("type", "lokasiCuaca")
	params.Set("code", code)

	var data any
	if err := c.getJSON(ctx, c.signatureQuery(params), &data); err != nil {
		return nil, err
	}
	return data, nil
}

// ForecastDarat fetches the land forecast file for a timestamp code.
func (c *PublicClient) ForecastDarat(ctx context.Context, code string) (any, error) {
	params := url.Values{}
	params.Set("type", "getForecastDarat")
	params.Set("code", code+".json")

	var data any
	if err := c.getJSON(ctx, c.signatureQuery(params), &data); err != nil {
		return nil, err
	}
	return data, nil
}

// Manifest fetches the jalurDarat forecast manifest.
func (c *PublicClient) Manifest(ctx context.Context) (any, error) {
	params := url.Values{}
	params.Set("type", "getManifest")
	params.Set("code", "jalurDarat")

	var data any
	if err := c.getJSON(ctx, c.signatureQuery(params), &data); err != nil {
		return nil, err
	}
	return data, nil
}

// Nowcasting fetches the JSON nowcast for a nowcasting station code.
func (c *PublicClient) Nowcasting(ctx context.Context, code string) (any, error) {
	params := url.Values{}
	params.Set("type", "nowcasting")
	params.Set("code", code)

	var data any
	if err := c.getJSON(ctx, c.signatureQuery(params), &data); err != nil {
		return nil, err
	}
	return data, nil
}

// NowcastingFeed fetches the RSS feed of nowcast alerts and returns
// the items whose title contains the province name, case-insensitive.
// An empty province returns every item.
func (c *PublicClient) NowcastingFeed(ctx context.Context, province string) ([]*gofeed.Item, error) {
	body, err := c.get(ctx, c.feedURL)
	if err != nil {
		return nil, err
	}
	feed, err := c.feedParser.ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse nowcast feed: %w", err)
	}

	if province == "" {
		return feed.Items, nil
	}
	keyword := strings.ToLower(province)
	var items []*gofeed.Item
	for _, item := range feed.Items {
		if strings.Contains(strings.ToLower(item.Title), keyword) {
			items = append(items, item)
		}
	}
	return items, nil
}

// NowcastingAlert fetches one alert document and parses the XML into a
// nested map, preserving whatever structure the feed publishes.
func (c *PublicClient) NowcastingAlert(ctx context.Context, alertURL string) (map[string]any, error) {
	body, err := c.get(ctx, alertURL)
	if err != nil {
		return nil, err
	}
	mv, err := mxj.NewMapXml(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse alert XML: %w", err)
	}
	return map[string]any(mv), nil
}
