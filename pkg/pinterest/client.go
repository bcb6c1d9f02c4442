package pinterest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pinscraper/pkg/config"
	"pinscraper/pkg/errors"
	"pinscraper/pkg/logger"
)

// Client issues requests against the Pinterest host with a fixed browser
// header set. The server gates the embedded-JSON profile page on looking
// like a browser request.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	pageSize   int
	maxPages   int
	logger     logger.Logger
}

// NewClient creates a new Pinterest client from the configuration
func NewClient(cfg *config.Config, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Download.RequestTimeout,
		},
		headers: map[string]string{
			"Referer":    cfg.Pinterest.Host,
			"User-Agent": cfg.Pinterest.UserAgent,
		},
		baseURL:  cfg.Pinterest.Host,
		pageSize: cfg.Feed.PageSize,
		maxPages: cfg.Feed.MaxPages,
		logger:   log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// BaseURL returns the configured host
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errors.Newf(errors.ErrorTypeNetwork, "network error: %v", err)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// Get performs a GET request to the specified URL. The caller owns the
// response body.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Newf(errors.ErrorTypeUnknown, "failed to create request: %v", err)
	}

	return c.doRequest(req)
}

// Download performs a streaming GET for a media or segment URL, checking
// the response status before handing the open body to the caller
func (c *Client) Download(ctx context.Context, url string) (*http.Response, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := c.checkResponseStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return resp, nil
}

// GetJSON performs a GET request and decodes the JSON response
func (c *Client) GetJSON(ctx context.Context, url string, target interface{}) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewWithCode(errors.ErrorTypeNetwork, resp.StatusCode,
			fmt.Sprintf("failed to read response body: %v", err))
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}

		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return errors.NewWithCode(errors.ErrorTypeParse, resp.StatusCode,
			fmt.Sprintf("failed to parse JSON: %v", err))
	}

	return nil
}

// checkResponseStatus maps error statuses to typed network errors
func (c *Client) checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	c.logger.WarnWithFields("unexpected response status", map[string]interface{}{
		"status": resp.StatusCode,
		"url":    resp.Request.URL.String(),
	})

	return errors.NewWithCode(errors.ErrorTypeNetwork, resp.StatusCode,
		fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
}
