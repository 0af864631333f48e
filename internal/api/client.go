// Package api is a client for the books HTTP API: book catalog, book documents
// and progress bookmarks.
package api

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

	"go.uber.org/zap"

	"github.com/tatianab/gamebook/internal/models"
)

// HTTPError is a non-2xx response.
type HTTPError struct {
	Status int
	URL    string
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.Status, e.URL)
}

// BookSummary is one entry of the book catalog.
type BookSummary struct {
	Path       string   `json:"path"`
	Title      string   `json:"title,omitempty"`
	Author     string   `json:"author,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
	Type       *string  `json:"type,omitempty"`
	Duration   string   `json:"duration,omitempty"`
	Chapters   int      `json:"chapters,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Summary    string   `json:"summary,omitempty"`
}

type Client struct {
	baseURL    string
	prefix     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the API at baseURL. prefix is an optional path
// segment inserted before every endpoint, e.g. "service".
func NewClient(baseURL, prefix string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("api base url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	return &Client{
		baseURL:    baseURL,
		prefix:     strings.Trim(strings.TrimSpace(prefix), "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("APIClient"),
	}, nil
}

// URL builds the absolute URL of an endpoint.
func (c *Client) URL(path string, query url.Values) string {
	p := "/" + strings.TrimLeft(path, "/")
	if c.prefix != "" {
		p = "/" + c.prefix + p
	}
	u := c.baseURL + p
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, method, endpoint string) ([]byte, error) {
	log := c.logger.With(zap.String("method", method), zap.String("url", endpoint))

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("Request failed", zap.Error(err))
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("Unexpected status", zap.Int("status", resp.StatusCode))
		return nil, &HTTPError{Status: resp.StatusCode, URL: endpoint, Body: string(body)}
	}
	log.Debug("Request succeeded", zap.Int("status", resp.StatusCode))
	return body, nil
}

// ListBooks fetches the book catalog.
func (c *Client) ListBooks(ctx context.Context) ([]BookSummary, error) {
	body, err := c.do(ctx, http.MethodGet, c.URL("/books", nil))
	if err != nil {
		return nil, err
	}
	var books []BookSummary
	if err := json.Unmarshal(body, &books); err != nil {
		return nil, fmt.Errorf("decode book list: %w", err)
	}
	return books, nil
}

// GetBook fetches a full book by its catalog path.
func (c *Client) GetBook(ctx context.Context, path string) (*models.Book, error) {
	body, err := c.do(ctx, http.MethodGet, c.URL("/books/"+url.PathEscape(path), nil))
	if err != nil {
		return nil, err
	}
	var book models.Book
	if err := json.Unmarshal(body, &book); err != nil {
		return nil, fmt.Errorf("decode book %q: %w", path, err)
	}
	return &book, nil
}

// SaveProgress bookmarks a section of a book.
func (c *Client) SaveProgress(ctx context.Context, path string, section int) error {
	query := url.Values{}
	query.Set("book", path)
	query.Set("section", strconv.Itoa(section))
	_, err := c.do(ctx, http.MethodPost, c.URL("/books/progress/save", query))
	return err
}
