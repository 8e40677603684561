// Package remote talks to the backup endpoints of a kanso API server.
package remote

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

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
)

const requestTimeout = 30 * time.Second

var (
	ErrUnauthorized = errors.New("the server rejected the token, run `kanso login` again")
	ErrNoToken      = errors.New("not logged in")
)

type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewClient(baseURL, token string) (*Client, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid API url %q: %w", baseURL, err)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: requestTimeout},
	}, nil
}

type uploadRequest struct {
	Filename string          `json:"filename"`
	Content  json.RawMessage `json:"content"`
}

// Upload sends a snapshot to the server, which stores it as a new backup.
func (c *Client) Upload(ctx context.Context, filename string, snapshot []byte) (*domain.Backup, error) {
	body, err := json.Marshal(uploadRequest{Filename: filename, Content: snapshot})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	var backup domain.Backup
	if err := c.do(ctx, http.MethodPost, "/api/v1/backups/upload", bytes.NewReader(body), http.StatusCreated, &backup); err != nil {
		return nil, err
	}
	return &backup, nil
}

func (c *Client) List(ctx context.Context) ([]domain.Backup, error) {
	var backups []domain.Backup
	if err := c.do(ctx, http.MethodGet, "/api/v1/backups", nil, http.StatusOK, &backups); err != nil {
		return nil, err
	}
	return backups, nil
}

// Download fetches one backup including its snapshot content.
func (c *Client) Download(ctx context.Context, id string) (*domain.Backup, error) {
	var backup domain.Backup
	if err := c.do(ctx, http.MethodGet, "/api/v1/backups/"+url.PathEscape(id), nil, http.StatusOK, &backup); err != nil {
		return nil, err
	}
	return &backup, nil
}

// Push asks the server to commit the current snapshot to the configured
// GitHub repository.
func (c *Client) Push(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/backups/push", nil, http.StatusAccepted, nil)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, want int, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode != want {
		var apiErr errorResponse
		if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("API returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("API returned %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing API response: %w", err)
	}
	return nil
}
