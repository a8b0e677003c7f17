// Package client provides the HTTP client for the rubox storage API,
// with retry, offline tracking, and auth.
package client

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jangler/rubox/internal/logging"
	"github.com/jangler/rubox/pkg/models"
	"github.com/jangler/rubox/pkg/protocol"
	"github.com/jangler/rubox/pkg/retry"
	"go.uber.org/zap"
)

// ErrNotFound reports that the remote service has no entry at a path.
// Callers should test with IsNotFound rather than comparing directly,
// since the error is usually wrapped with the path.
var ErrNotFound = errors.New("remote path not found")

// IsNotFound returns true if err means the remote path does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Client provides HTTP access to the storage API.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	retryConfig retry.Config

	mu        sync.RWMutex
	online    bool
	lastPing  time.Time
	authToken string
}

// Config holds client configuration.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	RetryConfig retry.Config
	AuthToken   string
}

// New creates a new client.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryConfig.MaxAttempts == 0 {
		cfg.RetryConfig = retry.DefaultConfig()
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		retryConfig: cfg.RetryConfig,
		online:      true,
		authToken:   cfg.AuthToken,
	}
}

// SetAuthToken sets the bearer auth token for requests.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authToken = token
}

// applyAuth adds the auth header to a request if a token is set.
func (c *Client) applyAuth(req *http.Request) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
}

// IsOnline returns true if the server is reachable.
func (c *Client) IsOnline() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.online
}

func (c *Client) setOnline(online bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.online != online {
		if online {
			logging.Info("server is back online")
		} else {
			logging.Error("server is offline")
		}
	}
	c.online = online
	c.lastPing = time.Now()
}

// Ping checks if the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.setOnline(false)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.setOnline(false)
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	c.setOnline(true)
	return nil
}

// apiPath joins an absolute remote path onto an endpoint prefix.
func (c *Client) apiPath(prefix, path string) string {
	return c.baseURL + prefix + "/" + strings.TrimPrefix(path, "/")
}

// decodeEntry decodes an EntryResponse body, transparently ungzipping.
func decodeEntry(resp *http.Response) (*models.FileNode, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gr.Close()
		reader = gr
	}

	var er protocol.EntryResponse
	if err := json.NewDecoder(reader).Decode(&er); err != nil {
		return nil, err
	}
	if er.Entry == nil {
		return nil, fmt.Errorf("server returned empty entry")
	}
	return er.Entry, nil
}

// apiError extracts a server error message from a non-2xx response.
func apiError(op string, resp *http.Response) error {
	var errResp protocol.ErrorResponse
	if json.NewDecoder(resp.Body).Decode(&errResp) == nil && errResp.Error != "" {
		return fmt.Errorf("%s failed: %s", op, errResp.Error)
	}
	return fmt.Errorf("%s failed: %d", op, resp.StatusCode)
}

// Metadata fetches the metadata record for a single absolute path.
// Directory records come back with their full immediate children listing.
// A missing path yields an error satisfying IsNotFound.
func (c *Client) Metadata(ctx context.Context, path string) (*models.FileNode, error) {
	var result *models.FileNode

	err := retry.Do(ctx, c.retryConfig, func() error {
		req, err := http.NewRequestWithContext(ctx, "GET", c.apiPath("/api/v1/meta", path), nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept-Encoding", "gzip")
		c.applyAuth(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.setOnline(false)
			return retry.Retryable(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			c.setOnline(true)
			return fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		if resp.StatusCode != http.StatusOK {
			c.setOnline(false)
			if resp.StatusCode >= 500 {
				return retry.Retryable(fmt.Errorf("server error: %d", resp.StatusCode))
			}
			return apiError("metadata", resp)
		}

		c.setOnline(true)

		result, err = decodeEntry(resp)
		return err
	})

	if err == nil {
		logging.Debug("fetched metadata",
			zap.String("path", path),
			zap.Bool("dir", result.IsDir),
			zap.Int("children", len(result.Children)))
	}
	return result, err
}

// FetchContent fetches file content, gzip-aware. The caller must close
// the returned reader.
func (c *Client) FetchContent(ctx context.Context, path string) (io.ReadCloser, int64, error) {
	var reader io.ReadCloser
	var totalSize int64

	err := retry.Do(ctx, c.retryConfig, func() error {
		req, err := http.NewRequestWithContext(ctx, "GET", c.apiPath("/api/v1/content", path), nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept-Encoding", "gzip")
		c.applyAuth(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.setOnline(false)
			return retry.Retryable(err)
		}

		if resp.StatusCode == http.StatusNotFound {
			resp.Body.Close()
			c.setOnline(true)
			return fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			c.setOnline(false)
			if resp.StatusCode >= 500 {
				return retry.Retryable(fmt.Errorf("server error: %d", resp.StatusCode))
			}
			return fmt.Errorf("download failed: %d", resp.StatusCode)
		}

		c.setOnline(true)

		if cl := resp.Header.Get("Content-Length"); cl != "" {
			fmt.Sscanf(cl, "%d", &totalSize)
		}

		if resp.Header.Get("Content-Encoding") == "gzip" {
			gr, err := gzip.NewReader(resp.Body)
			if err != nil {
				resp.Body.Close()
				return err
			}
			reader = &gzipReadCloser{gr: gr, body: resp.Body}
		} else {
			reader = resp.Body
		}

		return nil
	})

	return reader, totalSize, err
}

// UploadFile uploads file content and returns the resulting record.
func (c *Client) UploadFile(ctx context.Context, path string, content io.Reader, size int64) (*models.FileNode, error) {
	var result *models.FileNode

	err := retry.Do(ctx, c.retryConfig, func() error {
		req, err := http.NewRequestWithContext(ctx, "POST", c.apiPath("/api/v1/content", path), content)
		if err != nil {
			return err
		}
		req.ContentLength = size
		req.Header.Set("Content-Type", "application/octet-stream")
		c.applyAuth(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.setOnline(false)
			return retry.Retryable(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
			c.setOnline(false)
			if resp.StatusCode >= 500 {
				return retry.Retryable(fmt.Errorf("server error: %d", resp.StatusCode))
			}
			return apiError("upload", resp)
		}

		c.setOnline(true)

		result, err = decodeEntry(resp)
		return err
	})

	return result, err
}

// CreateDirectory creates a directory and returns the created record.
func (c *Client) CreateDirectory(ctx context.Context, path string) (*models.FileNode, error) {
	var result *models.FileNode

	err := retry.Do(ctx, c.retryConfig, func() error {
		req, err := http.NewRequestWithContext(ctx, "PUT", c.apiPath("/api/v1/tree", path)+"?type=dir", nil)
		if err != nil {
			return err
		}
		c.applyAuth(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.setOnline(false)
			return retry.Retryable(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
			c.setOnline(false)
			if resp.StatusCode >= 500 {
				return retry.Retryable(fmt.Errorf("server error: %d", resp.StatusCode))
			}
			return apiError("mkdir", resp)
		}

		c.setOnline(true)

		result, err = decodeEntry(resp)
		return err
	})

	return result, err
}

// DeletePath deletes a file or directory.
func (c *Client) DeletePath(ctx context.Context, path string) error {
	return retry.Do(ctx, c.retryConfig, func() error {
		req, err := http.NewRequestWithContext(ctx, "DELETE", c.apiPath("/api/v1/tree", path), nil)
		if err != nil {
			return err
		}
		c.applyAuth(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.setOnline(false)
			return retry.Retryable(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if resp.StatusCode == http.StatusNotFound {
				c.setOnline(true)
				return nil // Already deleted
			}
			c.setOnline(false)
			if resp.StatusCode >= 500 {
				return retry.Retryable(fmt.Errorf("server error: %d", resp.StatusCode))
			}
			return apiError("delete", resp)
		}

		c.setOnline(true)
		return nil
	})
}

// ShareLink creates a public share link for a path.
func (c *Client) ShareLink(ctx context.Context, path string) (*protocol.ShareLinkResponse, error) {
	var result *protocol.ShareLinkResponse

	err := retry.Do(ctx, c.retryConfig, func() error {
		req, err := http.NewRequestWithContext(ctx, "POST", c.apiPath("/api/v1/share", path), nil)
		if err != nil {
			return err
		}
		c.applyAuth(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.setOnline(false)
			return retry.Retryable(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			c.setOnline(true)
			return fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
			c.setOnline(false)
			if resp.StatusCode >= 500 {
				return retry.Retryable(fmt.Errorf("server error: %d", resp.StatusCode))
			}
			return apiError("share", resp)
		}

		c.setOnline(true)

		result = &protocol.ShareLinkResponse{}
		return json.NewDecoder(resp.Body).Decode(result)
	})

	return result, err
}

type gzipReadCloser struct {
	gr   *gzip.Reader
	body io.ReadCloser
}

func (g *gzipReadCloser) Read(p []byte) (int, error) {
	return g.gr.Read(p)
}

func (g *gzipReadCloser) Close() error {
	g.gr.Close()
	return g.body.Close()
}
