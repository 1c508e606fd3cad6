// Package jobservice implements the HTTP client of the export job service.
package jobservice

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

	"go.trai.ch/firecast/internal/core/domain"
	"go.trai.ch/firecast/internal/core/ports"
	"go.trai.ch/zerr"
)

// API paths relative to the service base URL.
const (
	StartExportPath = "/api/earthengine/start-export"
	CheckStatusPath = "/api/earthengine/check-status/"
	PreviewPath     = "/api/earthengine/get_layer"
	HealthPath      = "/api/health"
)

// maxBodyBytes bounds every decoded response.
const maxBodyBytes = 1 << 20

// Client talks to the export job service over HTTP.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  ports.Logger
}

var (
	_ ports.JobService    = (*Client)(nil)
	_ ports.PreviewSource = (*Client)(nil)
)

// New creates a Client for the configured service.
func New(settings domain.JobServiceSettings, logger ports.Logger) (*Client, error) {
	return NewWithHTTPClient(settings.BaseURL, &http.Client{Timeout: settings.Timeout}, logger)
}

// NewWithHTTPClient creates a Client that sends its requests through hc.
func NewWithHTTPClient(baseURL string, hc *http.Client, logger ports.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigParse, "invalid job service url"), "url", baseURL)
	}
	return &Client{baseURL: u, http: hc, logger: logger}, nil
}

// resolve turns a served path into an absolute URL. Absolute addresses pass through.
func (c *Client) resolve(address string) string {
	if u, err := url.Parse(address); err == nil && u.IsAbs() {
		return address
	}
	return c.baseURL.String() + "/" + strings.TrimLeft(address, "/")
}

// ProbeExists issues a HEAD request. Any failure or non-2xx status reports false.
func (c *Client) ProbeExists(ctx context.Context, address string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.resolve(address), http.NoBody)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug(fmt.Sprintf("probe %s failed: %v", address, err))
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

type exportRequest struct {
	Geometry  domain.Geometry `json:"geometry"`
	CountyKey string          `json:"county_key"`
}

// StartExport posts the geometry of key to the start-export endpoint.
func (c *Client) StartExport(
	ctx context.Context,
	key domain.EntityKey,
	geometry domain.Geometry,
) (domain.StartResponse, error) {
	var out domain.StartResponse
	status, err := c.do(ctx, http.MethodPost, StartExportPath, exportRequest{Geometry: geometry, CountyKey: key.String()}, &out)
	if err != nil {
		return domain.StartResponse{}, zerr.With(err, "entity", key.String())
	}
	if out.Status == "" && out.JobID != "" && status == http.StatusAccepted {
		out.Status = string(domain.StatusProcessing)
	}
	if out.Status == "" {
		return domain.StartResponse{}, zerr.With(
			zerr.Wrap(domain.ErrInvalidResponse, "start response without status"), "entity", key.String())
	}
	return out, nil
}

// CheckStatus fetches the state of jobID.
func (c *Client) CheckStatus(ctx context.Context, jobID string, key domain.EntityKey) (domain.StatusResponse, error) {
	var out domain.StatusResponse
	code, err := c.do(ctx, http.MethodGet, CheckStatusPath+url.PathEscape(jobID), nil, &out)
	if err != nil {
		return domain.StatusResponse{}, zerr.With(zerr.With(err, "job", jobID), "entity", key.String())
	}
	if out.Status == "" && code >= http.StatusInternalServerError {
		reason := "service error"
		if out.Error != "" {
			reason = out.Error
		}
		return domain.StatusResponse{}, zerr.With(zerr.With(
			zerr.Wrap(domain.ErrServiceUnavailable, reason), "job", jobID), "status", code)
	}
	if out.Status == "" {
		return domain.StatusResponse{}, zerr.With(
			zerr.Wrap(domain.ErrInvalidResponse, "status response without status"), "job", jobID)
	}
	return out, nil
}

// FetchPreview asks for a low-fidelity layer of geometry. An empty address means no preview.
func (c *Client) FetchPreview(ctx context.Context, geometry domain.Geometry) (string, error) {
	var out domain.PreviewResponse
	if _, err := c.do(ctx, http.MethodPost, PreviewPath, exportRequest{Geometry: geometry}, &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", nil
	}
	return c.resolve(out.URL), nil
}

// do sends one request and decodes the JSON body into out.
// A decodable body is honoured whatever the status code.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return 0, zerr.Wrap(err, "failed to encode request")
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), reader)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(domain.ErrServiceUnavailable, err.Error()), "path", path)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, zerr.With(errors.Join(domain.ErrServiceUnavailable, err), "path", path)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, zerr.With(errors.Join(domain.ErrServiceUnavailable, err), "path", path)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp.StatusCode, zerr.With(
				zerr.With(zerr.Wrap(domain.ErrServiceUnavailable, "service error"), "path", path),
				"status", resp.StatusCode)
		}
		return resp.StatusCode, zerr.With(
			zerr.With(zerr.Wrap(domain.ErrInvalidResponse, "undecodable body"), "path", path),
			"status", resp.StatusCode)
	}
	return resp.StatusCode, nil
}
