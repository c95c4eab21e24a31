package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/assets"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// Client talks to a remote storage service over its HTTP surface.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for the service at baseURL. A nil hc uses a
// client with a 30s timeout.
func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// RequestUploadTarget asks the service for a single-use upload URL.
func (c *Client) RequestUploadTarget(ctx context.Context) (string, error) {
	var out UploadTarget
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/storage/upload-targets", nil, "", nil, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

// Transfer uploads f to target and returns the storage id.
func (c *Client) Transfer(ctx context.Context, target string, f File) (string, error) {
	headers := map[string]string{}
	if f.Name != "" {
		headers[FilenameHeader] = f.Name
	}
	var out UploadResult
	if err := c.do(ctx, http.MethodPut, target, bytes.NewReader(f.Data), f.ContentType, headers, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// ResolveMany resolves ids in one request.
func (c *Client) ResolveMany(ctx context.Context, ids []string) ([]assets.Resolution, error) {
	body, err := json.Marshal(ResolveRequest{IDs: ids})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "encode resolve request").Build()
	}
	var out ResolveResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/storage/resolve", bytes.NewReader(body), "application/json", nil, &out); err != nil {
		return nil, err
	}
	return out.Resolutions, nil
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader, contentType string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryValidation, "build storage request").
			WithContext("url", url).
			Build()
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNetwork, "storage request failed").
			WithContext("url", url).
			Retryable().
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryStorage, "malformed storage response").
			WithContext("url", url).
			Build()
	}
	return nil
}

// decodeError turns an error payload back into a classified error, keeping
// the remote category when it sent one.
func decodeError(resp *http.Response) error {
	var payload ferrors.HTTPErrorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&payload)

	category := ferrors.CategoryStorage
	if payload.Code != "" {
		category = ferrors.ErrorCategory(payload.Code)
	}
	msg := payload.Error
	if msg == "" {
		msg = fmt.Sprintf("storage responded %d", resp.StatusCode)
	}
	b := ferrors.NewError(category, msg).WithContext("status", resp.StatusCode)
	if payload.Retryable || resp.StatusCode >= 500 {
		b = b.Retryable()
	}
	return b.Build()
}
