// Package signsdk is a typed client for the signature sealing service. It is
// what other platform services use to drive the challenge/verify/seal flow,
// and it shares its request, response and error types with the server so the
// two cannot drift apart.
package signsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to one signing service instance on behalf of one bearer token.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClient creates a client for the given base URL and bearer token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// StartChallenge requests a one-time code for the given payload.
func (c *Client) StartChallenge(ctx context.Context, req ChallengeRequest) (*ChallengeResponse, error) {
	var out ChallengeResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/signatures/challenge", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyAndSeal submits a code for the payload's live challenge. On success
// the content is sealed and the new document's id is returned.
func (c *Client) VerifyAndSeal(ctx context.Context, req VerifyRequest) (*VerifyResponse, error) {
	var out VerifyResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/signatures/verify", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Artifact fetches the sealed artifact bytes for an owned document.
func (c *Client) Artifact(ctx context.Context, documentID string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/documents/"+documentID, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, parseError(resp)
	}
	return io.ReadAll(resp.Body)
}

// CheckIntegrity re-verifies a sealed document.
func (c *Client) CheckIntegrity(ctx context.Context, documentID string) (*IntegrityResponse, error) {
	var out IntegrityResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/documents/"+documentID+"/integrity", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Revoke permanently revokes an owned document.
func (c *Client) Revoke(ctx context.Context, documentID string) (*RevokeResponse, error) {
	var out RevokeResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/documents/"+documentID+"/revoke", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Livez checks the liveness probe. Unauthenticated.
func (c *Client) Livez(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/livez", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// parseError turns a non-2xx response into an *APIError. Unparseable bodies
// still yield an APIError so callers always get the same error shape.
func parseError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = ErrorCodeServerError
		apiErr.Description = fmt.Sprintf("unexpected response (status %d)", resp.StatusCode)
	}
	return apiErr
}
