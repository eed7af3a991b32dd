package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTPResolver fetches subject records from the platform's directory API.
type HTTPResolver struct {
	BaseURL    string
	Token      string // service-to-service bearer token
	HTTPClient *http.Client
}

func NewHTTPResolver(baseURL, token string) *HTTPResolver {
	return &HTTPResolver{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (r *HTTPResolver) Resolve(ctx context.Context, subjectID string) (Subject, error) {
	url := r.BaseURL + "/v1/subjects/" + subjectID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Subject{}, fmt.Errorf("identity: build request: %w", err)
	}
	if r.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.Token)
	}

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return Subject{}, fmt.Errorf("identity: directory request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Subject{}, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return Subject{}, fmt.Errorf("identity: directory returned %d", resp.StatusCode)
	}

	var s Subject
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return Subject{}, fmt.Errorf("identity: decode subject: %w", err)
	}
	if s.ID == "" {
		s.ID = subjectID
	}
	return s, nil
}
