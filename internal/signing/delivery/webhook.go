package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aussiebroadwan/sigil/internal/signing/domain"
)

// WebhookSender posts code dispatch requests to the platform's messaging
// gateway, one endpoint per channel.
type WebhookSender struct {
	PhoneURL   string
	EmailURL   string
	HTTPClient *http.Client
}

// NewWebhookSender builds a sender with a bounded HTTP client. Timeout there
// is what turns a silent gateway into ErrDispatchTimeout instead of a hang.
func NewWebhookSender(phoneURL, emailURL string, timeout time.Duration) *WebhookSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookSender{
		PhoneURL:   phoneURL,
		EmailURL:   emailURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type webhookPayload struct {
	SubjectID   string `json:"subject_id"`
	Destination string `json:"destination"`
	Code        string `json:"code"`
}

func (s *WebhookSender) Send(ctx context.Context, msg Message) error {
	var url string
	switch msg.Channel {
	case domain.ChannelPhone:
		url = s.PhoneURL
	case domain.ChannelEmail:
		url = s.EmailURL
	}
	if url == "" {
		return fmt.Errorf("%w: no gateway configured for channel %q", ErrDispatchFailed, msg.Channel)
	}

	body, err := json.Marshal(webhookPayload{
		SubjectID:   msg.SubjectID,
		Destination: msg.Destination,
		Code:        msg.Code,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDispatchFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDispatchFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", ErrDispatchTimeout, err)
		}
		// net/http wraps client timeouts in a *url.Error with Timeout()=true.
		var timeoutErr interface{ Timeout() bool }
		if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
			return fmt.Errorf("%w: %w", ErrDispatchTimeout, err)
		}
		return fmt.Errorf("%w: %w", ErrDispatchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: gateway returned %d", ErrDispatchFailed, resp.StatusCode)
	}
	return nil
}
