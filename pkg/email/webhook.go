package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WebhookSender posts rendered messages as JSON to an internal mail relay
type WebhookSender struct {
	client *http.Client
	url    string
	config Config
}

type webhookRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html,omitempty"`
	Text    string `json:"text,omitempty"`
}

type webhookResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func NewWebhookSender(url string, config Config) (*WebhookSender, error) {
	if url == "" {
		return nil, errors.New("email webhook URL is required")
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &WebhookSender{
		client: &http.Client{Timeout: timeout},
		url:    url,
		config: config,
	}, nil
}

func (s *WebhookSender) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(webhookRequest{
		From:    s.config.From(),
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var result webhookResponse
	_ = json.Unmarshal(body, &result)
	if resp.StatusCode != http.StatusOK {
		if result.Error != "" {
			return fmt.Errorf("email relay error: %s", result.Error)
		}
		return fmt.Errorf("email relay returned status %d: %s", resp.StatusCode, string(body))
	}
	if !result.Success {
		return fmt.Errorf("email relay returned success=false: %s", result.Error)
	}
	return nil
}
