package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPSMSConfig - JSON-шлюз SMS провайдера
type HTTPSMSConfig struct {
	Endpoint string
	APIKey   string
	Sender   string
}

// HTTPSMSSender отправляет SMS POST-запросом {to, message, sender}
type HTTPSMSSender struct {
	cfg    HTTPSMSConfig
	client *http.Client
}

func NewHTTPSMSSender(cfg HTTPSMSConfig, client *http.Client) *HTTPSMSSender {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPSMSSender{cfg: cfg, client: client}
}

type smsRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
	Sender  string `json:"sender,omitempty"`
}

func (s *HTTPSMSSender) SendSMS(ctx context.Context, to, message string) error {
	if to == "" {
		return ErrNoRecipient
	}

	payload, err := json.Marshal(smsRequest{To: to, Message: message, Sender: s.cfg.Sender})
	if err != nil {
		return fmt.Errorf("encode sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return nil
}
