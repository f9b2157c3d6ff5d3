package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Message is one SMS. IdempotencyKey is stable per run and recipient so a
// gateway that dedups can drop a resend after a lost response.
type Message struct {
	To             string `json:"to"`
	Body           string `json:"body"`
	IdempotencyKey string `json:"idempotencyKey"`
}

// Sender delivers a message and returns the gateway's reference for it.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

type GatewayConfig struct {
	URL           string
	Token         string
	RatePerSecond float64
	Timeout       time.Duration
}

// GatewaySender posts messages to an HTTP SMS gateway at <URL>/messages.
type GatewaySender struct {
	session *http.Client
	url     string
	token   string
	limiter *rate.Limiter
}

func NewGatewaySender(cfg GatewayConfig) *GatewaySender {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	s := &GatewaySender{
		session: &http.Client{Timeout: timeout},
		url:     strings.TrimRight(cfg.URL, "/") + "/messages",
		token:   cfg.Token,
	}
	if cfg.RatePerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}
	return s
}

type gatewayResponse struct {
	ID string `json:"id"`
}

func (s *GatewaySender) Send(ctx context.Context, msg Message) (string, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Idempotency-Key", msg.IdempotencyKey)
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.session.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var decoded gatewayResponse
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil && err != io.EOF {
		return "", fmt.Errorf("decode gateway response: %w", err)
	}
	return decoded.ID, nil
}

// LogSender writes messages to the log instead of sending them. It is the
// development fallback when no gateway URL is configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger.With("component", "log_sender")}
}

func (s *LogSender) Send(ctx context.Context, msg Message) (string, error) {
	s.logger.InfoContext(ctx, "sms", "to", msg.To, "body", msg.Body, "key", msg.IdempotencyKey)
	return "log:" + msg.IdempotencyKey, nil
}
