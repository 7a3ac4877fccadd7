package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/hatchery/internal/config"
)

// Client exposes the Telegram Bot API operation used by the application.
type Client interface {
	SendMessage(ctx context.Context, text string) error
}

// ErrNotConfigured is returned by a client built without credentials.
var ErrNotConfigured = errors.New("telegram credentials not configured")

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	chatID     string
	enabled    bool
}

// NewClient builds a Telegram API client using the provided configuration
// values. Missing credentials yield a disabled client whose SendMessage
// reports failure without performing any request.
func NewClient(cfg config.TelegramConfig) *APIClient {
	if cfg.BotToken == "" || cfg.ChatID == "" {
		return &APIClient{enabled: false}
	}

	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(fmt.Sprintf("%s/bot%s", base, cfg.BotToken)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		chatID:     cfg.ChatID,
		enabled:    true,
	}
}

// sendMessageResponse mirrors the Bot API response envelope.
type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// SendMessage pushes a text message to the configured chat.
func (c *APIClient) SendMessage(ctx context.Context, text string) error {
	if !c.enabled {
		return ErrNotConfigured
	}

	payload := map[string]any{
		"chat_id":    c.chatID,
		"text":       text,
		"parse_mode": "HTML",
	}

	result := new(sendMessageResponse)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(result).
		Post("/sendMessage")
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest || !result.OK {
		code := resp.StatusCode()
		if result.ErrorCode != 0 {
			code = result.ErrorCode
		}
		return fmt.Errorf("telegram api error: code=%d, description=%s", code, result.Description)
	}

	return nil
}
