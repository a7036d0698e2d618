package delivery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/atvirokodosprendimai/loginwatch/internal/core/domain"
	"github.com/atvirokodosprendimai/loginwatch/internal/logging"
)

const (
	DefaultTelegramAPIURL  = "https://api.telegram.org"
	defaultTelegramTimeout = 30 * time.Second
	parseMode              = "Markdown"
	maxResponseBody        = 64 << 10
)

// Telegram sends rendered messages through the Telegram Bot API sendMessage
// method. One call per message, no retries.
type Telegram struct {
	endpoint string
	chatID   string
	client   *http.Client
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

// NewTelegram returns a Telegram delivery for the bot identified by token.
// An empty apiURL uses the public Bot API; a zero or negative timeout falls
// back to 30s.
func NewTelegram(apiURL, token, chatID string, timeout time.Duration) *Telegram {
	if apiURL == "" {
		apiURL = DefaultTelegramAPIURL
	}
	if timeout <= 0 {
		timeout = defaultTelegramTimeout
	}
	return &Telegram{
		endpoint: strings.TrimRight(apiURL, "/") + "/bot" + token + "/sendMessage",
		chatID:   chatID,
		client:   &http.Client{Timeout: timeout},
	}
}

// Send POSTs message to the chat. Transport errors, non-2xx statuses and
// responses with "ok": false are returned as errors.
func (t *Telegram) Send(ctx context.Context, message string) error {
	payload, err := json.Marshal(sendMessageRequest{ChatID: t.chatID, Text: message, ParseMode: parseMode})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", redact(err))
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
		resp.Body.Close()
	}()

	var body sendMessageResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&body); err != nil {
		logging.Debug().Err(err).Int("status", resp.StatusCode).Msg("telegram response not decodable")
	}
	logging.Debug().Int("status", resp.StatusCode).Bool("ok", body.OK).Str("description", body.Description).Msg("telegram api response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram returned status %d %s: %w", resp.StatusCode, body.Description, domain.ErrDeliveryRejected)
	}
	if !body.OK {
		return fmt.Errorf("telegram rejected message %s: %w", body.Description, domain.ErrDeliveryRejected)
	}
	return nil
}

// redact strips the request URL from transport errors so the bot token does
// not end up in logs.
func redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s sendMessage: %w", ue.Op, ue.Err)
	}
	return err
}
