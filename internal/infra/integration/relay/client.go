package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const SendPath = "/send-whatsapp"

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SendText faz exatamente uma chamada ao relay e devolve o messageSid.
func (c *Client) SendText(ctx context.Context, msg entity.OutboundMessage) (string, error) {
	jsonBody, err := json.Marshal(SendRequest{To: msg.To, Message: msg.Body})
	if err != nil {
		return "", fmt.Errorf("erro ao marshal mensagem: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+SendPath, bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("erro request relay: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var result SendResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("relay status %d: resposta inválida: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if resp.StatusCode != http.StatusOK || !result.Success {
		return "", fmt.Errorf("relay status %d: %s", resp.StatusCode, describeError(result.Error))
	}
	if result.MessageSid == "" {
		return "", fmt.Errorf("relay status %d: sem messageSid", resp.StatusCode)
	}

	return result.MessageSid, nil
}

// describeError aceita tanto uma string quanto um objeto de erro.
func describeError(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "unknown error"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}
	return string(raw)
}
