// Package notifier is the HTTP client for the external notification
// service. Delivery is best effort: callers log failures and move on, the
// governing state transition is already committed.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"talnurt/internal/domain/notification"
)

type Client struct {
	baseURL     string
	internalKey string
	httpClient  *http.Client
}

func NewClient(baseURL, internalKey string, httpClient *http.Client) *Client {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:     trimmed,
		internalKey: strings.TrimSpace(internalKey),
		httpClient:  httpClient,
	}
}

type emitRequest struct {
	TargetActorID   string `json:"target_actor_id"`
	Title           string `json:"title"`
	Message         string `json:"message"`
	Type            string `json:"type"`
	RelatedEntityID string `json:"related_entity_id"`
}

func (c *Client) Emit(ctx context.Context, n notification.Notification) error {
	if c.baseURL == "" {
		return nil
	}
	payload := emitRequest{
		TargetActorID:   n.TargetActorID.String(),
		Title:           n.Title,
		Message:         n.Message,
		Type:            string(n.Type),
		RelatedEntityID: n.RelatedEntityID.String(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notifications", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.internalKey != "" {
		req.Header.Set("X-Internal-Key", c.internalKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("notification service returned %d", resp.StatusCode)
	}
	return nil
}
