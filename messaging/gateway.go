// Package messaging sends outbound text through the chat transport
// gateway. Calls are fire-and-forget from the pipeline's perspective.
package messaging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// GatewayClient posts messages to the transport gateway's send endpoint.
type GatewayClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewGatewayClient creates a messenger for the gateway at baseURL.
func NewGatewayClient(baseURL, apiKey string) *GatewayClient {
	return &GatewayClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

type sendRequest struct {
	GroupID string `json:"group_id"`
	Text    string `json:"text"`
}

// SendMessage posts text into a group. A non-2xx response is an error;
// the caller decides whether to care.
func (c *GatewayClient) SendMessage(groupID, text string) error {
	payload, err := json.Marshal(sendRequest{GroupID: groupID, Text: text})
	if err != nil {
		return fmt.Errorf("encode send request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/send", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send message to group %s: %w", groupID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("gateway returned status %d for group %s", resp.StatusCode, groupID)
	}
	return nil
}
