package nlu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	apperrors "sous-chef/backend/pkg/errors"
	"sous-chef/backend/pkg/logger"
)

// Client handles communication with the hosted conversation (NLU) service.
// The service classifies intent and extracts slots; this client treats the
// conversation context as an opaque blob that is echoed back on every turn.
type Client struct {
	baseURL     string
	apiKey      string
	workspaceID string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient creates a new conversation service client
func NewClient(baseURL, apiKey, workspaceID string, timeout time.Duration) *Client {
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		workspaceID: workspaceID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Get(),
	}
}

// messageRequest is the wire format of a conversation turn
type messageRequest struct {
	Input       messageInput           `json:"input"`
	Context     map[string]interface{} `json:"context,omitempty"`
	WorkspaceID string                 `json:"workspace_id"`
}

type messageInput struct {
	Text string `json:"text"`
}

// MessageResponse is the classified result of one conversation turn
type MessageResponse struct {
	Context  map[string]interface{} `json:"context"`
	Output   MessageOutput          `json:"output"`
	Entities []Entity               `json:"entities"`
}

// MessageOutput holds the dialogue text produced by the service
type MessageOutput struct {
	Text []string `json:"text"`
}

// Entity is a slot extracted from the user's text
type Entity struct {
	Entity string `json:"entity"`
	Value  string `json:"value"`
}

// Message sends one turn of user text plus the opaque context from the
// previous turn and returns the classified response.
func (c *Client) Message(ctx context.Context, text string, convContext map[string]interface{}) (*MessageResponse, error) {
	url := fmt.Sprintf("%s/v1/workspaces/%s/message", c.baseURL, c.workspaceID)

	body, err := json.Marshal(messageRequest{
		Input:       messageInput{Text: text},
		Context:     convContext,
		WorkspaceID: c.workspaceID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewNLURequestFailed(c.workspaceID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewNLURequestFailed(c.workspaceID, fmt.Errorf("status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewNLURequestFailed(c.workspaceID, err)
	}

	var result MessageResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, apperrors.NewNLURequestFailed(c.workspaceID, fmt.Errorf("failed to parse response: %w", err))
	}

	c.logger.Debug("Conversation turn classified",
		zap.Int("output_lines", len(result.Output.Text)),
		zap.Int("entities", len(result.Entities)),
	)

	return &result, nil
}

// Signals are the dialogue flags the conversation service sets in the
// returned context. They are read out here so the turn handler never has to
// touch the opaque context blob itself.
type Signals struct {
	Favorites   bool
	Ingredients bool
	Selection   bool
	// SelectionNumber is the parsed numeric choice, -1 when absent or
	// unparseable
	SelectionNumber int
	// Cuisine is the extracted cuisine slot, empty when none was found
	Cuisine string
}

// Signals extracts the dialogue flags from the response without mutating it
func (r *MessageResponse) Signals() Signals {
	s := Signals{SelectionNumber: -1}

	s.Favorites = contextFlag(r.Context, "is_favorites")
	s.Ingredients = contextFlag(r.Context, "is_ingredients")
	s.Selection = contextFlag(r.Context, "is_selection")

	if raw, ok := r.Context["selection"]; ok {
		switch v := raw.(type) {
		case string:
			if n, err := strconv.Atoi(v); err == nil {
				s.SelectionNumber = n
			}
		case float64:
			s.SelectionNumber = int(v)
		case int:
			s.SelectionNumber = v
		}
	}

	for _, e := range r.Entities {
		if e.Entity == "cuisine" {
			s.Cuisine = e.Value
			break
		}
	}

	return s
}

func contextFlag(ctx map[string]interface{}, key string) bool {
	if ctx == nil {
		return false
	}
	if v, ok := ctx[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}
