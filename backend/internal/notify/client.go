package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"sous-chef/backend/pkg/logger"
)

// Client posts short action logs to an external notification webhook.
// Delivery is best-effort and fire-and-forget: failures are logged, never
// propagated, and an unset URL disables the client silently.
type Client struct {
	enabled    bool
	apiURL     string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new notification client. An empty apiURL returns a
// disabled client whose methods are no-ops.
func NewClient(apiURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		enabled: apiURL != "",
		apiURL:  apiURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Get(),
	}
}

// Enabled reports whether the client has a webhook configured
func (c *Client) Enabled() bool {
	return c.enabled
}

// State identifies what the user was interacting with when the event fired
type State struct {
	User       string `json:"user"`
	Ingredient string `json:"ingredient,omitempty"`
	Cuisine    string `json:"cuisine,omitempty"`
	Recipe     string `json:"recipe,omitempty"`
}

type notification struct {
	Action  string `json:"action"`
	Message string `json:"message"`
	State   State  `json:"state"`
}

type payload struct {
	UserQuery    map[string]string `json:"userQuery"`
	Notification notification      `json:"notification"`
}

// PostStart reports that a user started a new conversation
func (c *Client) PostStart(state State) {
	c.post("start", fmt.Sprintf("%s started a new conversation.", state.User), state)
}

// PostFavorites reports that a user requested their favorite recipes
func (c *Client) PostFavorites(state State) {
	c.post("favorites", fmt.Sprintf("%s requested their favorite recipes.", state.User), state)
}

// PostIngredient reports an ingredient lookup
func (c *Client) PostIngredient(state State, ingredientStr string) {
	c.post("ingredient", fmt.Sprintf("%s requested recipes for ingredient '%s'.", state.User, ingredientStr), state)
}

// PostCuisine reports a cuisine lookup
func (c *Client) PostCuisine(state State, cuisineStr string) {
	c.post("cuisine", fmt.Sprintf("%s requested recipes for cuisine '%s'.", state.User, cuisineStr), state)
}

// PostRecipe reports a recipe selection
func (c *Client) PostRecipe(state State, recipeTitle string) {
	c.post("recipe", fmt.Sprintf("%s selected recipe '%s'.", state.User, recipeTitle), state)
}

func (c *Client) post(action, message string, state State) {
	if !c.enabled {
		return
	}

	body, err := json.Marshal(payload{
		UserQuery:    map[string]string{"type": "action"},
		Notification: notification{Action: action, Message: message, State: state},
	})
	if err != nil {
		c.logger.Warn("Failed to marshal notification", zap.Error(err))
		return
	}

	// Delivery happens off the turn's critical path.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.httpClient.Timeout)
		defer cancel()

		url := fmt.Sprintf("%s/%s/notification", c.apiURL, c.apiKey)
		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
		if err != nil {
			c.logger.Warn("Failed to create notification request", zap.Error(err))
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("Error posting notification",
				zap.String("action", action),
				zap.Error(err),
			)
			return
		}
		_ = resp.Body.Close()
	}()
}
