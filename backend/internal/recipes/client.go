package recipes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	apperrors "sous-chef/backend/pkg/errors"
	"sous-chef/backend/pkg/logger"
)

// Client handles communication with the external recipe catalog API
type Client struct {
	host       string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new recipe catalog client
func NewClient(host, apiKey string, timeout time.Duration) *Client {
	return &Client{
		host:   host,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Get(),
	}
}

// Recipe is a catalog search match
type Recipe struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Info is basic recipe metadata
type Info struct {
	Title          string `json:"title"`
	ReadyInMinutes int    `json:"readyInMinutes"`
	Servings       int    `json:"servings"`
}

// Step is one cooking instruction with the equipment it needs
type Step struct {
	Equipment []Equipment `json:"equipment"`
	Step      string      `json:"step"`
}

// Equipment is a named piece of cooking equipment
type Equipment struct {
	Name string `json:"name"`
}

// FindByIngredients searches the catalog for recipes using the given
// free-text ingredient list
func (c *Client) FindByIngredients(ctx context.Context, ingredients string) ([]Recipe, error) {
	path := fmt.Sprintf("/recipes/findByIngredients?fillIngredients=false&ingredients=%s&limitLicense=false&number=5&ranking=1",
		url.QueryEscape(ingredients))

	var recipes []Recipe
	if err := c.get(ctx, path, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// FindByCuisine searches the catalog for recipes of the given cuisine
func (c *Client) FindByCuisine(ctx context.Context, cuisine string) ([]Recipe, error) {
	path := fmt.Sprintf("/recipes/search?number=5&query=+&cuisine=%s", url.QueryEscape(cuisine))

	var result struct {
		Results []Recipe `json:"results"`
	}
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// GetInfoByID fetches basic metadata for a recipe
func (c *Client) GetInfoByID(ctx context.Context, id string) (*Info, error) {
	path := fmt.Sprintf("/recipes/%s/information?includeNutrition=false", url.PathEscape(id))

	var info Info
	if err := c.get(ctx, path, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetStepsByID fetches the analyzed cooking instructions for a recipe.
// A malformed or empty instructions payload yields an empty slice, not an
// error; the caller degrades to a "no instructions" rendering.
func (c *Client) GetStepsByID(ctx context.Context, id string) ([]Step, error) {
	path := fmt.Sprintf("/recipes/%s/analyzedInstructions", url.PathEscape(id))

	var instructions []struct {
		Steps []Step `json:"steps"`
	}
	if err := c.get(ctx, path, &instructions); err != nil {
		if _, ok := err.(*apperrors.ErrCatalogStatus); ok {
			return nil, err
		}
		c.logger.Warn("Malformed instructions payload, degrading to no instructions",
			zap.String("recipe_id", id),
			zap.Error(err),
		)
		return []Step{}, nil
	}
	if len(instructions) == 0 {
		return []Step{}, nil
	}
	return instructions[0].Steps, nil
}

// get issues a catalog GET and decodes the JSON body into out.
// A non-2xx status is reported as an error carrying the status code.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.host+path, nil)
	if err != nil {
		return apperrors.NewCatalogRequestFailed(path, err)
	}
	req.Header.Set("X-Mashape-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewCatalogRequestFailed(path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewCatalogStatus(resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewCatalogRequestFailed(path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.NewCatalogRequestFailed(path, err)
	}

	return nil
}
