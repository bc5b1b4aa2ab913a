package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsErrorType(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		errType ErrorType
		want    bool
	}{
		{"graph query failure", NewGraphQueryFailed("upsert Person", errors.New("boom")), ErrorTypeGraph, true},
		{"graph schema failure", NewGraphSchemaFailed(errors.New("boom")), ErrorTypeGraph, true},
		{"graph connection failure", NewGraphConnectionFailed("bolt://localhost", errors.New("refused")), ErrorTypeGraph, true},
		{"nlu request failure", NewNLURequestFailed("ws-1", errors.New("timeout")), ErrorTypeNLU, true},
		{"discord send failure", NewDiscordMessageSendFailed("chan-1", errors.New("closed")), ErrorTypeDiscord, true},
		{"catalog status", NewCatalogStatus(502), ErrorTypeCatalog, true},
		{"config missing", NewConfigMissingRequired("NEO4J_URI"), ErrorTypeConfig, true},
		{"wrong category", NewGraphQueryFailed("find Recipe", errors.New("boom")), ErrorTypeCatalog, false},
		{"plain error", errors.New("boom"), ErrorTypeGraph, false},
		{"nil error", nil, ErrorTypeGraph, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsErrorType(tt.err, tt.errType))
		})
	}
}

func TestIsErrorType_Wrapped(t *testing.T) {
	// Category detection survives fmt.Errorf wrapping on the way up
	err := fmt.Errorf("turn failed: %w", NewGraphQueryFailed("record selection", errors.New("deadlock")))
	assert.True(t, IsErrorType(err, ErrorTypeGraph))
	assert.False(t, IsErrorType(err, ErrorTypeNLU))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"graph query failure", NewGraphQueryFailed("favorite recipes", errors.New("boom")), true},
		{"catalog server error", NewCatalogStatus(503), true},
		{"catalog client error", NewCatalogStatus(404), false},
		{"catalog rate limit", NewCatalogStatus(429), false},
		{"catalog transport error", NewCatalogRequestFailed("/recipes/search", errors.New("reset")), true},
		{"nlu failure", NewNLURequestFailed("ws-1", errors.New("timeout")), false},
		{"config missing", NewConfigMissingRequired("NLU_URL"), false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
