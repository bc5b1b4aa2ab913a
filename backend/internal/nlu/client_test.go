package nlu

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "sous-chef/backend/pkg/errors"
)

func TestClient_Message(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/workspaces/ws-1/message", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ws-1", req["workspace_id"])

		// Echo the context back with a flag set, the way the dialogue
		// service carries state across turns.
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"context":  map[string]interface{}{"is_ingredients": true, "turn": float64(2)},
			"output":   map[string]interface{}{"text": []string{"Got it.", "Anything else?"}},
			"entities": []map[string]string{},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "ws-1", 5*time.Second)
	resp, err := client.Message(context.Background(), "onions and tomatoes", map[string]interface{}{"turn": 1})
	require.NoError(t, err)

	assert.Equal(t, []string{"Got it.", "Anything else?"}, resp.Output.Text)
	assert.True(t, resp.Signals().Ingredients)
	assert.False(t, resp.Signals().Favorites)
}

func TestClient_Message_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "ws-1", 5*time.Second)
	_, err := client.Message(context.Background(), "hello", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNLU))

	var reqErr *apperrors.ErrNLURequestFailed
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "ws-1", reqErr.WorkspaceID)
}

func TestSignals_Selection(t *testing.T) {
	tests := []struct {
		name string
		ctx  map[string]interface{}
		want int
	}{
		{
			name: "string selection",
			ctx:  map[string]interface{}{"is_selection": true, "selection": "3"},
			want: 3,
		},
		{
			name: "numeric selection",
			ctx:  map[string]interface{}{"is_selection": true, "selection": float64(2)},
			want: 2,
		},
		{
			name: "missing selection",
			ctx:  map[string]interface{}{"is_selection": true},
			want: -1,
		},
		{
			name: "unparseable selection",
			ctx:  map[string]interface{}{"is_selection": true, "selection": "banana"},
			want: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &MessageResponse{Context: tt.ctx}
			s := resp.Signals()
			assert.True(t, s.Selection)
			assert.Equal(t, tt.want, s.SelectionNumber)
		})
	}
}

func TestSignals_CuisineEntity(t *testing.T) {
	resp := &MessageResponse{
		Entities: []Entity{{Entity: "cuisine", Value: "Italian"}},
	}
	assert.Equal(t, "Italian", resp.Signals().Cuisine)

	resp = &MessageResponse{}
	assert.Equal(t, "", resp.Signals().Cuisine)
}
