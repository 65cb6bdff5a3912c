package composio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"adpulse-server/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCredentials = OAuthClientCredentials{
	ClientID:     "google-client-id",
	ClientSecret: "google-client-secret",
	RedirectURI:  "https://backend.composio.dev/api/v1/auth-apps/add",
}

func TestInitiateGmailConnection_Success(t *testing.T) {
	var integrationReq map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "composio-api-key", r.Header.Get("X-API-Key"))
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/v1/apps/gmail":
			assert.Equal(t, http.MethodGet, r.Method)
			w.Write([]byte(`{"appId":"app-123","key":"gmail","name":"Gmail"}`))
		case "/api/v1/integrations":
			assert.Equal(t, http.MethodPost, r.Method)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&integrationReq))
			w.Write([]byte(`{"id":"integration-456","appId":"app-123","name":"gmail_1"}`))
		case "/api/v1/connectedAccounts":
			assert.Equal(t, http.MethodPost, r.Method)
			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "integration-456", req["integrationId"])
			assert.Equal(t, "default", req["entityId"])
			w.Write([]byte(`{"connectedAccountId":"acc-789","connectionStatus":"INITIATED","redirectUrl":"https://accounts.google.com/o/oauth2/auth?state=xyz"}`))
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, testCredentials, observability.NewLogger())

	url, err := client.InitiateGmailConnection(context.Background(), "composio-api-key")

	require.NoError(t, err)
	assert.Equal(t, "https://accounts.google.com/o/oauth2/auth?state=xyz", url)

	// The integration must be created with the configured OAuth client.
	assert.Equal(t, "app-123", integrationReq["appId"])
	assert.Equal(t, "OAUTH2", integrationReq["authScheme"])
	assert.Equal(t, false, integrationReq["useComposioAuth"])
	authConfig, ok := integrationReq["authConfig"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "google-client-id", authConfig["client_id"])
	assert.Equal(t, "google-client-secret", authConfig["client_secret"])
}

func TestInitiateGmailConnection_VendorError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid API key"}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, testCredentials, observability.NewLogger())

	_, err := client.InitiateGmailConnection(context.Background(), "bad-key")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVendor)
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestInitiateGmailConnection_MissingRedirectURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/apps/gmail":
			w.Write([]byte(`{"appId":"app-123"}`))
		case "/api/v1/integrations":
			w.Write([]byte(`{"id":"integration-456"}`))
		case "/api/v1/connectedAccounts":
			w.Write([]byte(`{"connectedAccountId":"acc-789","connectionStatus":"FAILED"}`))
		}
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, testCredentials, observability.NewLogger())

	_, err := client.InitiateGmailConnection(context.Background(), "composio-api-key")

	assert.ErrorIs(t, err, ErrVendor)
}
