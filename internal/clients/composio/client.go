package composio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"adpulse-server/internal/observability"
)

const defaultBaseURL = "https://backend.composio.dev"

const gmailScopes = "https://www.googleapis.com/auth/gmail.modify," +
	"https://www.googleapis.com/auth/userinfo.profile"

// ErrVendor marks failures reported by the Composio API itself, as opposed to
// transport-level problems. Handlers surface these as 400 with the vendor's
// message.
var ErrVendor = errors.New("composio request failed")

// OAuthClientCredentials are the Google OAuth client credentials handed to
// Composio when creating the Gmail integration.
type OAuthClientCredentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Client talks to the Composio connector platform.
type Client struct {
	baseURL     string
	credentials OAuthClientCredentials
	httpClient  *http.Client
	logger      *observability.Logger
}

// NewClient creates a new Composio client. The per-tenant API key is supplied
// on each call since callers pass their own key in the request body.
func NewClient(credentials OAuthClientCredentials, logger *observability.Logger) *Client {
	return &Client{
		baseURL:     defaultBaseURL,
		credentials: credentials,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// NewClientWithBaseURL creates a client pointed at a non-default endpoint.
func NewClientWithBaseURL(baseURL string, credentials OAuthClientCredentials, logger *observability.Logger) *Client {
	c := NewClient(credentials, logger)
	c.baseURL = baseURL
	return c
}

type app struct {
	AppID string `json:"appId"`
	Key   string `json:"key"`
	Name  string `json:"name"`
}

type integration struct {
	ID    string `json:"id"`
	AppID string `json:"appId"`
	Name  string `json:"name"`
}

type connectedAccount struct {
	ConnectedAccountID string `json:"connectedAccountId"`
	ConnectionStatus   string `json:"connectionStatus"`
	RedirectURL        string `json:"redirectUrl"`
}

// InitiateGmailConnection creates a Gmail integration for the given API key
// and initiates a connected account, returning the OAuth redirect URL the
// caller must open to authorize access.
func (c *Client) InitiateGmailConnection(ctx context.Context, apiKey string) (string, error) {
	var gmailApp app
	if err := c.do(ctx, apiKey, http.MethodGet, "/api/v1/apps/gmail", nil, &gmailApp); err != nil {
		return "", err
	}
	if gmailApp.AppID == "" {
		return "", fmt.Errorf("%w: failed to fetch Gmail app", ErrVendor)
	}

	createReq := map[string]any{
		"appId": gmailApp.AppID,
		"authConfig": map[string]string{
			"client_id":          c.credentials.ClientID,
			"client_secret":      c.credentials.ClientSecret,
			"oauth_redirect_uri": c.credentials.RedirectURI,
			"scopes":             gmailScopes,
		},
		"authScheme":          "OAUTH2",
		"forceNewIntegration": true,
		"name":                "gmail_1",
		"useComposioAuth":     false,
	}
	var createdIntegration integration
	if err := c.do(ctx, apiKey, http.MethodPost, "/api/v1/integrations", createReq, &createdIntegration); err != nil {
		return "", err
	}

	initiateReq := map[string]any{
		"integrationId": createdIntegration.ID,
		"entityId":      "default",
	}
	var account connectedAccount
	if err := c.do(ctx, apiKey, http.MethodPost, "/api/v1/connectedAccounts", initiateReq, &account); err != nil {
		return "", err
	}
	if account.RedirectURL == "" {
		return "", fmt.Errorf("%w: failed to generate authorization URL", ErrVendor)
	}

	c.logger.Info(ctx, "composio gmail connection initiated")
	return account.RedirectURL, nil
}

func (c *Client) do(ctx context.Context, apiKey, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal composio request: %w", err)
		}
		reqBody = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create composio request: %w", err)
	}
	req.Header.Set("X-API-Key", apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(ctx, "failed to call composio API", err)
		return fmt.Errorf("failed to call composio API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var vendorErr struct {
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&vendorErr); decodeErr == nil && vendorErr.Message != "" {
			return fmt.Errorf("%w: %s", ErrVendor, vendorErr.Message)
		}
		return fmt.Errorf("%w: status %d", ErrVendor, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to parse composio response: %w", err)
		}
	}
	return nil
}
