package bluesky

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"adpulse-server/internal/observability"
)

const defaultBaseURL = "https://public.api.bsky.app"

// Client queries the public Bluesky XRPC API for a fixed actor.
type Client struct {
	baseURL    string
	actorDID   string
	httpClient *http.Client
	logger     *observability.Logger
}

// NewClient creates a client for the public Bluesky API.
func NewClient(actorDID string, logger *observability.Logger) *Client {
	return &Client{
		baseURL:  defaultBaseURL,
		actorDID: actorDID,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// NewClientWithBaseURL creates a client pointed at a non-default endpoint.
func NewClientWithBaseURL(baseURL, actorDID string, logger *observability.Logger) *Client {
	c := NewClient(actorDID, logger)
	c.baseURL = baseURL
	return c
}

// FeedItem is one entry of an author feed. Raw preserves the vendor's full
// payload for pass-through responses; LikeCount and IsReply are the only
// fields this service derives values from.
type FeedItem struct {
	Raw       json.RawMessage
	LikeCount int
	IsReply   bool
}

// MarshalJSON passes the vendor payload through unchanged.
func (f FeedItem) MarshalJSON() ([]byte, error) {
	return f.Raw, nil
}

// PostStats is the reduced shape of a post thread lookup.
type PostStats struct {
	Text       string `json:"text"`
	ReplyCount int    `json:"replyCount"`
	LikeCount  int    `json:"likeCount"`
	CreatedAt  string `json:"createdAt"`
	URI        string `json:"uri"`
}

// GetFollowers returns the actor's followers (vendor default page, capped at
// 100 per the original call).
func (c *Client) GetFollowers(ctx context.Context) ([]json.RawMessage, error) {
	query := url.Values{"actor": {c.actorDID}, "limit": {"100"}}
	var response struct {
		Followers []json.RawMessage `json:"followers"`
	}
	if err := c.get(ctx, "/xrpc/app.bsky.graph.getFollowers", query, &response); err != nil {
		return nil, err
	}
	return response.Followers, nil
}

// GetAuthorFeed returns the actor's feed with like counts and reply flags
// extracted from each item.
func (c *Client) GetAuthorFeed(ctx context.Context) ([]FeedItem, error) {
	query := url.Values{"actor": {c.actorDID}}
	var response struct {
		Feed []json.RawMessage `json:"feed"`
	}
	if err := c.get(ctx, "/xrpc/app.bsky.feed.getAuthorFeed", query, &response); err != nil {
		return nil, err
	}

	items := make([]FeedItem, 0, len(response.Feed))
	for _, raw := range response.Feed {
		var probe struct {
			Post struct {
				LikeCount int `json:"likeCount"`
			} `json:"post"`
			Reply json.RawMessage `json:"reply"`
		}
		if err := json.Unmarshal(raw, &probe); err != nil {
			return nil, fmt.Errorf("failed to parse feed item: %w", err)
		}
		items = append(items, FeedItem{
			Raw:       raw,
			LikeCount: probe.Post.LikeCount,
			IsReply:   len(probe.Reply) > 0,
		})
	}
	return items, nil
}

// GetPostThread looks up a post by URI and reduces it to its display stats.
func (c *Client) GetPostThread(ctx context.Context, uri string) (PostStats, error) {
	query := url.Values{"uri": {uri}}
	var response struct {
		Thread struct {
			Post struct {
				Record struct {
					Text string `json:"text"`
				} `json:"record"`
				ReplyCount int    `json:"replyCount"`
				LikeCount  int    `json:"likeCount"`
				IndexedAt  string `json:"indexedAt"`
			} `json:"post"`
		} `json:"thread"`
	}
	if err := c.get(ctx, "/xrpc/app.bsky.feed.getPostThread", query, &response); err != nil {
		return PostStats{}, err
	}
	return PostStats{
		Text:       response.Thread.Post.Record.Text,
		ReplyCount: response.Thread.Post.ReplyCount,
		LikeCount:  response.Thread.Post.LikeCount,
		CreatedAt:  response.Thread.Post.IndexedAt,
		URI:        uri,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create bluesky request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(ctx, "failed to call bluesky API", err)
		return fmt.Errorf("failed to call bluesky API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bluesky API returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse bluesky response: %w", err)
	}
	return nil
}
