package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"adpulse-server/internal/clients/bluesky"
	"adpulse-server/internal/observability"
	"adpulse-server/internal/store"
)

// FeedClient defines the Bluesky operations required by SocialProcessor
type FeedClient interface {
	GetFollowers(ctx context.Context) ([]json.RawMessage, error)
	GetAuthorFeed(ctx context.Context) ([]bluesky.FeedItem, error)
	GetPostThread(ctx context.Context, uri string) (bluesky.PostStats, error)
}

// TweetStore defines the database operations required by SocialProcessor
type TweetStore interface {
	ListCompanies(ctx context.Context) ([]store.CompanyAccount, error)
}

type SocialProcessor struct {
	feed   FeedClient
	store  TweetStore
	logger *observability.Logger
}

func New(feed FeedClient, store TweetStore, logger *observability.Logger) SocialProcessor {
	return SocialProcessor{
		feed:   feed,
		store:  store,
		logger: logger,
	}
}

// FollowersResult pairs the raw follower profiles with their count.
type FollowersResult struct {
	Followers []json.RawMessage `json:"followers"`
	Length    int               `json:"length"`
}

// Followers returns the actor's follower list and its length.
func (p *SocialProcessor) Followers(ctx context.Context) (FollowersResult, error) {
	followers, err := p.feed.GetFollowers(ctx)
	if err != nil {
		p.logger.Error(ctx, "failed to fetch followers", err)
		return FollowersResult{}, err
	}
	return FollowersResult{Followers: followers, Length: len(followers)}, nil
}

// Reach sums like counts across the actor's feed.
func (p *SocialProcessor) Reach(ctx context.Context) (int, error) {
	feed, err := p.feed.GetAuthorFeed(ctx)
	if err != nil {
		p.logger.Error(ctx, "failed to fetch author feed", err)
		return 0, err
	}
	totalLikes := 0
	for _, item := range feed {
		totalLikes += item.LikeCount
	}
	return totalLikes, nil
}

// ReachFeed returns the actor's feed unmodified.
func (p *SocialProcessor) ReachFeed(ctx context.Context) ([]bluesky.FeedItem, error) {
	feed, err := p.feed.GetAuthorFeed(ctx)
	if err != nil {
		p.logger.Error(ctx, "failed to fetch author feed", err)
		return nil, err
	}
	return feed, nil
}

// MyPosts returns the actor's feed with reply items filtered out.
func (p *SocialProcessor) MyPosts(ctx context.Context) ([]bluesky.FeedItem, error) {
	feed, err := p.feed.GetAuthorFeed(ctx)
	if err != nil {
		p.logger.Error(ctx, "failed to fetch author feed", err)
		return nil, err
	}
	posts := make([]bluesky.FeedItem, 0, len(feed))
	for _, item := range feed {
		if !item.IsReply {
			posts = append(posts, item)
		}
	}
	return posts, nil
}

// AllTweetRefs flattens every company's campaign tweet refs into one list.
func (p *SocialProcessor) AllTweetRefs(ctx context.Context) ([]store.TweetRef, error) {
	companies, err := p.store.ListCompanies(ctx)
	if err != nil {
		p.logger.Error(ctx, "failed to list companies", err)
		return nil, err
	}
	refs := make([]store.TweetRef, 0)
	for _, company := range companies {
		for _, product := range company.Products {
			refs = append(refs, product.Tweets...)
		}
	}
	return refs, nil
}

// PostStats looks up the thread of every stored tweet ref and returns each
// post's text and engagement counts. Lookups are issued sequentially against
// the vendor's public API.
func (p *SocialProcessor) PostStats(ctx context.Context) ([]bluesky.PostStats, error) {
	refs, err := p.AllTweetRefs(ctx)
	if err != nil {
		return nil, err
	}

	stats := make([]bluesky.PostStats, 0, len(refs))
	for _, ref := range refs {
		post, err := p.feed.GetPostThread(ctx, ref.URI)
		if err != nil {
			p.logger.Error(ctx, fmt.Sprintf("failed to fetch post thread for %s", ref.URI), err)
			return nil, err
		}
		stats = append(stats, post)
	}
	return stats, nil
}
