package processor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"adpulse-server/internal/clients/bluesky"
	"adpulse-server/internal/observability"
	"adpulse-server/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockFeedClient is a mock implementation of FeedClient
type MockFeedClient struct {
	mock.Mock
}

func (m *MockFeedClient) GetFollowers(ctx context.Context) ([]json.RawMessage, error) {
	args := m.Called(ctx)
	return args.Get(0).([]json.RawMessage), args.Error(1)
}

func (m *MockFeedClient) GetAuthorFeed(ctx context.Context) ([]bluesky.FeedItem, error) {
	args := m.Called(ctx)
	return args.Get(0).([]bluesky.FeedItem), args.Error(1)
}

func (m *MockFeedClient) GetPostThread(ctx context.Context, uri string) (bluesky.PostStats, error) {
	args := m.Called(ctx, uri)
	return args.Get(0).(bluesky.PostStats), args.Error(1)
}

// MockTweetStore is a mock implementation of TweetStore
type MockTweetStore struct {
	mock.Mock
}

func (m *MockTweetStore) ListCompanies(ctx context.Context) ([]store.CompanyAccount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]store.CompanyAccount), args.Error(1)
}

func newTestProcessor(feed *MockFeedClient, tweets *MockTweetStore) SocialProcessor {
	return New(feed, tweets, observability.NewLogger())
}

func TestFollowers_ReturnsListWithLength(t *testing.T) {
	feed := new(MockFeedClient)
	processor := newTestProcessor(feed, new(MockTweetStore))

	followers := []json.RawMessage{
		json.RawMessage(`{"handle":"alice.bsky.social"}`),
		json.RawMessage(`{"handle":"bob.bsky.social"}`),
	}
	feed.On("GetFollowers", mock.Anything).Return(followers, nil)

	result, err := processor.Followers(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Length)
	assert.Equal(t, followers, result.Followers)
}

func TestFollowers_VendorError(t *testing.T) {
	feed := new(MockFeedClient)
	processor := newTestProcessor(feed, new(MockTweetStore))

	feed.On("GetFollowers", mock.Anything).
		Return([]json.RawMessage(nil), errors.New("vendor down"))

	_, err := processor.Followers(context.Background())

	assert.Error(t, err)
}

func TestReach_SumsLikeCounts(t *testing.T) {
	feed := new(MockFeedClient)
	processor := newTestProcessor(feed, new(MockTweetStore))

	feed.On("GetAuthorFeed", mock.Anything).Return([]bluesky.FeedItem{
		{Raw: json.RawMessage(`{}`), LikeCount: 3},
		{Raw: json.RawMessage(`{}`), LikeCount: 0, IsReply: true},
		{Raw: json.RawMessage(`{}`), LikeCount: 7},
	}, nil)

	total, err := processor.Reach(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 10, total)
}

func TestMyPosts_FiltersReplies(t *testing.T) {
	feed := new(MockFeedClient)
	processor := newTestProcessor(feed, new(MockTweetStore))

	original := bluesky.FeedItem{Raw: json.RawMessage(`{"post":{}}`), LikeCount: 1}
	reply := bluesky.FeedItem{Raw: json.RawMessage(`{"post":{},"reply":{}}`), IsReply: true}

	feed.On("GetAuthorFeed", mock.Anything).
		Return([]bluesky.FeedItem{original, reply, original}, nil)

	posts, err := processor.MyPosts(context.Background())

	assert.NoError(t, err)
	assert.Len(t, posts, 2)
	for _, p := range posts {
		assert.False(t, p.IsReply)
	}
}

func TestAllTweetRefs_FlattensAcrossCompaniesAndCampaigns(t *testing.T) {
	tweets := new(MockTweetStore)
	processor := newTestProcessor(new(MockFeedClient), tweets)

	refA := store.TweetRef{URI: "at://did:plc:a/app.bsky.feed.post/1", CID: "cid-a"}
	refB := store.TweetRef{URI: "at://did:plc:a/app.bsky.feed.post/2", CID: "cid-b"}
	refC := store.TweetRef{URI: "at://did:plc:b/app.bsky.feed.post/3", CID: "cid-c"}

	tweets.On("ListCompanies", mock.Anything).Return([]store.CompanyAccount{
		{
			ID: primitive.NewObjectID(),
			Products: []store.Product{
				{Tweets: []store.TweetRef{refA, refB}},
				{Tweets: nil},
			},
		},
		{
			ID:       primitive.NewObjectID(),
			Products: []store.Product{{Tweets: []store.TweetRef{refC}}},
		},
	}, nil)

	refs, err := processor.AllTweetRefs(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, []store.TweetRef{refA, refB, refC}, refs)
}

func TestAllTweetRefs_EmptyWhenNoCompanies(t *testing.T) {
	tweets := new(MockTweetStore)
	processor := newTestProcessor(new(MockFeedClient), tweets)

	tweets.On("ListCompanies", mock.Anything).Return([]store.CompanyAccount{}, nil)

	refs, err := processor.AllTweetRefs(context.Background())

	assert.NoError(t, err)
	assert.Empty(t, refs)
	assert.NotNil(t, refs)
}

func TestPostStats_LooksUpEveryStoredRef(t *testing.T) {
	feed := new(MockFeedClient)
	tweets := new(MockTweetStore)
	processor := newTestProcessor(feed, tweets)

	refA := store.TweetRef{URI: "at://did:plc:a/app.bsky.feed.post/1"}
	refB := store.TweetRef{URI: "at://did:plc:a/app.bsky.feed.post/2"}

	tweets.On("ListCompanies", mock.Anything).Return([]store.CompanyAccount{
		{Products: []store.Product{{Tweets: []store.TweetRef{refA, refB}}}},
	}, nil)
	feed.On("GetPostThread", mock.Anything, refA.URI).
		Return(bluesky.PostStats{URI: refA.URI, Text: "first", LikeCount: 4}, nil)
	feed.On("GetPostThread", mock.Anything, refB.URI).
		Return(bluesky.PostStats{URI: refB.URI, Text: "second", ReplyCount: 2}, nil)

	stats, err := processor.PostStats(context.Background())

	assert.NoError(t, err)
	assert.Len(t, stats, 2)
	assert.Equal(t, "first", stats[0].Text)
	assert.Equal(t, "second", stats[1].Text)
	feed.AssertExpectations(t)
}

func TestPostStats_StopsOnLookupError(t *testing.T) {
	feed := new(MockFeedClient)
	tweets := new(MockTweetStore)
	processor := newTestProcessor(feed, tweets)

	ref := store.TweetRef{URI: "at://did:plc:a/app.bsky.feed.post/1"}
	tweets.On("ListCompanies", mock.Anything).Return([]store.CompanyAccount{
		{Products: []store.Product{{Tweets: []store.TweetRef{ref}}}},
	}, nil)
	feed.On("GetPostThread", mock.Anything, ref.URI).
		Return(bluesky.PostStats{}, errors.New("vendor down"))

	_, err := processor.PostStats(context.Background())

	assert.Error(t, err)
}
