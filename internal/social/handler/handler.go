package handler

import (
	"net/http"

	"adpulse-server/internal/apierrors"
	"adpulse-server/internal/observability"
	"adpulse-server/internal/social/processor"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	processor processor.SocialProcessor
	logger    *observability.Logger
}

func New(processor processor.SocialProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

func (h *Handler) HandleGetFollowers(c *gin.Context) {
	result, err := h.processor.Followers(c.Request.Context())
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) HandleGetReach(c *gin.Context) {
	totalLikes, err := h.processor.Reach(c.Request.Context())
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, totalLikes)
}

func (h *Handler) HandleGetReachFeed(c *gin.Context) {
	feed, err := h.processor.ReachFeed(c.Request.Context())
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (h *Handler) HandleGetMyPosts(c *gin.Context) {
	posts, err := h.processor.MyPosts(c.Request.Context())
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *Handler) HandleGetAllTweets(c *gin.Context) {
	refs, err := h.processor.AllTweetRefs(c.Request.Context())
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, refs)
}

func (h *Handler) HandleGetPosts(c *gin.Context) {
	stats, err := h.processor.PostStats(c.Request.Context())
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
