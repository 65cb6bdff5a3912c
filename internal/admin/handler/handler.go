package handler

import (
	"errors"
	"net/http"
	"strconv"

	"adpulse-server/internal/admin/processor"
	"adpulse-server/internal/apierrors"
	authHandler "adpulse-server/internal/auth/handler"
	"adpulse-server/internal/observability"
	"adpulse-server/internal/store"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	processor processor.AdminProcessor
	logger    *observability.Logger
}

func New(processor processor.AdminProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

type UpdateComplaintStatusRequest struct {
	TweetID   string `json:"tweetId" binding:"required"`
	NewStatus string `json:"newStatus" binding:"required"`
}

type ToggleCampaignStatusRequest struct {
	CampaignIndex *int `json:"campaignIndex" binding:"required"`
}

type AddCampaignRequest struct {
	Name             string            `json:"name" binding:"required"`
	Description      string            `json:"description"`
	TargetedAudience string            `json:"targetedAudience"`
	Category         []string          `json:"category"`
	IsActive         *bool             `json:"isActive"`
	Tweets           []TweetRefRequest `json:"tweets" binding:"dive"`
}

type TweetRefRequest struct {
	URI string `json:"uri" binding:"required"`
	CID string `json:"cid" binding:"required"`
}

func (h *Handler) HandleUpdateComplaintStatus(c *gin.Context) {
	var req UpdateComplaintStatusRequest
	ctx := c.Request.Context()
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, err.Error())
		return
	}

	err := h.processor.UpdateComplaintStatus(ctx, companyID(c), req.TweetID, req.NewStatus)
	if err != nil {
		h.respondOperationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Complaint Status updated successfully"})
}

func (h *Handler) HandleAddCampaign(c *gin.Context) {
	var req AddCampaignRequest
	ctx := c.Request.Context()
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, err.Error())
		return
	}

	tweets := make([]store.TweetRef, 0, len(req.Tweets))
	for _, t := range req.Tweets {
		tweets = append(tweets, store.TweetRef{URI: t.URI, CID: t.CID})
	}

	_, err := h.processor.AddCampaign(ctx, companyID(c), processor.CampaignParams{
		Name:             req.Name,
		Description:      req.Description,
		TargetedAudience: req.TargetedAudience,
		Category:         req.Category,
		IsActive:         req.IsActive,
		Tweets:           tweets,
	})
	if err != nil {
		h.respondOperationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Campaign updated successfully"})
}

func (h *Handler) HandleDeleteCampaign(c *gin.Context) {
	ctx := c.Request.Context()
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, "campaign index must be a number")
		return
	}

	if err := h.processor.DeleteCampaign(ctx, companyID(c), index); err != nil {
		h.respondOperationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Campaign deleted successfully"})
}

func (h *Handler) HandleToggleCampaignStatus(c *gin.Context) {
	var req ToggleCampaignStatusRequest
	ctx := c.Request.Context()
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, err.Error())
		return
	}

	if err := h.processor.ToggleCampaignStatus(ctx, companyID(c), *req.CampaignIndex); err != nil {
		h.respondOperationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Campaign Status updated successfully"})
}

func (h *Handler) respondOperationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, processor.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, processor.ErrCampaignNotFound):
		apierrors.NotFound(c, "Campaign not found")
	case errors.Is(err, processor.ErrComplaintNotFound):
		apierrors.NotFound(c, "Complaint not found")
	case errors.Is(err, processor.ErrInvalidStatus):
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, "Invalid complaint status")
	default:
		apierrors.InternalError(c, err)
	}
}

func companyID(c *gin.Context) string {
	id, _ := c.Get(authHandler.CompanyIDKey)
	s, _ := id.(string)
	return s
}
