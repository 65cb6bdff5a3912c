package handler

import (
	"errors"
	"net/http"
	"strconv"

	"adpulse-server/internal/apierrors"
	"adpulse-server/internal/creative/processor"
	"adpulse-server/internal/observability"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	processor *processor.CreativeProcessor
	logger    *observability.Logger
}

func New(processor *processor.CreativeProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

type GenerateImageRequest struct {
	Prompt string `json:"prompt"`
}

// HandleGenerateImage serves POST /image/:slot where slot selects the
// text-to-image model.
func (h *Handler) HandleGenerateImage(c *gin.Context) {
	ctx := c.Request.Context()
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		apierrors.NotFound(c, "Unknown image endpoint")
		return
	}

	var req GenerateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Prompt == "" {
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, "Prompt is required")
		return
	}

	image, err := h.processor.GenerateImage(ctx, slot, req.Prompt)
	if err != nil {
		if errors.Is(err, processor.ErrUnknownSlot) {
			apierrors.NotFound(c, "Unknown image endpoint")
			return
		}
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, image)
}

// HandleGenerateCaption serves GET /image/caption. An optional image_id query
// parameter selects which generated image to caption; without it the most
// recent image is used.
func (h *Handler) HandleGenerateCaption(c *gin.Context) {
	ctx := c.Request.Context()

	caption, err := h.processor.Caption(ctx, c.Query("image_id"))
	if err != nil {
		if errors.Is(err, processor.ErrNoImage) {
			apierrors.BadRequest(c, apierrors.CodeInvalidInput, "No image available")
			return
		}
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"caption": caption})
}
