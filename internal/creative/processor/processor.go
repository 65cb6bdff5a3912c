package processor

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"adpulse-server/internal/observability"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// ImageGenerator defines the inference operation required by CreativeProcessor
type ImageGenerator interface {
	TextToImage(ctx context.Context, model, prompt string) ([]byte, error)
}

var (
	ErrNoImage     = errors.New("no image available")
	ErrUnknownSlot = errors.New("unknown image model slot")
)

// Model slots exposed on the image endpoints, in the order the dashboard
// offers them.
var slotModels = map[int]string{
	1: "stabilityai/stable-diffusion-xl-base-1.0",
	2: "XLabs-AI/flux-RealismLora",
	3: "stabilityai/stable-diffusion-3.5-large-turbo",
}

const captionModel = "gemini-2.0-flash-exp"

const captionPrompt = "Generate 5 different captions for this image. Give the output in the form of " +
	"markdown. Also dont give any other information, just give the 5 points in a numbered manner in " +
	"markdown. This is the image for an ad campaign, make some nice spicy captions as if it were for " +
	"a professional marketing company."

const imageCacheCapacity = 16

type CreativeProcessor struct {
	generator    ImageGenerator
	geminiAPIKey string
	cache        *imageCache
	logger       *observability.Logger
}

func New(generator ImageGenerator, geminiAPIKey string, logger *observability.Logger) *CreativeProcessor {
	return &CreativeProcessor{
		generator:    generator,
		geminiAPIKey: geminiAPIKey,
		cache:        newImageCache(imageCacheCapacity),
		logger:       logger,
	}
}

// GeneratedImage is the result of one text-to-image call. ID identifies the
// retained payload for a follow-up caption request.
type GeneratedImage struct {
	ID      string `json:"image_id"`
	DataURI string `json:"image_data"`
}

// GenerateImage runs the model behind the given slot on the prompt, retains
// the result for captioning, and returns it as a data URI.
func (p *CreativeProcessor) GenerateImage(ctx context.Context, slot int, prompt string) (GeneratedImage, error) {
	model, ok := slotModels[slot]
	if !ok {
		return GeneratedImage{}, ErrUnknownSlot
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "image_model", Value: model})

	image, err := p.generator.TextToImage(ctx, model, prompt)
	if err != nil {
		p.logger.Error(ctx, "image generation failed", err)
		return GeneratedImage{}, err
	}

	encoded := base64.StdEncoding.EncodeToString(image)
	id := uuid.New().String()
	p.cache.Put(id, encoded)

	p.logger.Info(ctx, "image generated")
	return GeneratedImage{
		ID:      id,
		DataURI: "data:image/jpeg;base64," + encoded,
	}, nil
}

// Caption generates ad-campaign captions for the identified image. When
// imageID is empty the most recently generated image is used, preserving the
// generate-then-caption call sequence of the dashboard.
func (p *CreativeProcessor) Caption(ctx context.Context, imageID string) (string, error) {
	var encoded string
	var ok bool
	if imageID != "" {
		encoded, ok = p.cache.Get(imageID)
	} else {
		encoded, ok = p.cache.Latest()
	}
	if !ok {
		return "", ErrNoImage
	}

	image, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode cached image: %w", err)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.geminiAPIKey))
	if err != nil {
		p.logger.Error(ctx, "failed to create AI client", err)
		return "", fmt.Errorf("failed to create AI client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(captionModel)
	resp, err := model.GenerateContent(ctx, genai.Text(captionPrompt), genai.ImageData("jpeg", image))
	if err != nil {
		p.logger.Error(ctx, "caption generation failed", err)
		return "", fmt.Errorf("failed to generate caption: %w", err)
	}

	caption := extractText(resp)
	if caption == "" {
		return "", fmt.Errorf("caption model returned no text")
	}
	return caption, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}
	return text
}
