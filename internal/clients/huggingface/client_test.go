package huggingface

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

func TestTextToImage_SendsPromptAndReturnsBytes(t *testing.T) {
	imageBytes := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/stabilityai/stable-diffusion-xl-base-1.0", r.URL.Path)
		assert.Equal(t, "Bearer hf-test-key", r.Header.Get("Authorization"))

		var req struct {
			Inputs     string `json:"inputs"`
			Parameters struct {
				NumInferenceSteps int `json:"num_inference_steps"`
			} `json:"parameters"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a red bicycle", req.Inputs)
		assert.Equal(t, 5, req.Parameters.NumInferenceSteps)

		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(imageBytes)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, "hf-test-key", observability.NewLogger())

	image, err := client.TextToImage(context.Background(), "stabilityai/stable-diffusion-xl-base-1.0", "a red bicycle")

	require.NoError(t, err)
	assert.Equal(t, imageBytes, image)
}

func TestTextToImage_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"Model is currently loading"}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, "hf-test-key", observability.NewLogger())

	_, err := client.TextToImage(context.Background(), "XLabs-AI/flux-RealismLora", "prompt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "Model is currently loading")
}
