package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"vaultcast/internal/model"
)

// MockVision returns a deterministic description without calling any API.
type MockVision struct{}

var _ Vision = MockVision{}

// Describe derives its answer from the image digest, size and content type.
func (MockVision) Describe(_ context.Context, image []byte, contentType, prompt string) (model.ImageAnalysis, error) {
	sum := sha256.Sum256(image)
	desc := fmt.Sprintf("Mock analysis of a %d byte %s image (sha256 %s).", len(image), contentType, hex.EncodeToString(sum[:])[:12])
	if prompt != "" {
		desc += " Prompt: " + prompt
	}
	return model.ImageAnalysis{
		Provider:    "mock",
		Model:       "mock-vision",
		Description: desc,
		ContentType: contentType,
		Size:        int64(len(image)),
	}, nil
}
