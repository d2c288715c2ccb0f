package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"vaultcast/internal/ai"
	"vaultcast/internal/model"
	"vaultcast/internal/validation"
)

// MaxImageBytes is the largest accepted upload.
const MaxImageBytes = 10 << 20

// Vision providers.
const (
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

// AnalyzeRequest is an uploaded image plus options.
type AnalyzeRequest struct {
	Image       []byte
	ContentType string
	Prompt      string
	Provider    string
}

// VisionService proxies images to a vision provider.
type VisionService interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (*model.ImageAnalysis, error)
}

type visionService struct {
	openai     ai.Vision
	configured bool
	mock       ai.Vision
}

// NewVisionService constructs a VisionService. When configured is false the
// default provider is the mock.
func NewVisionService(openai ai.Vision, configured bool) VisionService {
	return &visionService{openai: openai, configured: configured, mock: ai.MockVision{}}
}

func (s *visionService) Analyze(ctx context.Context, req AnalyzeRequest) (*model.ImageAnalysis, error) {
	if len(req.Image) > MaxImageBytes {
		return nil, ErrImageTooLarge
	}
	if len(req.Image) == 0 {
		return nil, validation.Fail("image", "image is required")
	}

	ct := req.ContentType
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(req.Image)
	}
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if !strings.HasPrefix(ct, "image/") {
		return nil, ErrUnsupportedImage
	}

	var provider ai.Vision
	switch strings.ToLower(req.Provider) {
	case "":
		provider = s.mock
		if s.configured {
			provider = s.openai
		}
	case ProviderOpenAI:
		if !s.configured {
			return nil, ErrAIUnavailable
		}
		provider = s.openai
	case ProviderMock:
		provider = s.mock
	default:
		return nil, validation.Fail("provider", "provider must be one of [openai mock]")
	}

	res, err := provider.Describe(ctx, req.Image, ct, req.Prompt)
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			return nil, ErrAIUnavailable
		}
		return nil, err
	}
	return &res, nil
}
