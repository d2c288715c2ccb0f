package model

// ImageAnalysis is the result returned by a vision provider.
type ImageAnalysis struct {
	Provider    string `json:"provider"`
	Model       string `json:"model,omitempty"`
	Description string `json:"description"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}
