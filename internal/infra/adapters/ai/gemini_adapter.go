package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/lukasssicevs/drippler-web/internal/domain"
	"github.com/lukasssicevs/drippler-web/internal/domain/ports/adapter"
)

var _ adapter.ImageGenerator = (*GeminiAdapter)(nil)

// GeminiAdapter implements the try-on generator using the official SDK.
type GeminiAdapter struct {
	client *genai.Client
	model  string
}

func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, model string) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	if model == "" {
		model = "gemini-2.5-flash-image-preview"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{client: c, model: model}, nil
}

func (g *GeminiAdapter) GenerateTryOn(ctx context.Context, req adapter.TryOnRequest) (*adapter.TryOnResult, error) {
	contents := []*genai.Content{
		{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				{Text: req.Prompt},
				{InlineData: &genai.Blob{MIMEType: req.PersonImage.MIMEType, Data: req.PersonImage.Data}},
				{InlineData: &genai.Blob{MIMEType: req.GarmentImage.MIMEType, Data: req.GarmentImage.Data}},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	})
	if err != nil {
		if isProhibitedErr(err) {
			return nil, domain.ErrProhibitedContent
		}
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, errors.New("gemini: no candidates in response")
	}
	cand := resp.Candidates[0]
	if cand.FinishReason == genai.FinishReasonProhibitedContent {
		return nil, domain.ErrProhibitedContent
	}
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini: empty candidate content (finish reason: %s)", cand.FinishReason)
	}
	for _, p := range cand.Content.Parts {
		if p.InlineData != nil && len(p.InlineData.Data) > 0 {
			mime := p.InlineData.MIMEType
			if mime == "" {
				mime = "image/jpeg"
			}
			return &adapter.TryOnResult{Data: p.InlineData.Data, MIMEType: mime}, nil
		}
	}
	return nil, errors.New("gemini: no image data in response")
}

// isProhibitedErr classifies content-policy rejections. The typed finish
// reason is checked on the success path; this substring fallback covers
// errors surfaced before a candidate exists.
func isProhibitedErr(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "PROHIBITED_CONTENT") || strings.Contains(strings.ToLower(msg), "prohibited")
}
