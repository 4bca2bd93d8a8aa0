package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/lukasssicevs/drippler-web/internal/domain"
	"github.com/lukasssicevs/drippler-web/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.ImageGenerator = (*OpenAIAdapter)(nil)

// OpenAIAdapter is the fallback generator against the OpenAI images/edits
// endpoint (or any compatible gateway).
type OpenAIAdapter struct {
	apiKey string
	base   string // e.g., https://api.openai.com/v1
	model  string
	client *http.Client
}

func NewOpenAIAdapter(apiKey, base, model string) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-image-1"
	}
	return &OpenAIAdapter{
		apiKey: apiKey,
		base:   strings.TrimRight(base, "/"),
		model:  model,
		client: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

func (o *OpenAIAdapter) GenerateTryOn(ctx context.Context, req adapter.TryOnRequest) (*adapter.TryOnResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := writeImagePart(w, "image[]", "person", req.PersonImage); err != nil {
		return nil, err
	}
	if err := writeImagePart(w, "image[]", "garment", req.GarmentImage); err != nil {
		return nil, err
	}
	_ = w.WriteField("model", o.model)
	_ = w.WriteField("prompt", req.Prompt)
	if err := w.Close(); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.base+"/images/edits", &buf)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		text := strings.TrimSpace(string(body))
		if strings.Contains(strings.ToLower(text), "content_policy") ||
			strings.Contains(strings.ToLower(text), "safety") {
			return nil, domain.ErrProhibitedContent
		}
		return nil, fmt.Errorf("openai http %d: %s", resp.StatusCode, text)
	}

	var payload struct {
		Data []struct {
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if len(payload.Data) == 0 || payload.Data[0].B64JSON == "" {
		return nil, errors.New("openai: no image data in response")
	}
	data, err := base64.StdEncoding.DecodeString(payload.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("openai: decode image: %w", err)
	}
	return &adapter.TryOnResult{Data: data, MIMEType: "image/png"}, nil
}

func writeImagePart(w *multipart.Writer, field, name string, img adapter.ImageInput) error {
	ext := "jpg"
	if parts := strings.SplitN(img.MIMEType, "/", 2); len(parts) == 2 && parts[1] != "" {
		ext = parts[1]
	}
	fw, err := w.CreateFormFile(field, fmt.Sprintf("%s.%s", name, ext))
	if err != nil {
		return err
	}
	_, err = fw.Write(img.Data)
	return err
}
