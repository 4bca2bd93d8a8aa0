package adapter

import "context"

// ImageInput is one base64-ready source image for a try-on request.
type ImageInput struct {
	Data     []byte
	MIMEType string
}

// TryOnRequest is a single text+image+image multimodal generation request.
type TryOnRequest struct {
	Prompt       string
	PersonImage  ImageInput
	GarmentImage ImageInput
}

// TryOnResult carries the generated image bytes and their MIME type.
type TryOnResult struct {
	Data     []byte
	MIMEType string
}

// ImageFetcher downloads a source image by URL.
type ImageFetcher interface {
	Fetch(ctx context.Context, imageURL string) (ImageInput, error)
}

// ImageGenerator is the port for the external generative-image API.
//
// Implementations must return domain.ErrProhibitedContent when the provider
// flags the request or the result under its content policy, and
// domain.ErrNotConfigured when no API key is available.
type ImageGenerator interface {
	GenerateTryOn(ctx context.Context, req TryOnRequest) (*TryOnResult, error)
}
