package ai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lukasssicevs/drippler-web/internal/domain/ports/adapter"
)

const maxImageBytes = 20 << 20 // generation API inline-data ceiling

var _ adapter.ImageFetcher = (*ImageFetcher)(nil)

// ImageFetcher downloads source images by URL for the generation request.
type ImageFetcher struct {
	client *http.Client
}

func NewImageFetcher() *ImageFetcher {
	return &ImageFetcher{client: &http.Client{Timeout: 30 * time.Second}}
}

// Fetch downloads one image. The MIME type comes from the response header,
// falling back to the URL extension and finally image/jpeg.
func (f *ImageFetcher) Fetch(ctx context.Context, imageURL string) (adapter.ImageInput, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return adapter.ImageInput{}, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return adapter.ImageInput{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return adapter.ImageInput{}, fmt.Errorf("fetch image: http %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return adapter.ImageInput{}, err
	}

	mime := resp.Header.Get("Content-Type")
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if mime == "" || !strings.HasPrefix(mime, "image/") {
		mime = mimeFromURL(imageURL)
	}
	return adapter.ImageInput{Data: data, MIMEType: mime}, nil
}

var extMimeTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"svg":  "image/svg+xml",
}

func mimeFromURL(raw string) string {
	path := raw
	if u, err := url.Parse(raw); err == nil {
		path = u.Path
	}
	if i := strings.LastIndex(path, "."); i >= 0 {
		if m, ok := extMimeTypes[strings.ToLower(path[i+1:])]; ok {
			return m
		}
	}
	return "image/jpeg"
}
