package model

import "time"

// Generation is one row of the legacy virtual_try_on_generations audit
// table. The table is best-effort: inserts that fail are logged, not
// propagated; the authoritative quota lives behind record_user_generation.
type Generation struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	UserImageURL      string    `json:"user_image_url,omitempty"`
	ClothingImageURL  string    `json:"clothing_image_url,omitempty"`
	GeneratedImageURL string    `json:"generated_image_url"`
	ClothingName      string    `json:"clothing_name,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// GeneratedImage is the decoded output of one try-on call.
type GeneratedImage struct {
	Data     []byte
	MIMEType string
}

// FileExtension derives a storage object extension from the MIME type.
func (g *GeneratedImage) FileExtension() string {
	switch g.MIMEType {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	default:
		return "jpg"
	}
}
