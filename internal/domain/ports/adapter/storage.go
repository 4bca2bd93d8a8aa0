package adapter

import "context"

// ObjectStorage is the port for the hosted object-storage service.
type ObjectStorage interface {
	// Upload stores an object. Upsert is disabled: a name collision fails
	// outright rather than overwriting.
	Upload(ctx context.Context, object string, data []byte, contentType string) error

	// PublicURL returns the public download URL for an object.
	PublicURL(object string) string
}
