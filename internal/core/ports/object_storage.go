package ports

import (
	"context"
	"io"
)

// StoredObject describes an uploaded image: the storage key and the public
// URL it is reachable at.
type StoredObject struct {
	Key string `json:"path"`
	URL string `json:"url"`
}

// ObjectStorage is the gateway to the image store.
type ObjectStorage interface {
	// Upload stores the content under a freshly generated key and returns it.
	Upload(ctx context.Context, r io.Reader, size int64, contentType string) (*StoredObject, error)
	// Delete removes the object a public URL points at. URLs outside the
	// configured public prefix are rejected with a validation error.
	Delete(ctx context.Context, url string) error
}
