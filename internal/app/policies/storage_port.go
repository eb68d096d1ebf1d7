package policies

import (
	"context"
	"io"
)

// PhotoStore uploads listing photos and returns a public URL.
type PhotoStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
}
