package ports

import "context"

type BlobFetcher interface {
	// Returns the full content of the named blob.
	Fetch(ctx context.Context, name string) ([]byte, error)
}
