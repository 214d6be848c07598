package ports

import "context"

//go:generate mockgen -source=blob.go -destination=mocks/mock_blob.go -package=mocks

// BlobStore uploads content that is too large for the channel.
type BlobStore interface {
	// UploadText stores source text and returns its public URL.
	UploadText(ctx context.Context, content string) (string, error)
	// UploadAsset stores a binary asset and returns its public URL.
	UploadAsset(ctx context.Context, name string, data []byte) (string, error)
}
