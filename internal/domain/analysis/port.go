package analysis

import "context"

// VisionClient port: one blocking question about one base64 image.
type VisionClient interface {
	Ask(ctx context.Context, payload, query string) (string, error)
}

// Repository port for the optional analysis history.
type Repository interface {
	Save(ctx context.Context, a *Analysis) error
	Latest(ctx context.Context, limit int) ([]*Analysis, error)
}

// ArtifactStore port for the optional frame archive.
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
