package media

import (
	"context"
	"io"
)

// Encoder port: image bytes in, base64 payload out.
type Encoder interface {
	Encode(r io.Reader) (*Payload, error)
}

// FrameExtractor port: video bytes in, midpoint-frame payload out.
type FrameExtractor interface {
	ExtractMidFrame(ctx context.Context, r io.Reader) (*Payload, error)
}
