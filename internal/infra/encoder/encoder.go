package encoder

import (
	"encoding/base64"
	"fmt"
	"io"

	"github.com/bryanwahyu/media-analysis-bot/internal/domain/media"
)

// PassThrough base64-encodes the exact uploaded bytes. No transcoding: the
// payload decodes back to the original file content.
type PassThrough struct{}

func New() *PassThrough { return &PassThrough{} }

func (*PassThrough) Encode(r io.Reader) (*media.Payload, error) {
	// Rewind when the caller hands us something already read from.
	if s, ok := r.(io.Seeker); ok {
		if _, err := s.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("%w: %v", media.ErrEncoding, err)
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", media.ErrEncoding, err)
	}

	return &media.Payload{Base64: base64.StdEncoding.EncodeToString(data)}, nil
}
