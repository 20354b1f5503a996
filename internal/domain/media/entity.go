package media

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
)

// Kind enum
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Accepted upload extensions per kind
var kindByExt = map[string]Kind{
	".jpg":  KindImage,
	".jpeg": KindImage,
	".png":  KindImage,
	".mp4":  KindVideo,
}

// KindFromFilename maps a filename extension to a media kind.
func KindFromFilename(name string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(name))
	kind, ok := kindByExt[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q (allowed: jpg, jpeg, png, mp4)", ErrUnsupportedType, ext)
	}
	return kind, nil
}

// DefaultMaxUploadBytes is the enforced hard limit. A lower 5MB figure shows up
// in the shell as advisory tips text only.
const DefaultMaxUploadBytes int64 = 10 << 20

// CheckSize rejects uploads over the limit before any encode/decode work runs.
func CheckSize(size, limit int64) error {
	if limit <= 0 {
		limit = DefaultMaxUploadBytes
	}
	if size > limit {
		return fmt.Errorf("%w: %.1f MB (limit %d MB)", ErrSizeLimit, float64(size)/(1024*1024), limit>>20)
	}
	return nil
}

// Asset is one uploaded file. It lives for the duration of a single request.
type Asset struct {
	Filename string
	Kind     Kind
	Size     int64
}

// Frame is the midpoint frame of a video: the JPEG bytes that go into the
// payload plus the decoded pixel buffer the shell may render. The core never
// performs display I/O itself.
type Frame struct {
	JPEG   []byte
	Image  image.Image
	Width  int
	Height int
	Index  int
	Total  int
}

// Payload is a base64 string of a single JPEG/PNG image, always derived from
// exactly one asset. Frame is set for video uploads only.
type Payload struct {
	Base64 string
	Frame  *Frame
}
