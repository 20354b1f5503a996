package media

import "errors"

var (
	// ErrUnsupportedType indicates a file extension outside the accepted set.
	ErrUnsupportedType = errors.New("unsupported media type")

	// ErrSizeLimit indicates an upload over the hard size limit.
	ErrSizeLimit = errors.New("file is too large")

	// ErrEncoding indicates the upload stream could not be read.
	ErrEncoding = errors.New("error encoding file")

	// ErrDecode indicates the video could not be opened, has no frames, or the
	// midpoint frame could not be read.
	ErrDecode = errors.New("error processing video")
)
