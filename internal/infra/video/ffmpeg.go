package video

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/bryanwahyu/media-analysis-bot/internal/domain/media"
)

// Extractor pulls the midpoint frame out of a video by shelling out to
// ffprobe (frame count) and ffmpeg (single-frame JPEG capture). The decoders
// need a filesystem path, so the upload is spilled to a uniquely named temp
// file that is removed on every exit path.
type Extractor struct {
	FFmpegPath  string
	FFprobePath string
	TempDir     string
}

func NewExtractor(ffmpegPath, ffprobePath, tempDir string) *Extractor {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Extractor{FFmpegPath: ffmpegPath, FFprobePath: ffprobePath, TempDir: tempDir}
}

// ExtractMidFrame selects frame total/2 (integer floor) and returns its JPEG
// bytes base64-encoded together with the decoded pixel buffer for display.
func (e *Extractor) ExtractMidFrame(ctx context.Context, r io.Reader) (*media.Payload, error) {
	tmp, err := os.CreateTemp(e.TempDir, "upload-*.mp4")
	if err != nil {
		return nil, fmt.Errorf("%w: create temp file: %v", media.ErrDecode, err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("%w: persist upload: %v", media.ErrDecode, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("%w: persist upload: %v", media.ErrDecode, err)
	}

	total, err := e.countFrames(ctx, path)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: video has no frames", media.ErrDecode)
	}

	mid := midFrame(total)
	frameData, err := e.captureFrame(ctx, path, mid)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(frameData))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid frame data: %v", media.ErrDecode, err)
	}

	bounds := img.Bounds()
	frame := &media.Frame{
		JPEG:   frameData,
		Image:  img,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Index:  mid,
		Total:  total,
	}
	return &media.Payload{
		Base64: base64.StdEncoding.EncodeToString(frameData),
		Frame:  frame,
	}, nil
}

// midFrame is the sole frame selection policy: exact integer floor, no
// interpolation, no sampling.
func midFrame(total int) int { return total / 2 }

func (e *Extractor) countFrames(ctx context.Context, path string) (int, error) {
	args := []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-count_frames",
		"-show_entries", "stream=nb_read_frames",
		"-of", "csv=p=0",
		path,
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.FFprobePath, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("%w: ffprobe failed: %v (%s)", media.ErrDecode, err, strings.TrimSpace(stderr.String()))
	}

	return parseFrameCount(stdout.String())
}

func parseFrameCount(out string) (int, error) {
	out = strings.TrimSpace(out)
	n, err := strconv.Atoi(out)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: unreadable frame count %q", media.ErrDecode, out)
	}
	return n, nil
}

func (e *Extractor) captureFrame(ctx context.Context, path string, index int) ([]byte, error) {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", path,
		"-vf", fmt.Sprintf("select=eq(n\\,%d)", index),
		"-vsync", "0",
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-",
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.FFmpegPath, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: ffmpeg capture failed: %v (%s)", media.ErrDecode, err, strings.TrimSpace(stderr.String()))
	}

	frameData := stdout.Bytes()
	if len(frameData) == 0 {
		return nil, fmt.Errorf("%w: no frame data captured", media.ErrDecode)
	}
	return frameData, nil
}
