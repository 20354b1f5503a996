package analysis

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	domain "github.com/bryanwahyu/media-analysis-bot/internal/domain/analysis"
	"github.com/bryanwahyu/media-analysis-bot/internal/domain/media"
)

type stubEncoder struct {
	payload *media.Payload
	err     error
	calls   int
}

func (s *stubEncoder) Encode(r io.Reader) (*media.Payload, error) {
	s.calls++
	return s.payload, s.err
}

type stubExtractor struct {
	payload *media.Payload
	err     error
	calls   int
}

func (s *stubExtractor) ExtractMidFrame(ctx context.Context, r io.Reader) (*media.Payload, error) {
	s.calls++
	return s.payload, s.err
}

type stubVision struct {
	answer     string
	err        error
	calls      int
	gotPayload string
	gotQuery   string
}

func (s *stubVision) Ask(ctx context.Context, payload, query string) (string, error) {
	s.calls++
	s.gotPayload = payload
	s.gotQuery = query
	return s.answer, s.err
}

type stubRepo struct {
	saved []*domain.Analysis
	err   error
}

func (s *stubRepo) Save(ctx context.Context, a *domain.Analysis) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, a)
	return nil
}

func (s *stubRepo) Latest(ctx context.Context, limit int) ([]*domain.Analysis, error) {
	return s.saved, nil
}

type stubStore struct {
	key  string
	data []byte
	err  error
}

func (s *stubStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.key = key
	s.data = data
	return "http://archive.local/" + key, nil
}

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

func newService(enc *stubEncoder, ext *stubExtractor, vis *stubVision) *Service {
	return &Service{
		Encoder:   enc,
		Extractor: ext,
		Vision:    vis,
		Clock:     fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	}
}

func TestAnalyze_ImageFlow(t *testing.T) {
	enc := &stubEncoder{payload: &media.Payload{Base64: "UEhPVE8="}}
	ext := &stubExtractor{}
	vis := &stubVision{answer: "The car is red."}
	svc := newService(enc, ext, vis)

	res, err := svc.Analyze(context.Background(), AnalyzeCommand{
		Filename: "photo.jpg",
		Size:     500 * 1024,
		Content:  bytes.NewReader([]byte("jpeg bytes")),
		Query:    "What color is the car?",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Analysis.Answer != "The car is red." {
		t.Errorf("expected answer from vision client, got %q", res.Analysis.Answer)
	}
	if res.Analysis.Kind != media.KindImage {
		t.Errorf("expected kind image, got %s", res.Analysis.Kind)
	}
	if res.Analysis.ID == "" {
		t.Error("expected a generated id")
	}
	if res.Frame != nil {
		t.Error("image analysis should carry no frame")
	}
	if enc.calls != 1 || ext.calls != 0 {
		t.Errorf("expected encoder only, got encoder=%d extractor=%d", enc.calls, ext.calls)
	}
	if vis.gotPayload != "UEhPVE8=" {
		t.Errorf("vision client got wrong payload %q", vis.gotPayload)
	}
	if vis.gotQuery != "What color is the car?" {
		t.Errorf("vision client got wrong query %q", vis.gotQuery)
	}
}

func TestAnalyze_VideoFlow(t *testing.T) {
	frame := &media.Frame{JPEG: []byte{0xFF, 0xD8, 0xFF}, Width: 640, Height: 360, Index: 50, Total: 101}
	enc := &stubEncoder{}
	ext := &stubExtractor{payload: &media.Payload{Base64: "RlJBTUU=", Frame: frame}}
	vis := &stubVision{answer: "A person is walking."}
	store := &stubStore{}
	repo := &stubRepo{}

	svc := newService(enc, ext, vis)
	svc.Artifacts = store
	svc.History = repo

	res, err := svc.Analyze(context.Background(), AnalyzeCommand{
		Filename: "clip.mp4",
		Size:     2 << 20,
		Content:  bytes.NewReader([]byte("mp4 bytes")),
		Query:    "What is happening?",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ext.calls != 1 || enc.calls != 0 {
		t.Errorf("expected extractor only, got encoder=%d extractor=%d", enc.calls, ext.calls)
	}
	if res.Frame != frame {
		t.Error("expected the extracted frame in the result")
	}
	if res.ArchiveURL == "" {
		t.Error("expected an archive URL when a store is configured")
	}
	wantKey := "frames/" + res.Analysis.ID + ".jpg"
	if store.key != wantKey {
		t.Errorf("expected archive key %q, got %q", wantKey, store.key)
	}
	if !bytes.Equal(store.data, frame.JPEG) {
		t.Error("archive should receive the frame JPEG bytes")
	}
	if len(repo.saved) != 1 {
		t.Fatalf("expected 1 history row, got %d", len(repo.saved))
	}
	if repo.saved[0].ID != res.Analysis.ID {
		t.Error("history row should match the returned analysis")
	}
}

func TestAnalyze_SizeGate(t *testing.T) {
	enc := &stubEncoder{payload: &media.Payload{Base64: "eA=="}}
	ext := &stubExtractor{}
	vis := &stubVision{answer: "ok"}
	svc := newService(enc, ext, vis)
	svc.MaxUploadBytes = 10 << 20
	mib := float64(1024 * 1024)

	// 10.1 MB is rejected before any encode/decode work
	_, err := svc.Analyze(context.Background(), AnalyzeCommand{
		Filename: "big.jpg",
		Size:     int64(10.1 * mib),
		Content:  bytes.NewReader(nil),
		Query:    "anything",
	})
	if !errors.Is(err, media.ErrSizeLimit) {
		t.Errorf("expected ErrSizeLimit, got %v", err)
	}
	if enc.calls != 0 || ext.calls != 0 || vis.calls != 0 {
		t.Errorf("nothing should run after the size gate: encoder=%d extractor=%d vision=%d", enc.calls, ext.calls, vis.calls)
	}

	// 9.9 MB proceeds
	_, err = svc.Analyze(context.Background(), AnalyzeCommand{
		Filename: "ok.jpg",
		Size:     int64(9.9 * mib),
		Content:  bytes.NewReader([]byte("data")),
		Query:    "anything",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enc.calls != 1 {
		t.Errorf("expected the encoder to run for 9.9 MB, calls=%d", enc.calls)
	}
}

func TestAnalyze_EmptyQuery(t *testing.T) {
	enc := &stubEncoder{}
	svc := newService(enc, &stubExtractor{}, &stubVision{})

	for _, q := range []string{"", "   ", "\n"} {
		_, err := svc.Analyze(context.Background(), AnalyzeCommand{
			Filename: "photo.jpg",
			Size:     100,
			Content:  bytes.NewReader([]byte("x")),
			Query:    q,
		})
		if !errors.Is(err, domain.ErrEmptyQuery) {
			t.Errorf("query %q: expected ErrEmptyQuery, got %v", q, err)
		}
	}
	if enc.calls != 0 {
		t.Errorf("no media work should run without a query, calls=%d", enc.calls)
	}
}

func TestAnalyze_UnsupportedType(t *testing.T) {
	svc := newService(&stubEncoder{}, &stubExtractor{}, &stubVision{})

	_, err := svc.Analyze(context.Background(), AnalyzeCommand{
		Filename: "notes.txt",
		Size:     100,
		Content:  strings.NewReader("hello"),
		Query:    "what is this?",
	})
	if !errors.Is(err, media.ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestAnalyze_DecodeFailurePropagates(t *testing.T) {
	ext := &stubExtractor{err: media.ErrDecode}
	vis := &stubVision{}
	svc := newService(&stubEncoder{}, ext, vis)

	_, err := svc.Analyze(context.Background(), AnalyzeCommand{
		Filename: "clip.mp4",
		Size:     100,
		Content:  bytes.NewReader([]byte("x")),
		Query:    "what?",
	})
	if !errors.Is(err, media.ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
	if vis.calls != 0 {
		t.Errorf("vision must not be called after a decode failure, calls=%d", vis.calls)
	}
}

func TestAnalyze_VisionFailure(t *testing.T) {
	repo := &stubRepo{}
	svc := newService(&stubEncoder{payload: &media.Payload{Base64: "eA=="}}, &stubExtractor{}, &stubVision{err: domain.ErrQuotaExceeded})
	svc.History = repo

	_, err := svc.Analyze(context.Background(), AnalyzeCommand{
		Filename: "photo.png",
		Size:     100,
		Content:  bytes.NewReader([]byte("x")),
		Query:    "what?",
	})
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Errorf("expected ErrQuotaExceeded, got %v", err)
	}
	if len(repo.saved) != 0 {
		t.Error("failed analyses must not be recorded")
	}
}

func TestAnalyze_ArchiveFailureIsNonFatal(t *testing.T) {
	frame := &media.Frame{JPEG: []byte{1, 2, 3}, Width: 4, Height: 4, Index: 1, Total: 3}
	svc := newService(&stubEncoder{}, &stubExtractor{payload: &media.Payload{Base64: "eA==", Frame: frame}}, &stubVision{answer: "fine"})
	svc.Artifacts = &stubStore{err: errors.New("bucket offline")}

	res, err := svc.Analyze(context.Background(), AnalyzeCommand{
		Filename: "clip.mp4",
		Size:     100,
		Content:  bytes.NewReader([]byte("x")),
		Query:    "what?",
	})
	if err != nil {
		t.Fatalf("archive failure should not fail the analysis: %v", err)
	}
	if res.ArchiveURL != "" {
		t.Errorf("expected empty archive URL, got %q", res.ArchiveURL)
	}
	if res.Analysis.Answer != "fine" {
		t.Errorf("expected the answer regardless, got %q", res.Analysis.Answer)
	}
}

func TestLatest_Disabled(t *testing.T) {
	svc := newService(&stubEncoder{}, &stubExtractor{}, &stubVision{})

	_, err := svc.Latest(context.Background(), 10)
	if !errors.Is(err, domain.ErrHistoryDisabled) {
		t.Errorf("expected ErrHistoryDisabled, got %v", err)
	}
}
