package analysis

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/media-analysis-bot/internal/application"
	domain "github.com/bryanwahyu/media-analysis-bot/internal/domain/analysis"
	"github.com/bryanwahyu/media-analysis-bot/internal/domain/media"
)

// Service implements the analyze use-case: gate the upload, prepare the
// payload, ask the vision model, optionally archive the frame and record the
// result. History and Artifacts are optional; leave them nil to disable.
type Service struct {
	Encoder        media.Encoder
	Extractor      media.FrameExtractor
	Vision         domain.VisionClient
	History        domain.Repository
	Artifacts      domain.ArtifactStore
	Clock          application.Clock
	MaxUploadBytes int64
	Log            *slog.Logger
}

// AnalyzeCommand carries one upload plus its question.
type AnalyzeCommand struct {
	Filename string
	Size     int64
	Content  io.Reader
	Query    string
}

// AnalyzeResult is the answered analysis plus the display artifacts the shell
// may render (video uploads only).
type AnalyzeResult struct {
	Analysis   *domain.Analysis
	Frame      *media.Frame
	ArchiveURL string
}

// Analyze runs one full request cycle. Every entity it creates lives only for
// this call; the archive and history steps are best-effort and never fail an
// otherwise successful analysis.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (*AnalyzeResult, error) {
	if strings.TrimSpace(cmd.Query) == "" {
		return nil, domain.ErrEmptyQuery
	}

	kind, err := media.KindFromFilename(cmd.Filename)
	if err != nil {
		return nil, err
	}

	// Size gate runs before any encode/decode work.
	if err := media.CheckSize(cmd.Size, s.MaxUploadBytes); err != nil {
		return nil, err
	}

	var payload *media.Payload
	switch kind {
	case media.KindImage:
		payload, err = s.Encoder.Encode(cmd.Content)
	case media.KindVideo:
		payload, err = s.Extractor.ExtractMidFrame(ctx, cmd.Content)
	}
	if err != nil {
		return nil, err
	}

	answer, err := s.Vision.Ask(ctx, payload.Base64, cmd.Query)
	if err != nil {
		return nil, err
	}

	a := &domain.Analysis{
		ID:        uuid.New().String(),
		Kind:      kind,
		Filename:  cmd.Filename,
		Query:     cmd.Query,
		Answer:    answer,
		CreatedAt: s.now(),
	}
	res := &AnalyzeResult{Analysis: a, Frame: payload.Frame}

	if s.Artifacts != nil && payload.Frame != nil {
		key := fmt.Sprintf("frames/%s.jpg", a.ID)
		url, err := s.Artifacts.Put(ctx, key, payload.Frame.JPEG, "image/jpeg")
		if err != nil {
			s.logger().Warn("frame archive failed", "id", a.ID, "err", err)
		} else {
			res.ArchiveURL = url
		}
	}

	if s.History != nil {
		if err := s.History.Save(ctx, a); err != nil {
			s.logger().Warn("history save failed", "id", a.ID, "err", err)
		}
	}

	return res, nil
}

// Latest returns recent analyses when a history store is configured.
func (s *Service) Latest(ctx context.Context, limit int) ([]*domain.Analysis, error) {
	if s.History == nil {
		return nil, domain.ErrHistoryDisabled
	}
	return s.History.Latest(ctx, limit)
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now()
	}
	return application.SystemClock{}.Now()
}

func (s *Service) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}
