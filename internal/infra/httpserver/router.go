package httpserver

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalysis "github.com/bryanwahyu/media-analysis-bot/internal/application/analysis"
	domain "github.com/bryanwahyu/media-analysis-bot/internal/domain/analysis"
	"github.com/bryanwahyu/media-analysis-bot/internal/domain/media"
	"github.com/bryanwahyu/media-analysis-bot/internal/middleware"
)

// multipart form parse buffer; bigger uploads spill to disk
const maxFormMemory = 16 << 20

type Router struct {
	svc *appanalysis.Service
	log *slog.Logger
}

func NewRouter(svc *appanalysis.Service, log *slog.Logger, checkers map[string]middleware.HealthChecker) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	r := &Router{svc: svc, log: log}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	mux.Use(middleware.RequestLogger(log))
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/", r.handleIndex)
	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	gate := middleware.NewInFlightGate(1)
	mux.Route("/api", func(rt chi.Router) {
		rt.With(gate.Middleware).Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/history", r.wrap(r.handleHistory))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap converts component failures into a JSON error body with a mapped
// status. The user always sees a human-readable message, never a stack trace,
// and the form stays available for another attempt.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			writeError(w, errStatus(err), err)
		}
	}
}

func errStatus(err error) int {
	switch {
	case errors.Is(err, media.ErrSizeLimit):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, media.ErrUnsupportedType),
		errors.Is(err, media.ErrEncoding),
		errors.Is(err, media.ErrDecode),
		errors.Is(err, domain.ErrEmptyQuery):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrHistoryDisabled):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyPayload), errors.Is(err, domain.ErrNoCompletion):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// GET /
func (r *Router) handleIndex(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexPage))
}

type frameView struct {
	DataURI string `json:"data_uri"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Index   int    `json:"index"`
	Total   int    `json:"total"`
}

type analyzeResponse struct {
	*domain.Analysis
	Frame      *frameView `json:"frame,omitempty"`
	ArchiveURL string     `json:"archive_url,omitempty"`
}

// POST /api/analyze
// Multipart form: "file" (jpg/jpeg/png/mp4) + "query" (free text).
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	if err := req.ParseMultipartForm(maxFormMemory); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("request must be a multipart form with a file and a query"))
		return nil
	}

	query := req.FormValue("query")
	if err := middleware.ValidateQuery(query); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return nil
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("file is required"))
		return nil
	}
	defer file.Close()

	if err := middleware.ValidateFilename(header.Filename); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return nil
	}

	res, err := r.svc.Analyze(req.Context(), appanalysis.AnalyzeCommand{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
		Query:    query,
	})
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}
	middleware.IncrementAnalyses()

	resp := analyzeResponse{Analysis: res.Analysis, ArchiveURL: res.ArchiveURL}
	if res.Frame != nil {
		resp.Frame = &frameView{
			DataURI: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(res.Frame.JPEG),
			Width:   res.Frame.Width,
			Height:  res.Frame.Height,
			Index:   res.Frame.Index,
			Total:   res.Frame.Total,
		}
	}
	return writeJSON(w, resp)
}

// GET /api/history?limit=20
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.svc.Latest(req.Context(), limit)
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}
