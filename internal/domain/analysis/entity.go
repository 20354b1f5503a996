package analysis

import (
	"time"

	"github.com/bryanwahyu/media-analysis-bot/internal/domain/media"
)

// Analysis is one answered question about one uploaded file. The same record
// is returned to the shell and, when history is enabled, persisted.
type Analysis struct {
	ID        string     `json:"id"`
	Kind      media.Kind `json:"kind"`
	Filename  string     `json:"filename,omitempty"`
	Query     string     `json:"query"`
	Answer    string     `json:"answer"`
	CreatedAt time.Time  `json:"created_at"`
}
