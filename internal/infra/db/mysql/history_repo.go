package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"

	domain "github.com/bryanwahyu/media-analysis-bot/internal/domain/analysis"
	"github.com/bryanwahyu/media-analysis-bot/internal/domain/media"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		return nil, err
	}
	return db, nil
}

type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// EnsureSchema creates the history table when it does not exist yet.
func (r *HistoryRepository) EnsureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS analyses (
  id         VARCHAR(64) PRIMARY KEY,
  kind       VARCHAR(16)  NOT NULL,
  filename   VARCHAR(255) NOT NULL DEFAULT '',
  question   TEXT         NOT NULL,
  answer     MEDIUMTEXT   NOT NULL,
  created_at DATETIME     NOT NULL
);`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

// Save inserts one analysis record
func (r *HistoryRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO analyses (id, kind, filename, question, answer, created_at)
VALUES (?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  kind=VALUES(kind), filename=VALUES(filename), question=VALUES(question), answer=VALUES(answer);
`
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q, a.ID, string(a.Kind), a.Filename, a.Query, a.Answer, createdAt)
	return err
}

// Latest returns recent analyses ordered by created_at desc
func (r *HistoryRepository) Latest(ctx context.Context, limit int) ([]*domain.Analysis, error) {
	if limit <= 0 {
		limit = 20
	}

	const q = `
SELECT id, kind, filename, question, answer, created_at
FROM analyses
ORDER BY created_at DESC, id DESC
LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Analysis
	for rows.Next() {
		var a domain.Analysis
		var kind string
		if err := rows.Scan(&a.ID, &kind, &a.Filename, &a.Query, &a.Answer, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Kind = media.Kind(kind)
		out = append(out, &a)
	}
	return out, rows.Err()
}
