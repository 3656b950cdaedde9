package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/park285/chess-coach-go/internal/analysis"
)

// Record is one persisted analysis run.
type Record struct {
	GameID    string
	RunID     string
	Tier      string
	Movetext  string
	Report    *analysis.Report
	CreatedAt time.Time
}

// Repository persists completed reports in Postgres for later review. One
// row per game; a newer run replaces the previous one.
type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("database ping: %w", err)
	}
	return &Repository{db: db}, nil
}

func NewRepositoryWithDB(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Upsert(ctx context.Context, rec *Record) error {
	if rec == nil || rec.Report == nil {
		return fmt.Errorf("nil report record")
	}
	raw, err := json.Marshal(rec.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	const query = `
		INSERT INTO coach_reports (
			game_id,
			run_id,
			tier,
			movetext,
			report,
			created_at
		)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6)
		ON CONFLICT (game_id) DO UPDATE SET
			run_id = EXCLUDED.run_id,
			tier = EXCLUDED.tier,
			movetext = EXCLUDED.movetext,
			report = EXCLUDED.report,
			created_at = EXCLUDED.created_at`

	_, err = r.db.ExecContext(ctx, query,
		rec.GameID,
		rec.RunID,
		rec.Tier,
		rec.Movetext,
		raw,
		rec.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert report: %w", err)
	}
	return nil
}

// Get returns the stored record for a game, or nil when none exists.
func (r *Repository) Get(ctx context.Context, gameID string) (*Record, error) {
	const query = `
		SELECT game_id, run_id, tier, movetext, report, created_at
		FROM coach_reports
		WHERE game_id = $1`

	var rec Record
	var raw []byte
	err := r.db.QueryRowContext(ctx, query, gameID).Scan(
		&rec.GameID,
		&rec.RunID,
		&rec.Tier,
		&rec.Movetext,
		&raw,
		&rec.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query report: %w", err)
	}
	rec.Report = &analysis.Report{}
	if err := json.Unmarshal(raw, rec.Report); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &rec, nil
}
