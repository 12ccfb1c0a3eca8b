package postgres

import (
	"context"
	"database/sql"
	"time"

	"canna-backoffice-requests/internal/domain"
	"canna-backoffice-requests/internal/logger"
	"canna-backoffice-requests/internal/repository"

	"github.com/google/uuid"
)

type decisionRepository struct {
	db *sql.DB
}

func NewDecisionRepository(db *sql.DB) repository.DecisionRepository {
	return &decisionRepository{db: db}
}

const decisionColumns = `id, request_type, request_id, verb, outcome, detail, decided_by, decided_at`

func (r *decisionRepository) Create(ctx context.Context, d *domain.Decision) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.DecidedAt.IsZero() {
		d.DecidedAt = time.Now().UTC()
	}

	query := `INSERT INTO request_decisions (` + decisionColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	logger.DatabaseCall("insert_decision", query, "request", d.RequestType, "id", d.RequestID)
	res, err := r.db.ExecContext(ctx, query, d.ID, d.RequestType, d.RequestID, d.Verb, d.Outcome, d.Detail, d.DecidedBy, d.DecidedAt)
	var rows int64
	if err == nil {
		rows, _ = res.RowsAffected()
	}
	logger.DatabaseResult("insert_decision", rows, err)
	return err
}

func (r *decisionRepository) ListRecent(ctx context.Context, limit int) ([]domain.Decision, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + decisionColumns + ` FROM request_decisions ORDER BY decided_at DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDecisions(rows)
}

func (r *decisionRepository) ListByRequest(ctx context.Context, key domain.RequestKey) ([]domain.Decision, error) {
	query := `SELECT ` + decisionColumns + ` FROM request_decisions WHERE request_type = $1 AND request_id = $2 ORDER BY decided_at`
	rows, err := r.db.QueryContext(ctx, query, key.Type, key.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDecisions(rows)
}

func scanDecisions(rows *sql.Rows) ([]domain.Decision, error) {
	var out []domain.Decision
	for rows.Next() {
		var d domain.Decision
		if err := rows.Scan(&d.ID, &d.RequestType, &d.RequestID, &d.Verb, &d.Outcome, &d.Detail, &d.DecidedBy, &d.DecidedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
