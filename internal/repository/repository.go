package repository

import (
	"context"

	"canna-backoffice-requests/internal/domain"
)

// DecisionRepository is the audit trail of approve/reject dispatches.
type DecisionRepository interface {
	Create(ctx context.Context, d *domain.Decision) error
	ListRecent(ctx context.Context, limit int) ([]domain.Decision, error)
	ListByRequest(ctx context.Context, key domain.RequestKey) ([]domain.Decision, error)
}

// NopDecisionRepository is used when no database is configured.
type NopDecisionRepository struct{}

func (NopDecisionRepository) Create(context.Context, *domain.Decision) error { return nil }

func (NopDecisionRepository) ListRecent(context.Context, int) ([]domain.Decision, error) {
	return nil, nil
}

func (NopDecisionRepository) ListByRequest(context.Context, domain.RequestKey) ([]domain.Decision, error) {
	return nil, nil
}
