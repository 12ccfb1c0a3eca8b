package service

import (
	"context"
	"fmt"
	"time"

	"canna-backoffice-requests/internal/cache"
	"canna-backoffice-requests/internal/domain"
	"canna-backoffice-requests/internal/logger"
	"canna-backoffice-requests/internal/requests"

	"golang.org/x/sync/errgroup"
)

type reconciler struct {
	backend Backend
	loader  *cache.Loader
	loc     *time.Location
	now     func() time.Time
}

func NewReconciler(backend Backend, loader *cache.Loader, loc *time.Location) ReconciliationService {
	return &reconciler{
		backend: backend,
		loader:  loader,
		loc:     loc,
		now:     time.Now,
	}
}

// collections loads both backend collections concurrently through the cache.
func (r *reconciler) collections(ctx context.Context) ([]domain.Organization, []domain.PlanChangeRequest, error) {
	var (
		orgs        []domain.Organization
		planChanges []domain.PlanChangeRequest
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orgs, err = cache.Load(gctx, r.loader, cache.KeyOrganizations, r.backend.ListOrganizations)
		if err != nil {
			return fmt.Errorf("failed to load organizations: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		planChanges, err = cache.Load(gctx, r.loader, cache.KeyPlanChangeRequests, r.backend.ListPlanChangeRequests)
		if err != nil {
			return fmt.Errorf("failed to load plan-change requests: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return orgs, planChanges, nil
}

func (r *reconciler) Model(ctx context.Context, searchTerm string) (*requests.Model, error) {
	orgs, planChanges, err := r.collections(ctx)
	if err != nil {
		return nil, err
	}
	model := requests.RenderModel(orgs, planChanges, searchTerm, r.now(), r.loc)
	logger.Debug("Request model rendered", "rows", len(model.Rows), "total", model.Stats.TotalRequests, "search", searchTerm)
	return &model, nil
}

func (r *reconciler) Lookup(ctx context.Context, key domain.RequestKey) (domain.PendingRequest, error) {
	orgs, planChanges, err := r.collections(ctx)
	if err != nil {
		return nil, err
	}
	list := requests.Normalize(requests.PendingOrganizations(orgs), planChanges, r.now())
	if req, ok := requests.Find(list, key); ok {
		return req, nil
	}
	return nil, fmt.Errorf("%s: %w", key, ErrRequestNotFound)
}

func (r *reconciler) PlanChange(ctx context.Context, id int32) (*domain.PlanChangeRequest, error) {
	planChanges, err := cache.Load(ctx, r.loader, cache.KeyPlanChangeRequests, r.backend.ListPlanChangeRequests)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan-change requests: %w", err)
	}
	for i := range planChanges {
		if planChanges[i].ID == id {
			return &planChanges[i], nil
		}
	}
	key := domain.RequestKey{Type: domain.RequestTypePlanChange, ID: id}
	return nil, fmt.Errorf("%s: %w", key, ErrRequestNotFound)
}

// Refresh is the manual refresh: the next read refetches both collections.
func (r *reconciler) Refresh(ctx context.Context) error {
	return r.loader.Invalidate(ctx, cache.KeyOrganizations, cache.KeyPlanChangeRequests)
}
