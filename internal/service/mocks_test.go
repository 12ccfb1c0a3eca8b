package service

import (
	"context"
	"sync"
	"time"

	"canna-backoffice-requests/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockBackend
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Organization), args.Error(1)
}

func (m *MockBackend) ListPlanChangeRequests(ctx context.Context) ([]domain.PlanChangeRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PlanChangeRequest), args.Error(1)
}

func (m *MockBackend) UpdateOrganizationStatus(ctx context.Context, id int32, status domain.OrganizationStatus) (*domain.Organization, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockBackend) ApprovePlanChange(ctx context.Context, organizationID, planID int32) (*domain.PlanChangeResult, error) {
	args := m.Called(ctx, organizationID, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PlanChangeResult), args.Error(1)
}

func (m *MockBackend) RejectPlanChange(ctx context.Context, organizationID int32) (*domain.PlanChangeResult, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PlanChangeResult), args.Error(1)
}

// MockInvalidator
type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) Invalidate(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

// MockDecisionRepo
type MockDecisionRepo struct {
	mock.Mock
}

func (m *MockDecisionRepo) Create(ctx context.Context, d *domain.Decision) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDecisionRepo) ListRecent(ctx context.Context, limit int) ([]domain.Decision, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Decision), args.Error(1)
}

func (m *MockDecisionRepo) ListByRequest(ctx context.Context, key domain.RequestKey) ([]domain.Decision, error) {
	args := m.Called(ctx, key)
	return args.Get(0).([]domain.Decision), args.Error(1)
}

// recordingNotifier keeps every notification it receives.
type recordingNotifier struct {
	mu  sync.Mutex
	got []domain.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
	return nil
}

func (r *recordingNotifier) all() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Notification(nil), r.got...)
}

type scheduled struct {
	delay time.Duration
	n     domain.Notification
}

// recordingScheduler captures follow-ups instead of starting timers.
type recordingScheduler struct {
	mu  sync.Mutex
	got []scheduled
}

func (r *recordingScheduler) Schedule(delay time.Duration, n domain.Notification) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, scheduled{delay: delay, n: n})
	return func() {}
}

func (r *recordingScheduler) all() []scheduled {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]scheduled(nil), r.got...)
}
