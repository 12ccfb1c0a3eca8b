package service

import (
	"context"
	"time"

	"canna-backoffice-requests/internal/domain"
	"canna-backoffice-requests/internal/requests"
)

// Backend is the platform REST API as seen by the back office.
type Backend interface {
	ListOrganizations(ctx context.Context) ([]domain.Organization, error)
	ListPlanChangeRequests(ctx context.Context) ([]domain.PlanChangeRequest, error)
	UpdateOrganizationStatus(ctx context.Context, id int32, status domain.OrganizationStatus) (*domain.Organization, error)
	ApprovePlanChange(ctx context.Context, organizationID, planID int32) (*domain.PlanChangeResult, error)
	RejectPlanChange(ctx context.Context, organizationID int32) (*domain.PlanChangeResult, error)
}

// ReconciliationService builds the request view and resolves pending requests by key.
type ReconciliationService interface {
	Model(ctx context.Context, searchTerm string) (*requests.Model, error)
	Lookup(ctx context.Context, key domain.RequestKey) (domain.PendingRequest, error)
	PlanChange(ctx context.Context, id int32) (*domain.PlanChangeRequest, error)
	Refresh(ctx context.Context) error
}

// ActionService approves and rejects pending requests.
type ActionService interface {
	ApproveRegistration(ctx context.Context, id int32) (*ActionResult, error)
	RejectRegistration(ctx context.Context, id int32) (*ActionResult, error)
	ApprovePlanChange(ctx context.Context, id int32) (*ActionResult, error)
	RejectPlanChange(ctx context.Context, id int32) (*ActionResult, error)
	Dispatch(ctx context.Context, req domain.PendingRequest, verb domain.Verb) (*ActionResult, error)
}

// Invalidator drops cached collections.
type Invalidator interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// FollowUpScheduler delivers a notification later, unless it is torn down first.
type FollowUpScheduler interface {
	Schedule(delay time.Duration, n domain.Notification) (cancel func())
}
