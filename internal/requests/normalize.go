// Package requests derives the admin request list and its statistics from the two backend
// collections. Everything here is a pure function of its inputs.
package requests

import (
	"time"

	"canna-backoffice-requests/internal/domain"
)

const (
	FallbackName     = "Organização sem nome"
	FallbackEmail    = "sem-email@example.com"
	FallbackPlanName = "Plano não informado"
	FallbackCategory = "Não informado"
)

// PendingOrganizations keeps the organizations still awaiting a registration decision.
func PendingOrganizations(orgs []domain.Organization) []domain.Organization {
	pending := make([]domain.Organization, 0, len(orgs))
	for _, o := range orgs {
		if o.Status == domain.OrganizationStatusPending {
			pending = append(pending, o)
		}
	}
	return pending
}

// Normalize merges pending registrations and plan changes into one list: registrations first,
// source order kept within each group. A missing date is replaced by now.
func Normalize(pendingOrgs []domain.Organization, planChanges []domain.PlanChangeRequest, now time.Time) []domain.PendingRequest {
	out := make([]domain.PendingRequest, 0, len(pendingOrgs)+len(planChanges))
	for _, o := range pendingOrgs {
		out = append(out, domain.NewRegistration(
			o.ID,
			orDefault(o.Name, FallbackName),
			orDefault(o.Email, FallbackEmail),
			orDefault(o.Type, FallbackCategory),
			dateOrNow(o.CreatedAt, now),
		))
	}
	for _, pc := range planChanges {
		p := domain.NewPlanChange(
			pc.ID,
			orDefault(pc.Name, FallbackName),
			orDefault(pc.Email, FallbackEmail),
			orDefault(pc.Type, FallbackCategory),
			dateOrNow(pc.RequestDate, now),
		)
		p.CurrentPlanID = pc.CurrentPlanID
		p.RequestedPlanID = pc.RequestedPlanID
		p.CurrentPlanName = orDefault(pc.CurrentPlanName, FallbackPlanName)
		p.RequestedPlanName = orDefault(pc.RequestedPlanName, FallbackPlanName)
		out = append(out, p)
	}
	return out
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func dateOrNow(t *time.Time, now time.Time) time.Time {
	if t == nil || t.IsZero() {
		return now
	}
	return *t
}
