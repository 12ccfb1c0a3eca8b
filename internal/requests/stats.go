package requests

import (
	"time"

	"canna-backoffice-requests/internal/domain"
)

// NewRequestWindow is how far back a registration still counts as new.
const NewRequestWindow = 24 * time.Hour

// Summarize counts the unfiltered collections. A registration without createdAt is treated as
// created at now and therefore counts as new.
func Summarize(pendingOrgs []domain.Organization, planChanges []domain.PlanChangeRequest, now time.Time) domain.Stats {
	cutoff := now.Add(-NewRequestWindow)

	stats := domain.Stats{
		PendingRegistrations: len(pendingOrgs),
		PendingPlanChanges:   len(planChanges),
		TotalRequests:        len(pendingOrgs) + len(planChanges),
	}
	for _, o := range pendingOrgs {
		if dateOrNow(o.CreatedAt, now).After(cutoff) {
			stats.NewRequests++
		}
	}
	return stats
}
