package domain

// Stats are display-only counts derived from the unfiltered collections.
type Stats struct {
	TotalRequests        int `json:"totalRequests"`
	PendingRegistrations int `json:"pendingRegistrations"`
	PendingPlanChanges   int `json:"pendingPlanChanges"`
	NewRequests          int `json:"newRequests"`
}
