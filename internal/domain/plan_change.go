package domain

import "time"

// PlanChangeRequest is an outstanding plan change. The backend stores the pending change on the
// organization itself, so ID is the organization id.
type PlanChangeRequest struct {
	ID                int32      `json:"id"`
	Name              string     `json:"name,omitempty"`
	Email             string     `json:"email,omitempty"`
	Type              string     `json:"type,omitempty"`
	CurrentPlanID     int32      `json:"currentPlanId"`
	RequestedPlanID   int32      `json:"requestedPlanId"`
	CurrentPlanName   string     `json:"currentPlanName,omitempty"`
	RequestedPlanName string     `json:"requestedPlanName,omitempty"`
	RequestDate       *time.Time `json:"requestDate,omitempty"`
}

// PlanChangeList is the GET /api/plan-change-requests envelope.
type PlanChangeList struct {
	Success       bool                `json:"success"`
	TotalRequests int                 `json:"totalRequests"`
	Requests      []PlanChangeRequest `json:"requests"`
}

type PlanChangeApproval struct {
	OrganizationID int32 `json:"organizationId"`
	PlanID         int32 `json:"planId"`
}

type PlanChangeRejection struct {
	OrganizationID int32 `json:"organizationId"`
}

// PlanChangeResult is the decoded body of the approve/reject endpoints.
type PlanChangeResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	ModulesAdded int    `json:"modulesAdded,omitempty"`
}
