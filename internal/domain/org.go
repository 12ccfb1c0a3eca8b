package domain

import "time"

type OrganizationStatus string

const (
	OrganizationStatusPending  OrganizationStatus = "pending"
	OrganizationStatusApproved OrganizationStatus = "approved"
	OrganizationStatusRejected OrganizationStatus = "rejected"
)

// Organization is the backend's organization record as returned by GET /api/organizations.
// Optional fields decode to their zero value when the backend omits them.
type Organization struct {
	ID        int32              `json:"id"`
	Name      string             `json:"name,omitempty"`
	Email     string             `json:"email,omitempty"`
	Type      string             `json:"type,omitempty"`
	Status    OrganizationStatus `json:"status"`
	CreatedAt *time.Time         `json:"createdAt,omitempty"`
	OrgCode   string             `json:"orgCode,omitempty"` // Set by the backend on approval
}

// StatusUpdate is the PATCH /api/organizations/{id} body.
type StatusUpdate struct {
	Status OrganizationStatus `json:"status"`
}
