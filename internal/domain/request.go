package domain

import (
	"fmt"
	"time"
)

type RequestType string

const (
	RequestTypeRegistration RequestType = "registration"
	RequestTypePlanChange   RequestType = "plan_change"
)

// ParseRequestType accepts the wire names plus the dashed form used in URLs.
func ParseRequestType(s string) (RequestType, error) {
	switch s {
	case string(RequestTypeRegistration):
		return RequestTypeRegistration, nil
	case string(RequestTypePlanChange), "plan-change":
		return RequestTypePlanChange, nil
	}
	return "", fmt.Errorf("unknown request type %q", s)
}

// RequestKey is the only reliable identity of a pending request: ids are unique per type only.
type RequestKey struct {
	Type RequestType `json:"requestType"`
	ID   int32       `json:"id"`
}

func (k RequestKey) String() string {
	return fmt.Sprintf("%s:%d", k.Type, k.ID)
}

// PendingRequest is the unified, render-ready request. It is implemented only by
// *Registration and *PlanChange.
type PendingRequest interface {
	Key() RequestKey
	Name() string
	Email() string
	Category() string
	Date() time.Time
	Status() OrganizationStatus
	pendingRequest()
}

type requestFields struct {
	ID       int32
	OrgName  string
	OrgEmail string
	OrgType  string
	Created  time.Time
}

func (f requestFields) Name() string               { return f.OrgName }
func (f requestFields) Email() string              { return f.OrgEmail }
func (f requestFields) Category() string           { return f.OrgType }
func (f requestFields) Date() time.Time            { return f.Created }
func (f requestFields) Status() OrganizationStatus { return OrganizationStatusPending }

// Registration is a new organization awaiting approval.
type Registration struct {
	requestFields
}

func NewRegistration(id int32, name, email, orgType string, created time.Time) *Registration {
	return &Registration{requestFields{ID: id, OrgName: name, OrgEmail: email, OrgType: orgType, Created: created}}
}

func (r *Registration) Key() RequestKey {
	return RequestKey{Type: RequestTypeRegistration, ID: r.ID}
}

func (*Registration) pendingRequest() {}

// PlanChange is an existing organization asking for another subscription plan.
type PlanChange struct {
	requestFields
	CurrentPlanID     int32
	RequestedPlanID   int32
	CurrentPlanName   string
	RequestedPlanName string
}

func NewPlanChange(id int32, name, email, orgType string, created time.Time) *PlanChange {
	return &PlanChange{requestFields: requestFields{ID: id, OrgName: name, OrgEmail: email, OrgType: orgType, Created: created}}
}

func (p *PlanChange) Key() RequestKey {
	return RequestKey{Type: RequestTypePlanChange, ID: p.ID}
}

func (*PlanChange) pendingRequest() {}
