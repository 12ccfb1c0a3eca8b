package requests

import (
	"time"

	"canna-backoffice-requests/internal/domain"
)

const (
	DisplayDateLayout = "02/01/2006"

	LabelApprove = "Aprovar"
	LabelReject  = "Rejeitar"
)

// Row is one line of the request table.
type Row struct {
	ID                int32                     `json:"id"`
	RequestType       domain.RequestType        `json:"requestType"`
	Name              string                    `json:"name"`
	Email             string                    `json:"email"`
	Type              string                    `json:"type"`
	Status            domain.OrganizationStatus `json:"status"`
	Date              time.Time                 `json:"date"`
	DisplayDate       string                    `json:"displayDate"`
	CurrentPlanID     int32                     `json:"currentPlanId,omitempty"`
	RequestedPlanID   int32                     `json:"requestedPlanId,omitempty"`
	CurrentPlanName   string                    `json:"currentPlanName,omitempty"`
	RequestedPlanName string                    `json:"requestedPlanName,omitempty"`
	ApproveLabel      string                    `json:"approveLabel"`
	RejectLabel       string                    `json:"rejectLabel"`

	Request domain.PendingRequest `json:"-"`
}

// Model is the whole view: the rows visible under the search term and the counts of
// everything pending.
type Model struct {
	Rows  []Row        `json:"rows"`
	Stats domain.Stats `json:"stats"`
}

// RenderModel recomputes the view from scratch. orgs may contain non-pending organizations;
// they are dropped before normalizing and counting. loc controls the display date and may be nil.
func RenderModel(orgs []domain.Organization, planChanges []domain.PlanChangeRequest, term string, now time.Time, loc *time.Location) Model {
	pending := PendingOrganizations(orgs)
	visible := Filter(Normalize(pending, planChanges, now), term)

	rows := make([]Row, 0, len(visible))
	for _, r := range visible {
		rows = append(rows, NewRow(r, loc))
	}
	return Model{
		Rows:  rows,
		Stats: Summarize(pending, planChanges, now),
	}
}

func NewRow(r domain.PendingRequest, loc *time.Location) Row {
	key := r.Key()
	row := Row{
		ID:           key.ID,
		RequestType:  key.Type,
		Name:         r.Name(),
		Email:        r.Email(),
		Type:         r.Category(),
		Status:       r.Status(),
		Date:         r.Date(),
		DisplayDate:  FormatDate(r.Date(), loc),
		ApproveLabel: LabelApprove,
		RejectLabel:  LabelReject,
		Request:      r,
	}
	switch v := r.(type) {
	case *domain.PlanChange:
		row.CurrentPlanID = v.CurrentPlanID
		row.RequestedPlanID = v.RequestedPlanID
		row.CurrentPlanName = v.CurrentPlanName
		row.RequestedPlanName = v.RequestedPlanName
	case *domain.Registration:
	}
	return row
}

// FormatDate renders t as dd/mm/yyyy.
func FormatDate(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(DisplayDateLayout)
}

// Find returns the pending request with the given key, if any.
func Find(list []domain.PendingRequest, key domain.RequestKey) (domain.PendingRequest, bool) {
	for _, r := range list {
		if r.Key() == key {
			return r, true
		}
	}
	return nil, false
}
