package domain

import (
	"time"

	"github.com/google/uuid"
)

type Verb string

const (
	VerbApprove Verb = "approve"
	VerbReject  Verb = "reject"
)

type DecisionOutcome string

const (
	DecisionSucceeded DecisionOutcome = "succeeded"
	DecisionFailed    DecisionOutcome = "failed"
)

// Decision is one audited approve/reject dispatch.
type Decision struct {
	ID          uuid.UUID       `json:"id"`
	RequestType RequestType     `json:"request_type"`
	RequestID   int32           `json:"request_id"`
	Verb        Verb            `json:"verb"`
	Outcome     DecisionOutcome `json:"outcome"`
	Detail      string          `json:"detail,omitempty"`
	DecidedBy   string          `json:"decided_by,omitempty"`
	DecidedAt   time.Time       `json:"decided_at"`
}
