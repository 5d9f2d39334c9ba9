// Package workflow is the approval state machine shared by every absence
// request kind. It performs no I/O: callers load the record, ask Decide for
// the next status and persist the result themselves.
package workflow

import "strings"

type Status string

const (
	StatusPendingHR     Status = "pending_hr"
	StatusPendingAdmin  Status = "pending_admin"
	StatusApproved      Status = "approved"
	StatusRejectedHR    Status = "rejected_hr"
	StatusRejectedAdmin Status = "rejected_admin"
	StatusCancelled     Status = "cancelled"
)

var AllStatuses = []Status{
	StatusPendingHR,
	StatusPendingAdmin,
	StatusApproved,
	StatusRejectedHR,
	StatusRejectedAdmin,
	StatusCancelled,
}

// PendingStatuses are the only non-terminal states.
var PendingStatuses = []Status{StatusPendingHR, StatusPendingAdmin}

func (s Status) IsPending() bool {
	return s == StatusPendingHR || s == StatusPendingAdmin
}

func (s Status) IsTerminal() bool {
	return !s.IsPending()
}

func (s Status) Valid() bool {
	for _, v := range AllStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
	RoleEmployee Role = "employee"
)

var AllRoles = []Role{RoleAdmin, RoleHR, RoleEmployee}

// ParseRole maps an identity provider role onto the closed set. Anything that
// is not admin or hr is treated as a plain employee.
func ParseRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(RoleAdmin):
		return RoleAdmin
	case string(RoleHR):
		return RoleHR
	default:
		return RoleEmployee
	}
}

type Outcome string

const (
	OutcomeApprove Outcome = "approve"
	OutcomeReject  Outcome = "reject"
	OutcomeCancel  Outcome = "cancel"
)

var AllOutcomes = []Outcome{OutcomeApprove, OutcomeReject, OutcomeCancel}

func (o Outcome) Valid() bool {
	switch o {
	case OutcomeApprove, OutcomeReject, OutcomeCancel:
		return true
	default:
		return false
	}
}

// InitialStatus is the status a new request starts in. HR submissions skip the
// HR stage so HR never approves its own request.
func InitialStatus(submitter Role) Status {
	if submitter == RoleHR {
		return StatusPendingAdmin
	}
	return StatusPendingHR
}
