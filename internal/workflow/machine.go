package workflow

// DateLayout is the wire and storage layout of request dates.
const DateLayout = "2006-01-02"

type SideEffect int

const (
	EffectNone SideEffect = iota
	// EffectCommit stamps the approver and consumes allowance for accruing requests.
	EffectCommit
)

// Capability is one row of the authorization matrix.
type Capability struct {
	Role       Role
	Outcome    Outcome
	OwnerOnly  bool
	From       []Status
	To         Status
	Effect     SideEffect
	NeedsValid bool
}

// Capabilities is the complete role x outcome matrix. Any combination not
// listed here is unauthorized.
var Capabilities = []Capability{
	{Role: RoleAdmin, Outcome: OutcomeApprove, From: PendingStatuses, To: StatusApproved, Effect: EffectCommit, NeedsValid: true},
	{Role: RoleAdmin, Outcome: OutcomeReject, From: PendingStatuses, To: StatusRejectedAdmin},
	{Role: RoleHR, Outcome: OutcomeApprove, From: []Status{StatusPendingHR}, To: StatusPendingAdmin},
	{Role: RoleHR, Outcome: OutcomeReject, From: []Status{StatusPendingHR}, To: StatusRejectedHR},
	{Role: RoleEmployee, Outcome: OutcomeCancel, OwnerOnly: true, From: PendingStatuses, To: StatusCancelled},
}

// Input is everything the state machine needs to decide a transition.
type Input struct {
	Current   Status
	Role      Role
	IsOwner   bool
	Outcome   Outcome
	StartDate string
	EndDate   string
}

type Decision struct {
	From   Status
	To     Status
	Effect SideEffect
}

func lookupCapability(role Role, outcome Outcome) (Capability, bool) {
	for _, c := range Capabilities {
		if c.Role == role && c.Outcome == outcome {
			return c, true
		}
	}
	return Capability{}, false
}

// Decide returns the next status for in, or a *TransitionError wrapping
// ErrInvalidTransition, ErrUnauthorized or ErrValidationFailed.
func Decide(in Input) (Decision, error) {
	fail := func(kind error, reason string) (Decision, error) {
		return Decision{}, &TransitionError{
			Kind:    kind,
			From:    in.Current,
			Role:    in.Role,
			Outcome: in.Outcome,
			Reason:  reason,
		}
	}

	if !in.Current.Valid() {
		return fail(ErrInvalidTransition, "unknown status")
	}
	if !in.Outcome.Valid() {
		return fail(ErrInvalidTransition, "unknown outcome")
	}
	if in.Current.IsTerminal() {
		return fail(ErrInvalidTransition, "status is terminal")
	}

	capability, ok := lookupCapability(in.Role, in.Outcome)
	if !ok {
		return fail(ErrUnauthorized, "")
	}
	if capability.OwnerOnly && !in.IsOwner {
		return fail(ErrUnauthorized, "actor does not own the request")
	}
	if !containsStatus(capability.From, in.Current) {
		return fail(ErrInvalidTransition, "")
	}
	if capability.NeedsValid {
		if reason := validateDates(in.StartDate, in.EndDate); reason != "" {
			return fail(ErrValidationFailed, reason)
		}
	}

	return Decision{
		From:   in.Current,
		To:     capability.To,
		Effect: capability.Effect,
	}, nil
}

// Allowed reports whether role may ever apply outcome, ignoring state.
func Allowed(role Role, outcome Outcome) bool {
	_, ok := lookupCapability(role, outcome)
	return ok
}

// validateDates is the approval-time gate for legacy records. It returns an
// empty string when the range is usable.
func validateDates(start, end string) string {
	startDate, err := ParseDate(start)
	if err != nil {
		return "start_date is not a valid date"
	}
	endDate, err := ParseDate(end)
	if err != nil {
		return "end_date is not a valid date"
	}
	if startDate.After(endDate) {
		return "start_date is after end_date"
	}
	return ""
}

func containsStatus(list []Status, s Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
