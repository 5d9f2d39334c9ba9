package workflow_test

import (
	"errors"
	"fmt"
	"testing"

	"go-erp/internal/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type expectation struct {
	to     workflow.Status
	effect workflow.SideEffect
	err    error
}

// expectedFor restates the approval table row by row.
func expectedFor(from workflow.Status, role workflow.Role, isOwner bool, outcome workflow.Outcome) expectation {
	if from.IsTerminal() {
		return expectation{err: workflow.ErrInvalidTransition}
	}
	switch {
	case role == workflow.RoleAdmin && outcome == workflow.OutcomeApprove:
		return expectation{to: workflow.StatusApproved, effect: workflow.EffectCommit}
	case role == workflow.RoleAdmin && outcome == workflow.OutcomeReject:
		return expectation{to: workflow.StatusRejectedAdmin}
	case role == workflow.RoleHR && outcome == workflow.OutcomeApprove:
		if from == workflow.StatusPendingHR {
			return expectation{to: workflow.StatusPendingAdmin}
		}
		return expectation{err: workflow.ErrInvalidTransition}
	case role == workflow.RoleHR && outcome == workflow.OutcomeReject:
		if from == workflow.StatusPendingHR {
			return expectation{to: workflow.StatusRejectedHR}
		}
		return expectation{err: workflow.ErrInvalidTransition}
	case role == workflow.RoleEmployee && outcome == workflow.OutcomeCancel && isOwner:
		return expectation{to: workflow.StatusCancelled}
	default:
		return expectation{err: workflow.ErrUnauthorized}
	}
}

func TestDecide_AllCombinations(t *testing.T) {
	for _, from := range workflow.AllStatuses {
		for _, role := range workflow.AllRoles {
			for _, isOwner := range []bool{true, false} {
				for _, outcome := range workflow.AllOutcomes {
					name := fmt.Sprintf("%s/%s/owner=%t/%s", from, role, isOwner, outcome)
					t.Run(name, func(t *testing.T) {
						want := expectedFor(from, role, isOwner, outcome)

						got, err := workflow.Decide(workflow.Input{
							Current:   from,
							Role:      role,
							IsOwner:   isOwner,
							Outcome:   outcome,
							StartDate: "2024-03-01",
							EndDate:   "2024-03-01",
						})

						if want.err != nil {
							require.Error(t, err)
							assert.ErrorIs(t, err, want.err)
							assert.Equal(t, workflow.Decision{}, got)
							return
						}
						require.NoError(t, err)
						assert.Equal(t, from, got.From)
						assert.Equal(t, want.to, got.To)
						assert.Equal(t, want.effect, got.Effect)
					})
				}
			}
		}
	}
}

func TestDecide_ValidationGate(t *testing.T) {
	cases := []struct {
		name  string
		start string
		end   string
	}{
		{name: "unparsable start", start: "2024-13-45", end: "2024-03-01"},
		{name: "empty start", start: "", end: "2024-03-01"},
		{name: "unparsable end", start: "2024-03-01", end: "tomorrow"},
		{name: "start after end", start: "2024-03-05", end: "2024-03-01"},
	}

	for _, tc := range cases {
		t.Run(tc.name+" blocks admin approve", func(t *testing.T) {
			for _, from := range workflow.PendingStatuses {
				_, err := workflow.Decide(workflow.Input{
					Current:   from,
					Role:      workflow.RoleAdmin,
					Outcome:   workflow.OutcomeApprove,
					StartDate: tc.start,
					EndDate:   tc.end,
				})
				assert.ErrorIs(t, err, workflow.ErrValidationFailed)
			}
		})

		t.Run(tc.name+" still allows reject and cancel", func(t *testing.T) {
			inputs := []workflow.Input{
				{Current: workflow.StatusPendingHR, Role: workflow.RoleAdmin, Outcome: workflow.OutcomeReject},
				{Current: workflow.StatusPendingHR, Role: workflow.RoleHR, Outcome: workflow.OutcomeReject},
				{Current: workflow.StatusPendingAdmin, Role: workflow.RoleEmployee, IsOwner: true, Outcome: workflow.OutcomeCancel},
				{Current: workflow.StatusPendingHR, Role: workflow.RoleHR, Outcome: workflow.OutcomeApprove},
			}
			for _, in := range inputs {
				in.StartDate = tc.start
				in.EndDate = tc.end
				_, err := workflow.Decide(in)
				assert.NoError(t, err, "%+v", in)
			}
		})
	}
}

func TestDecide_ErrorDetails(t *testing.T) {
	_, err := workflow.Decide(workflow.Input{
		Current: workflow.StatusApproved,
		Role:    workflow.RoleAdmin,
		Outcome: workflow.OutcomeApprove,
	})

	var terr *workflow.TransitionError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, workflow.StatusApproved, terr.From)
	assert.Equal(t, workflow.RoleAdmin, terr.Role)
	assert.Contains(t, err.Error(), "terminal")
}

func TestDecide_UnknownInputs(t *testing.T) {
	_, err := workflow.Decide(workflow.Input{Current: "draft", Role: workflow.RoleAdmin, Outcome: workflow.OutcomeApprove})
	assert.ErrorIs(t, err, workflow.ErrInvalidTransition)

	_, err = workflow.Decide(workflow.Input{Current: workflow.StatusPendingHR, Role: workflow.RoleAdmin, Outcome: "escalate"})
	assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, workflow.StatusPendingAdmin, workflow.InitialStatus(workflow.RoleHR))
	assert.Equal(t, workflow.StatusPendingHR, workflow.InitialStatus(workflow.RoleEmployee))
	assert.Equal(t, workflow.StatusPendingHR, workflow.InitialStatus(workflow.RoleAdmin))
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, workflow.RoleAdmin, workflow.ParseRole("ADMIN"))
	assert.Equal(t, workflow.RoleHR, workflow.ParseRole(" hr "))
	assert.Equal(t, workflow.RoleEmployee, workflow.ParseRole("manager"))
	assert.Equal(t, workflow.RoleEmployee, workflow.ParseRole(""))
}

func TestAllowed(t *testing.T) {
	assert.True(t, workflow.Allowed(workflow.RoleHR, workflow.OutcomeApprove))
	assert.False(t, workflow.Allowed(workflow.RoleHR, workflow.OutcomeCancel))
	assert.False(t, workflow.Allowed(workflow.RoleEmployee, workflow.OutcomeApprove))
}

// HR holds approve and reject, so a retry after the record has moved on to
// pending_admin reads as a stale transition rather than a permission problem.
func TestDecide_HROnPendingAdminIsInvalidTransition(t *testing.T) {
	for _, outcome := range []workflow.Outcome{workflow.OutcomeApprove, workflow.OutcomeReject} {
		_, err := workflow.Decide(workflow.Input{
			Current: workflow.StatusPendingAdmin,
			Role:    workflow.RoleHR,
			Outcome: outcome,
		})
		assert.ErrorIs(t, err, workflow.ErrInvalidTransition, string(outcome))
		assert.NotErrorIs(t, err, workflow.ErrUnauthorized, string(outcome))
	}
}
