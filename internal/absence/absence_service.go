package absence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	absenceerrors "go-erp/internal/absence/errors"
	"go-erp/internal/events"
	"go-erp/internal/ledger"
	ledgererrors "go-erp/internal/ledger/errors"
	"go-erp/internal/metrics"
	"go-erp/internal/shared/contextutil"
	"go-erp/internal/workflow"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=absence_service.go -destination=mock/absence_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, companyID string, actor Actor, req SubmitRequest) (Response, error)
	GetAll(ctx context.Context, companyID string, actor Actor, req ListRequest) ([]Response, error)
	GetByID(ctx context.Context, companyID string, actor Actor, id string) (Response, error)
	Update(ctx context.Context, companyID string, actor Actor, id string, req UpdateRequest) (Response, error)
	Transition(ctx context.Context, companyID string, actor Actor, id string, req TransitionRequest) (Response, error)
	Delete(ctx context.Context, companyID string, actor Actor, id string) error
}

// Dependencies wires one orchestrator. Ledger, Notifier, Directory and
// Metrics may be nil.
type Dependencies struct {
	Kind      workflow.Kind
	DB        *sql.DB
	Repo      Repository
	Ledger    ledger.Service
	Notifier  Notifier
	Directory RoleDirectory
	Metrics   *metrics.Service

	Now func() time.Time
	// Dispatch runs post-commit notification work. Defaults to a goroutine.
	Dispatch func(func())
}

type service struct {
	kind      workflow.Kind
	db        *sql.DB
	repo      Repository
	ledger    ledger.Service
	notifier  Notifier
	directory RoleDirectory
	metrics   *metrics.Service
	now       func() time.Time
	dispatch  func(func())
	logger    *zap.Logger
}

func NewService(deps Dependencies, logger ...*zap.Logger) Service {
	name := deps.Kind.Name + ".service"
	l := zap.L().Named(name)
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named(name)
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	dispatch := deps.Dispatch
	if dispatch == nil {
		dispatch = func(f func()) { go f() }
	}
	return &service{
		kind:      deps.Kind,
		db:        deps.DB,
		repo:      deps.Repo,
		ledger:    deps.Ledger,
		notifier:  deps.Notifier,
		directory: deps.Directory,
		metrics:   deps.Metrics,
		now:       now,
		dispatch:  dispatch,
		logger:    l,
	}
}

func (s *service) Submit(ctx context.Context, companyID string, actor Actor, req SubmitRequest) (Response, error) {
	logger := s.requestLogger(ctx, companyID, actor)
	logger.Debug("submit requested",
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return Response{}, absenceerrors.ErrInvalidCompanyID
	}
	ownerUUID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return Response{}, absenceerrors.ErrInvalidActorID
	}
	if req.EmployeeID != "" && req.EmployeeID != actor.EmployeeID {
		logger.Warn("submit for another employee rejected", zap.String("employee_id", req.EmployeeID))
		return Response{}, absenceerrors.ErrOwnerMismatch
	}

	details, err := s.validateDetails(req.Category, req.StartDate, req.EndDate, req.Reason)
	if err != nil {
		logger.Warn("submit validation failed", zap.Error(err))
		return Response{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("submit begin tx failed", zap.Error(err))
		return Response{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlap, err := qtx.HasOverlappingPeriod(ctx, companyID, actor.EmployeeID, details.StartDate, details.EndDate, nil)
	if err != nil {
		logger.Error("submit overlap check failed", zap.Error(err))
		return Response{}, err
	}
	if overlap {
		logger.Warn("submit overlap detected",
			zap.String("start_date", details.StartDate),
			zap.String("end_date", details.EndDate),
		)
		return Response{}, absenceerrors.ErrOverlap
	}

	now := s.now()
	rec := &Request{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		EmployeeID: ownerUUID,
		Category:   details.Category,
		StartDate:  details.StartDate,
		EndDate:    details.EndDate,
		TotalDays:  details.TotalDays,
		Reason:     details.Reason,
		Status:     string(workflow.InitialStatus(actor.Role)),
		CreatedBy:  ownerUUID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := qtx.Create(ctx, rec); err != nil {
		logger.Error("submit persist failed", zap.Error(err))
		return Response{}, err
	}
	if err := tx.Commit(); err != nil {
		logger.Error("submit commit failed", zap.Error(err))
		return Response{}, err
	}

	s.metrics.ObserveSubmission(s.kind.Name, rec.Status)
	logger.Info("submit success",
		zap.String("absence_id", rec.ID.String()),
		zap.String("status", rec.Status),
	)

	s.notify(ctx, actor, *rec, events.AbsenceSubmitted, false, workflow.RoleHR, workflow.RoleAdmin)
	return s.toResponse(*rec), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, actor Actor, req ListRequest) ([]Response, error) {
	filter := ListFilter{Status: req.Status}
	if actor.IsApprover() {
		filter.HideAdminOwned = true
		filter.ViewerID = actor.EmployeeID
	} else {
		if actor.EmployeeID == "" {
			return []Response{}, nil
		}
		filter.OwnerID = actor.EmployeeID
	}

	records, err := s.repo.FindAll(ctx, companyID, filter)
	if err != nil {
		s.logger.Error("list requests failed",
			zap.String("kind", s.kind.Name),
			zap.String("company_id", companyID),
			zap.Error(err),
		)
		return nil, err
	}

	out := make([]Response, 0, len(records))
	for _, rec := range records {
		out = append(out, s.toResponse(rec))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, companyID string, actor Actor, id string) (Response, error) {
	rec, err := s.load(ctx, s.repo, companyID, id)
	if err != nil {
		return Response{}, err
	}
	if !visibleTo(actor, *rec) {
		return Response{}, absenceerrors.ErrNotFound
	}
	return s.toResponse(*rec), nil
}

func (s *service) Update(ctx context.Context, companyID string, actor Actor, id string, req UpdateRequest) (Response, error) {
	logger := s.requestLogger(ctx, companyID, actor,
		zap.String("absence_id", id),
	)

	details, err := s.validateDetails(req.Category, req.StartDate, req.EndDate, req.Reason)
	if err != nil {
		logger.Warn("update validation failed", zap.Error(err))
		return Response{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("update begin tx failed", zap.Error(err))
		return Response{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rec, err := s.load(ctx, qtx, companyID, id)
	if err != nil {
		return Response{}, err
	}
	if rec.EmployeeID.String() != actor.EmployeeID {
		if !visibleTo(actor, *rec) {
			return Response{}, absenceerrors.ErrNotFound
		}
		return Response{}, absenceerrors.ErrForbidden
	}
	if !rec.CurrentStatus().IsPending() {
		return Response{}, absenceerrors.ErrInvalidTransition
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, companyID, actor.EmployeeID, details.StartDate, details.EndDate, &id)
	if err != nil {
		logger.Error("update overlap check failed", zap.Error(err))
		return Response{}, err
	}
	if overlap {
		return Response{}, absenceerrors.ErrOverlap
	}

	affected, err := qtx.UpdateDetails(ctx, companyID, id, rec.CurrentStatus(), details)
	if err != nil {
		logger.Error("update persist failed", zap.Error(err))
		return Response{}, err
	}
	if affected == 0 {
		logger.Warn("update lost race with a transition", zap.String("expected_status", rec.Status))
		return Response{}, absenceerrors.ErrInvalidTransition
	}
	if err := tx.Commit(); err != nil {
		logger.Error("update commit failed", zap.Error(err))
		return Response{}, err
	}

	rec.Category = details.Category
	rec.StartDate = details.StartDate
	rec.EndDate = details.EndDate
	rec.TotalDays = details.TotalDays
	rec.Reason = details.Reason
	rec.UpdatedAt = s.now()

	logger.Info("update success")
	return s.toResponse(*rec), nil
}

func (s *service) Transition(ctx context.Context, companyID string, actor Actor, id string, req TransitionRequest) (Response, error) {
	resp, err := s.transition(ctx, companyID, actor, id, req)
	s.metrics.ObserveTransition(s.kind.Name, req.Outcome, err)
	return resp, err
}

func (s *service) transition(ctx context.Context, companyID string, actor Actor, id string, req TransitionRequest) (Response, error) {
	outcome := workflow.Outcome(req.Outcome)
	logger := s.requestLogger(ctx, companyID, actor,
		zap.String("role", string(actor.Role)),
		zap.String("absence_id", id),
		zap.String("outcome", req.Outcome),
	)
	if !outcome.Valid() {
		return Response{}, absenceerrors.ErrInvalidOutcome
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("transition begin tx failed", zap.Error(err))
		return Response{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rec, err := s.load(ctx, qtx, companyID, id)
	if err != nil {
		return Response{}, err
	}
	if actor.IsApprover() && !visibleTo(actor, *rec) {
		return Response{}, absenceerrors.ErrNotFound
	}

	decision, err := workflow.Decide(workflow.Input{
		Current:   rec.CurrentStatus(),
		Role:      actor.Role,
		IsOwner:   actor.EmployeeID != "" && rec.EmployeeID.String() == actor.EmployeeID,
		Outcome:   outcome,
		StartDate: rec.StartDate,
		EndDate:   rec.EndDate,
	})
	if err != nil {
		logger.Warn("transition refused", zap.String("status", rec.Status), zap.Error(err))
		return Response{}, mapTransitionError(err)
	}

	change := StatusChange{To: decision.To}
	if actor.IsApprover() && outcome != workflow.OutcomeCancel && req.Notes != "" {
		notes := req.Notes
		change.Notes = &notes
	}
	if decision.Effect == workflow.EffectCommit {
		at := s.now()
		change.ApprovalDate = &at
		approver := actor.Identity()
		change.ApprovedBy = &approver
	}

	affected, err := qtx.UpdateStatus(ctx, companyID, id, decision.From, change)
	if err != nil {
		logger.Error("transition persist failed", zap.Error(err))
		return Response{}, err
	}
	if affected == 0 {
		logger.Warn("transition lost race", zap.String("expected_status", string(decision.From)))
		return Response{}, absenceerrors.ErrInvalidTransition
	}

	committed := false
	if decision.Effect == workflow.EffectCommit && s.kind.CommitsLedger(rec.CategoryValue()) {
		if s.ledger == nil {
			return Response{}, absenceerrors.LedgerCommitFailed(errors.New("ledger is not configured"))
		}
		_, err := s.ledger.Commit(ctx, tx, ledger.CommitRequest{
			RequestID:   rec.ID.String(),
			Kind:        s.kind.Name,
			CompanyID:   companyID,
			EmployeeID:  rec.EmployeeID.String(),
			Category:    string(rec.CategoryValue()),
			Start:       rec.StartDate,
			End:         rec.EndDate,
			CommittedBy: actor.Identity(),
		})
		s.metrics.ObserveLedgerCommit(err)
		if err != nil {
			logger.Error("transition ledger commit failed", zap.Error(err))
			if errors.Is(err, ledgererrors.ErrAlreadyCommitted) {
				return Response{}, err
			}
			return Response{}, absenceerrors.LedgerCommitFailed(err)
		}
		committed = true
	}

	if err := tx.Commit(); err != nil {
		logger.Error("transition commit failed", zap.Error(err))
		return Response{}, err
	}

	if committed {
		if start, err := workflow.ParseDate(rec.StartDate); err == nil {
			s.ledger.InvalidateBalances(ctx, companyID, rec.EmployeeID.String(), ledger.PeriodOf(start))
		}
	}

	previous := rec.Status
	rec.Status = string(change.To)
	if change.Notes != nil {
		rec.Notes = change.Notes
	}
	if change.ApprovedBy != nil {
		rec.ApprovedBy = change.ApprovedBy
	}
	if change.ApprovalDate != nil {
		rec.ApprovalDate = change.ApprovalDate
	}
	rec.UpdatedAt = s.now()

	logger.Info("transition success",
		zap.String("from", previous),
		zap.String("to", rec.Status),
		zap.Bool("ledger_committed", committed),
	)

	s.notifyTransition(ctx, actor, *rec, outcome)
	return s.toResponse(*rec), nil
}

func (s *service) Delete(ctx context.Context, companyID string, actor Actor, id string) error {
	logger := s.requestLogger(ctx, companyID, actor,
		zap.String("absence_id", id),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("delete begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rec, err := s.load(ctx, qtx, companyID, id)
	if err != nil {
		return err
	}
	if !visibleTo(actor, *rec) {
		return absenceerrors.ErrNotFound
	}
	isOwner := actor.EmployeeID != "" && rec.EmployeeID.String() == actor.EmployeeID
	if !isOwner && actor.Role != workflow.RoleAdmin {
		logger.Warn("delete refused for non-owner")
		return absenceerrors.ErrForbidden
	}
	if !rec.CurrentStatus().IsPending() {
		logger.Warn("delete refused for settled request", zap.String("status", rec.Status))
		return absenceerrors.ErrForbidden
	}

	affected, err := qtx.DeleteIfStatus(ctx, companyID, id, workflow.PendingStatuses)
	if err != nil {
		logger.Error("delete persist failed", zap.Error(err))
		return err
	}
	if affected == 0 {
		return absenceerrors.ErrForbidden
	}
	if err := tx.Commit(); err != nil {
		logger.Error("delete commit failed", zap.Error(err))
		return err
	}

	logger.Info("delete success")
	return nil
}

func (s *service) requestLogger(ctx context.Context, companyID string, actor Actor, fields ...zap.Field) *zap.Logger {
	md := contextutil.ExtractMetadata(ctx)
	base := []zap.Field{
		zap.String("rid", md.RequestID),
		zap.String("user_id", md.UserID),
		zap.String("kind", s.kind.Name),
		zap.String("company_id", companyID),
		zap.String("actor_id", actor.EmployeeID),
	}
	return s.logger.With(append(base, fields...)...)
}

func (s *service) load(ctx context.Context, repo Repository, companyID, id string) (*Request, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, absenceerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, absenceerrors.ErrInvalidID
	}
	rec, err := repo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, absenceerrors.ErrNotFound
		}
		s.logger.Error("load request failed",
			zap.String("kind", s.kind.Name),
			zap.String("absence_id", id),
			zap.Error(err),
		)
		return nil, err
	}
	return rec, nil
}

func (s *service) validateDetails(category, startDate, endDate, reason string) (Details, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Details{}, absenceerrors.ErrReasonRequired
	}

	start, err := workflow.ParseDate(strings.TrimSpace(startDate))
	if err != nil {
		return Details{}, absenceerrors.ErrInvalidDateFormat
	}
	end, err := workflow.ParseDate(strings.TrimSpace(endDate))
	if err != nil {
		return Details{}, absenceerrors.ErrInvalidDateFormat
	}
	if start.After(end) {
		return Details{}, absenceerrors.ErrInvalidDateRange
	}

	var categoryPtr *string
	category = strings.TrimSpace(category)
	if s.kind.UsesCategory {
		if !workflow.Category(category).Valid() {
			return Details{}, absenceerrors.ErrInvalidCategory
		}
		categoryPtr = &category
	} else if category != "" {
		return Details{}, absenceerrors.ErrCategoryNotAllowed
	}

	return Details{
		Category:  categoryPtr,
		StartDate: start.Format(workflow.DateLayout),
		EndDate:   end.Format(workflow.DateLayout),
		TotalDays: workflow.InclusiveDays(start, end),
		Reason:    reason,
	}, nil
}

// visibleTo hides admin-owned requests from everyone but their owner and
// other employees' requests from plain employees.
func visibleTo(actor Actor, rec Request) bool {
	if actor.EmployeeID != "" && rec.EmployeeID.String() == actor.EmployeeID {
		return true
	}
	if !actor.IsApprover() {
		return false
	}
	return workflow.ParseRole(rec.OwnerRole) != workflow.RoleAdmin
}

func mapTransitionError(err error) error {
	switch {
	case errors.Is(err, workflow.ErrUnauthorized):
		return absenceerrors.ErrUnauthorized
	case errors.Is(err, workflow.ErrInvalidTransition):
		return absenceerrors.ErrInvalidTransition
	case errors.Is(err, workflow.ErrValidationFailed):
		reason := "dates are not valid"
		var terr *workflow.TransitionError
		if errors.As(err, &terr) && terr.Reason != "" {
			reason = terr.Reason
		}
		return absenceerrors.ValidationFailed(reason, err)
	default:
		return err
	}
}

func (s *service) notifyTransition(ctx context.Context, actor Actor, rec Request, outcome workflow.Outcome) {
	switch workflow.Status(rec.Status) {
	case workflow.StatusPendingAdmin:
		s.notify(ctx, actor, rec, events.AbsenceEscalated, true, workflow.RoleAdmin)
	case workflow.StatusApproved:
		s.notify(ctx, actor, rec, events.AbsenceApproved, true)
	case workflow.StatusRejectedHR, workflow.StatusRejectedAdmin:
		s.notify(ctx, actor, rec, events.AbsenceRejected, true)
	case workflow.StatusCancelled:
		s.notify(ctx, actor, rec, events.AbsenceCancelled, false, workflow.RoleHR, workflow.RoleAdmin)
	default:
		s.logger.Debug("no notification for outcome", zap.String("outcome", string(outcome)))
	}
}

// notify fans a notification out after the transaction committed. It never
// fails the caller; errors are logged and counted.
func (s *service) notify(ctx context.Context, actor Actor, rec Request, eventType string, toOwner bool, roles ...workflow.Role) {
	if s.notifier == nil {
		return
	}
	detached := context.WithoutCancel(ctx)
	s.dispatch(func() {
		recipients := make([]string, 0, 4)
		if toOwner {
			recipients = append(recipients, rec.EmployeeID.String())
		}
		if len(roles) > 0 && s.directory != nil {
			ids, err := s.directory.EmployeeIDsByRoles(detached, rec.CompanyID.String(), roles...)
			if err != nil {
				s.metrics.ObserveNotification(err)
				s.logger.Warn("resolve notification recipients failed",
					zap.String("absence_id", rec.ID.String()),
					zap.String("event_type", eventType),
					zap.Error(err),
				)
			}
			recipients = append(recipients, ids...)
		}

		title, message := s.describe(eventType, rec)
		seen := make(map[string]struct{}, len(recipients))
		for _, recipient := range recipients {
			if recipient == "" || recipient == actor.EmployeeID {
				continue
			}
			if _, dup := seen[recipient]; dup {
				continue
			}
			seen[recipient] = struct{}{}

			err := s.notifier.Notify(detached, Notification{
				CompanyID: rec.CompanyID.String(),
				Kind:      s.kind.Name,
				AbsenceID: rec.ID.String(),
				Recipient: recipient,
				Sender:    actor.Identity(),
				EventType: eventType,
				Title:     title,
				Message:   message,
				DeepLink:  s.kind.Path + "/" + rec.ID.String(),
			})
			s.metrics.ObserveNotification(err)
			if err != nil {
				s.logger.Warn("notification failed",
					zap.String("absence_id", rec.ID.String()),
					zap.String("recipient_id", recipient),
					zap.String("event_type", eventType),
					zap.Error(err),
				)
			}
		}
	})
}

func (s *service) describe(eventType string, rec Request) (string, string) {
	period := fmt.Sprintf("%s to %s", rec.StartDate, rec.EndDate)
	switch eventType {
	case events.AbsenceSubmitted:
		return s.kind.Label + " request submitted",
			fmt.Sprintf("A %s request for %s is waiting for review.", s.kind.Label, period)
	case events.AbsenceEscalated:
		return s.kind.Label + " request escalated",
			fmt.Sprintf("The %s request for %s was approved by HR and awaits admin approval.", s.kind.Label, period)
	case events.AbsenceApproved:
		return s.kind.Label + " request approved",
			fmt.Sprintf("Your %s request for %s was approved.", s.kind.Label, period)
	case events.AbsenceRejected:
		return s.kind.Label + " request rejected",
			fmt.Sprintf("Your %s request for %s was rejected.", s.kind.Label, period)
	case events.AbsenceCancelled:
		return s.kind.Label + " request cancelled",
			fmt.Sprintf("The %s request for %s was cancelled by its owner.", s.kind.Label, period)
	default:
		return s.kind.Label + " request updated", period
	}
}

func (s *service) toResponse(rec Request) Response {
	resp := Response{
		ID:         rec.ID.String(),
		Kind:       s.kind.Name,
		CompanyID:  rec.CompanyID.String(),
		EmployeeID: rec.EmployeeID.String(),
		Category:   rec.Category,
		StartDate:  rec.StartDate,
		EndDate:    rec.EndDate,
		TotalDays:  rec.TotalDays,
		Reason:     rec.Reason,
		Status:     rec.Status,
		Notes:      rec.Notes,
		CreatedBy:  rec.CreatedBy.String(),
		CreatedAt:  rec.CreatedAt.Format(time.RFC3339),
	}
	if rec.ApprovedBy != nil {
		v := *rec.ApprovedBy
		resp.ApprovedBy = &v
	}
	if rec.ApprovalDate != nil {
		v := rec.ApprovalDate.Format(time.RFC3339)
		resp.ApprovalDate = &v
	}
	return resp
}
