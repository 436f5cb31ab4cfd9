package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/prodtrackhq/prodtrack-api/internal/dto"
	"github.com/prodtrackhq/prodtrack-api/internal/models"
	appErrors "github.com/prodtrackhq/prodtrack-api/pkg/errors"
)

type assignmentRepository interface {
	Create(ctx context.Context, a *models.Assignment) error
	FindByID(ctx context.Context, id int64) (*models.Assignment, error)
	List(ctx context.Context) ([]models.Assignment, error)
	ListForEmployee(ctx context.Context, employeeID int64) ([]models.Assignment, error)
	Complete(ctx context.Context, id int64, achievedQty, rejectedQty int, reasonForLess string, totalWorkHours float64) error
}

type rosterRepository interface {
	FindEmployee(ctx context.Context, employeeID int64) (*models.Employee, error)
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// AssignmentService implements assignment creation by supervisors and outcome
// reporting by employees.
type AssignmentService struct {
	assignments assignmentRepository
	roster      rosterRepository
	cache       cacheInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(assignments assignmentRepository, roster rosterRepository, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AssignmentService{
		assignments: assignments,
		roster:      roster,
		cache:       cache,
		validator:   validate,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Create records a new assignment for a roster employee. The employee name is
// denormalized onto the record at creation time.
func (s *AssignmentService) Create(ctx context.Context, actorID string, req dto.CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	employee, err := s.roster.FindEmployee(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnknownEmployee, fmt.Sprintf("employee %d is not on the roster", req.EmployeeID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up employee")
	}

	assignment := &models.Assignment{
		EmployeeID:   employee.ID,
		EmployeeName: employee.Name,
		Date:         req.Date,
		Shift:        models.Shift(req.Shift),
		Size:         req.Size,
		MachineNo:    req.MachineNo,
		Process:      req.Process,
		TargetQty:    req.TargetQty,
		Completed:    false,
		CreatedAt:    s.now(),
	}

	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}

	s.invalidateDashboards(ctx)
	s.audit(ctx, actorID, models.AuditActionTaskAssign, assignment.ID, assignment)

	return assignment, nil
}

// Complete reports the outcome for a pending task. Only the employee the task
// was assigned to may complete it, and a task completes at most once.
func (s *AssignmentService) Complete(ctx context.Context, actorID string, employeeID int64, taskID int64, req dto.CompleteTaskRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid completion payload")
	}

	assignment, err := s.assignments.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("task %d not found", taskID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load task")
	}

	if assignment.EmployeeID != employeeID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "task belongs to another employee")
	}
	if assignment.Completed {
		return nil, appErrors.Clone(appErrors.ErrTaskCompleted, "")
	}

	achieved := *req.AchievedQty
	rejected := *req.RejectedQty
	hours := *req.TotalWorkHours
	if achieved < assignment.TargetQty && req.ReasonForLess == "" {
		return nil, appErrors.Clone(appErrors.ErrReasonRequired, "")
	}

	if err := s.assignments.Complete(ctx, taskID, achieved, rejected, req.ReasonForLess, hours); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Lost a race with a concurrent completion.
			return nil, appErrors.Clone(appErrors.ErrTaskCompleted, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete task")
	}

	assignment.AchievedQty = &achieved
	assignment.RejectedQty = &rejected
	assignment.ReasonForLess = &req.ReasonForLess
	assignment.TotalWorkHours = &hours
	assignment.Completed = true

	s.invalidateDashboards(ctx)
	s.audit(ctx, actorID, models.AuditActionTaskComplete, taskID, req)

	return assignment, nil
}

// ListAll returns every assignment in creation order.
func (s *AssignmentService) ListAll(ctx context.Context) ([]models.Assignment, error) {
	assignments, err := s.assignments.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}

// TasksForEmployee returns the employee's tasks split into pending and
// completed, both in creation order.
func (s *AssignmentService) TasksForEmployee(ctx context.Context, employeeID int64) (pending, completed []models.Assignment, err error) {
	assignments, err := s.assignments.ListForEmployee(ctx, employeeID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tasks")
	}
	pending, completed = SplitByStatus(assignments)
	return pending, completed, nil
}

// Employees returns the fixed roster.
func (s *AssignmentService) Employees(ctx context.Context) ([]models.Employee, error) {
	employees, err := s.roster.ListEmployees(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list employees")
	}
	return employees, nil
}

// Options returns one of the fixed selection catalogs by kind.
func (s *AssignmentService) Options(kind string) ([]string, error) {
	switch kind {
	case "machine", "machines":
		return append([]string(nil), models.MachineOptions...), nil
	case "process", "processes":
		return append([]string(nil), models.ProcessOptions...), nil
	case "size", "sizes":
		return append([]string(nil), models.SizeOptions...), nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown option catalog %q", kind))
}

func (s *AssignmentService) invalidateDashboards(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "dashboard:*"); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}

func (s *AssignmentService) audit(ctx context.Context, actorID, action string, taskID int64, payload interface{}) {
	values, err := json.Marshal(payload)
	if err != nil {
		values = nil
	}
	resourceID := strconv.FormatInt(taskID, 10)
	log := &models.AuditLog{
		Action:     action,
		Resource:   "assignment",
		ResourceID: &resourceID,
		NewValues:  values,
	}
	if actorID != "" {
		log.UserID = &actorID
	}
	if err := s.roster.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record audit log", zap.String("action", action), zap.Error(err))
	}
}
