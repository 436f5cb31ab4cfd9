package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/prodtrackhq/prodtrack-api/internal/dto"
	"github.com/prodtrackhq/prodtrack-api/internal/models"
	appErrors "github.com/prodtrackhq/prodtrack-api/pkg/errors"
)

type dashboardAssignmentLister interface {
	List(ctx context.Context) ([]models.Assignment, error)
	ListForEmployee(ctx context.Context, employeeID int64) ([]models.Assignment, error)
	ListByDate(ctx context.Context, date string) ([]models.Assignment, error)
}

type dashboardRosterLister interface {
	ListEmployees(ctx context.Context) ([]models.Employee, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL               time.Duration
	RecentAssignmentsLimit int
}

// DashboardService composes the three role-scoped dashboard payloads.
type DashboardService struct {
	assignments dashboardAssignmentLister
	roster      dashboardRosterLister
	cache       *CacheService
	logger      *zap.Logger
	now         func() time.Time
	cfg         DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(assignments dashboardAssignmentLister, roster dashboardRosterLister, cache *CacheService, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.RecentAssignmentsLimit <= 0 {
		cfg.RecentAssignmentsLimit = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		assignments: assignments,
		roster:      roster,
		cache:       cache,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
		cfg:         cfg,
	}
}

// Admin returns the aggregate view over the filtered assignment set and
// indicates whether the response was served from cache. Only the unfiltered
// view is cached; filtered requests always recompute.
func (s *DashboardService) Admin(ctx context.Context, filter models.DashboardFilter) (*dto.AdminDashboardResponse, bool, error) {
	cacheable := filter == (models.DashboardFilter{})
	const cacheKey = "dashboard:admin"

	if cacheable && s.cache != nil {
		var cached dto.AdminDashboardResponse
		hit, err := s.cache.Get(ctx, cacheKey, &cached)
		if err == nil && hit {
			return &cached, true, nil
		}
	}

	all, err := s.assignments.List(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}

	filtered := FilterDashboard(all, filter)
	resp := &dto.AdminDashboardResponse{
		Summary:     Summarize(filtered),
		Assignments: filtered,
	}

	if cacheable {
		s.persistCache(ctx, cacheKey, resp)
	}
	return resp, false, nil
}

// Supervisor returns the pending-submission alert list for today plus the
// most recently created assignments.
func (s *DashboardService) Supervisor(ctx context.Context) (*dto.SupervisorDashboardResponse, error) {
	roster, err := s.roster.ListEmployees(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	today := s.now().Format("2006-01-02")
	todays, err := s.assignments.ListByDate(ctx, today)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load today's assignments")
	}

	all, err := s.assignments.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}

	return &dto.SupervisorDashboardResponse{
		PendingSubmissions: PendingToday(roster, todays, today),
		Assignments:        recentAssignments(all, s.cfg.RecentAssignmentsLimit),
	}, nil
}

// Employee returns the employee's own tasks partitioned by status.
func (s *DashboardService) Employee(ctx context.Context, employeeID int64) (*dto.EmployeeDashboardResponse, error) {
	assignments, err := s.assignments.ListForEmployee(ctx, employeeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tasks")
	}
	pending, completed := SplitByStatus(assignments)
	return &dto.EmployeeDashboardResponse{Pending: pending, Completed: completed}, nil
}

func (s *DashboardService) persistCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// recentAssignments returns the newest entries, newest first. Input arrives
// in creation order.
func recentAssignments(assignments []models.Assignment, limit int) []models.Assignment {
	n := len(assignments)
	if limit > n {
		limit = n
	}
	out := make([]models.Assignment, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, assignments[i])
	}
	return out
}
