package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prodtrackhq/prodtrack-api/internal/dto"
	"github.com/prodtrackhq/prodtrack-api/internal/middleware"
	"github.com/prodtrackhq/prodtrack-api/internal/models"
	appErrors "github.com/prodtrackhq/prodtrack-api/pkg/errors"
	"github.com/prodtrackhq/prodtrack-api/pkg/response"
)

type dashboardService interface {
	Admin(ctx context.Context, filter models.DashboardFilter) (*dto.AdminDashboardResponse, bool, error)
	Supervisor(ctx context.Context) (*dto.SupervisorDashboardResponse, error)
	Employee(ctx context.Context, employeeID int64) (*dto.EmployeeDashboardResponse, error)
}

// DashboardHandler serves the role-scoped dashboard. Dispatch runs through a
// role registry so adding a role means registering a view, not growing a
// conditional.
type DashboardHandler struct {
	service dashboardService
	views   map[models.Role]gin.HandlerFunc
}

// NewDashboardHandler constructs the handler and registers the per-role views.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	h := &DashboardHandler{service: service}
	h.views = map[models.Role]gin.HandlerFunc{
		models.RoleAdmin:      h.admin,
		models.RoleSupervisor: h.supervisor,
		models.RoleEmployee:   h.employee,
	}
	return h
}

// Show godoc
// @Summary Role-scoped dashboard
// @Description Serve the dashboard view matching the authenticated role
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Show(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	view, ok := h.views[claims.Role]
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "no dashboard for this role"))
		return
	}
	view(c)
}

func (h *DashboardHandler) admin(c *gin.Context) {
	filter := models.DashboardFilter{
		Date:         strings.TrimSpace(c.Query("date")),
		Shift:        strings.TrimSpace(c.Query("shift")),
		MachineNo:    strings.TrimSpace(c.Query("machine_no")),
		EmployeeName: strings.TrimSpace(c.Query("employee_name")),
	}
	if filter.Date != "" {
		if _, err := time.Parse("2006-01-02", filter.Date); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD"))
			return
		}
	}

	start := time.Now()
	summary, cacheHit, err := h.service.Admin(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.MarkCacheHit(c, cacheHit)
	meta := middleware.Meta(c)
	if meta == nil {
		meta = map[string]interface{}{
			"processing_time_ms": time.Since(start).Milliseconds(),
			"cache_hit":          cacheHit,
		}
	}
	response.JSON(c, http.StatusOK, summary, nil, meta)
}

func (h *DashboardHandler) supervisor(c *gin.Context) {
	summary, err := h.service.Supervisor(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

func (h *DashboardHandler) employee(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims.EmployeeID == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "no employee roster entry for this account"))
		return
	}
	summary, err := h.service.Employee(c.Request.Context(), *claims.EmployeeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// parseEmployeeID is shared by report query parsing.
func parseEmployeeID(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid employee_id")
	}
	return &id, nil
}
