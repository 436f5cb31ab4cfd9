package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/prodtrackhq/prodtrack-api/internal/dto"
	"github.com/prodtrackhq/prodtrack-api/internal/models"
	appErrors "github.com/prodtrackhq/prodtrack-api/pkg/errors"
	"github.com/prodtrackhq/prodtrack-api/pkg/response"
)

type taskService interface {
	TasksForEmployee(ctx context.Context, employeeID int64) (pending, completed []models.Assignment, err error)
	Complete(ctx context.Context, actorID string, employeeID int64, taskID int64, req dto.CompleteTaskRequest) (*models.Assignment, error)
}

// TaskHandler exposes the employee-facing task endpoints.
type TaskHandler struct {
	service taskService
}

// NewTaskHandler constructs the handler.
func NewTaskHandler(svc taskService) *TaskHandler {
	return &TaskHandler{service: svc}
}

// List godoc
// @Summary List own tasks
// @Description List the authenticated employee's tasks split by status
// @Tags Tasks
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil || claims.EmployeeID == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "no employee roster entry for this account"))
		return
	}

	pending, completed, err := h.service.TasksForEmployee(c.Request.Context(), *claims.EmployeeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"pending": pending, "completed": completed}, nil)
}

// Complete godoc
// @Summary Report task outcome
// @Description Complete a pending task with achieved and rejected quantities
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param payload body dto.CompleteTaskRequest true "Completion payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /tasks/{id}/complete [put]
func (h *TaskHandler) Complete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil || claims.EmployeeID == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "no employee roster entry for this account"))
		return
	}

	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid task id"))
		return
	}

	var req dto.CompleteTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid completion payload"))
		return
	}

	completed, err := h.service.Complete(c.Request.Context(), claims.UserID, *claims.EmployeeID, taskID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, completed, nil)
}
