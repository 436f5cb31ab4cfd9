package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prodtrackhq/prodtrack-api/internal/dto"
	"github.com/prodtrackhq/prodtrack-api/internal/models"
	appErrors "github.com/prodtrackhq/prodtrack-api/pkg/errors"
	"github.com/prodtrackhq/prodtrack-api/pkg/response"
)

type assignmentService interface {
	Create(ctx context.Context, actorID string, req dto.CreateAssignmentRequest) (*models.Assignment, error)
	ListAll(ctx context.Context) ([]models.Assignment, error)
	Employees(ctx context.Context) ([]models.Employee, error)
	Options(kind string) ([]string, error)
}

// AssignmentHandler exposes supervisor assignment management.
type AssignmentHandler struct {
	service assignmentService
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(svc assignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

// Create godoc
// @Summary Assign a production task
// @Description Create a new assignment for a roster employee
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}

	created, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, created)
}

// List godoc
// @Summary List assignments
// @Description List all assignments in creation order
// @Tags Assignments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	assignments, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// Employees godoc
// @Summary List the employee roster
// @Tags Assignments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /employees [get]
func (h *AssignmentHandler) Employees(c *gin.Context) {
	employees, err := h.service.Employees(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employees, nil)
}

// Options godoc
// @Summary Selection catalog
// @Description Return one of the fixed option catalogs: machines, processes, or sizes
// @Tags Assignments
// @Produce json
// @Param kind path string true "Catalog kind"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /options/{kind} [get]
func (h *AssignmentHandler) Options(c *gin.Context) {
	options, err := h.service.Options(c.Param("kind"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, options, nil)
}
