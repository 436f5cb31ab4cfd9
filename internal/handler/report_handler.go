package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prodtrackhq/prodtrack-api/internal/dto"
	"github.com/prodtrackhq/prodtrack-api/internal/models"
	appErrors "github.com/prodtrackhq/prodtrack-api/pkg/errors"
	"github.com/prodtrackhq/prodtrack-api/pkg/response"
)

type exportService interface {
	ExportCSV(ctx context.Context, actorID string, filter models.ReportFilter) (filename string, data []byte, err error)
}

type reportService interface {
	CreateJob(ctx context.Context, actorID string, req dto.ReportRequest) (*dto.ReportJobResponse, error)
	Status(ctx context.Context, jobID string) (*dto.ReportStatusResponse, error)
	Download(ctx context.Context, token string) (*os.File, string, error)
}

// ReportHandler serves both the synchronous CSV export and the asynchronous
// report job endpoints.
type ReportHandler struct {
	exports exportService
	reports reportService
}

// NewReportHandler constructs the handler.
func NewReportHandler(exports exportService, reports reportService) *ReportHandler {
	return &ReportHandler{exports: exports, reports: reports}
}

// Export godoc
// @Summary Download production report CSV
// @Description Render the filtered completed records as a CSV attachment
// @Tags Reports
// @Produce text/csv
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Param employee_id query int false "Employee ID"
// @Param shift query string false "Shift"
// @Param machine_no query string false "Machine"
// @Success 200 {string} string "CSV content"
// @Failure 400 {object} response.Envelope
// @Router /reports/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	filter, err := reportFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	actorID := ""
	if claims := claimsFromContext(c); claims != nil {
		actorID = claims.UserID
	}

	filename, data, err := h.exports.ExportCSV(c.Request.Context(), actorID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// CreateJob godoc
// @Summary Queue an asynchronous report export
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.ReportRequest true "Report request"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reports [post]
func (h *ReportHandler) CreateJob(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid report request"))
		return
	}

	job, err := h.reports.CreateJob(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusAccepted, job, nil)
}

// Status godoc
// @Summary Poll report job status
// @Tags Reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/{id} [get]
func (h *ReportHandler) Status(c *gin.Context) {
	status, err := h.reports.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Download godoc
// @Summary Download a finished report artifact
// @Description Stream the artifact addressed by a signed token
// @Tags Reports
// @Produce application/octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {string} string "Artifact content"
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/download [get]
func (h *ReportHandler) Download(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}

	file, filename, err := h.reports.Download(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat artifact"))
		return
	}

	contentType := "text/csv"
	if strings.HasSuffix(filename, ".pdf") {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.DataFromReader(http.StatusOK, info.Size(), contentType, file, nil)
}

func reportFilterFromQuery(c *gin.Context) (models.ReportFilter, error) {
	employeeID, err := parseEmployeeID(strings.TrimSpace(c.Query("employee_id")))
	if err != nil {
		return models.ReportFilter{}, err
	}
	filter := models.ReportFilter{
		StartDate:  strings.TrimSpace(c.Query("start_date")),
		EndDate:    strings.TrimSpace(c.Query("end_date")),
		EmployeeID: employeeID,
		Shift:      strings.TrimSpace(c.Query("shift")),
		MachineNo:  strings.TrimSpace(c.Query("machine_no")),
	}
	for name, value := range map[string]string{"start_date": filter.StartDate, "end_date": filter.EndDate} {
		if value == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", value); err != nil {
			return models.ReportFilter{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid %s, expected YYYY-MM-DD", name))
		}
	}
	if filter.StartDate != "" && filter.EndDate != "" && filter.StartDate > filter.EndDate {
		return models.ReportFilter{}, appErrors.Clone(appErrors.ErrValidation, "start_date must not be after end_date")
	}
	return filter, nil
}
