package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/prodtrackhq/prodtrack-api/internal/dto"
	"github.com/prodtrackhq/prodtrack-api/internal/models"
	appErrors "github.com/prodtrackhq/prodtrack-api/pkg/errors"
)

type fakeExportSrv struct {
	lastFilter models.ReportFilter
	data       []byte
}

func (f *fakeExportSrv) ExportCSV(_ context.Context, _ string, filter models.ReportFilter) (string, []byte, error) {
	f.lastFilter = filter
	return "production-report-2025-05-20.csv", f.data, nil
}

type fakeReportSrv struct {
	created   *dto.ReportJobResponse
	createErr error
	status    *dto.ReportStatusResponse
	statusErr error
}

func (f *fakeReportSrv) CreateJob(context.Context, string, dto.ReportRequest) (*dto.ReportJobResponse, error) {
	return f.created, f.createErr
}

func (f *fakeReportSrv) Status(context.Context, string) (*dto.ReportStatusResponse, error) {
	return f.status, f.statusErr
}

func (f *fakeReportSrv) Download(context.Context, string) (*os.File, string, error) {
	return nil, "", appErrors.ErrUnauthorized
}

func TestReportExportSetsAttachmentHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	exports := &fakeExportSrv{data: []byte("Employee Name,Date\n")}
	handler := NewReportHandler(exports, &fakeReportSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/export?shift=Morning&employee_id=2", nil)
	withClaims(c, models.RoleSupervisor, nil)

	handler.Export(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "production-report-2025-05-20.csv")
	assert.Equal(t, "Morning", exports.lastFilter.Shift)
	if assert.NotNil(t, exports.lastFilter.EmployeeID) {
		assert.EqualValues(t, 2, *exports.lastFilter.EmployeeID)
	}
}

func TestReportExportRejectsReversedRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&fakeExportSrv{}, &fakeReportSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/export?start_date=2025-05-20&end_date=2025-05-10", nil)
	withClaims(c, models.RoleSupervisor, nil)

	handler.Export(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportExportRejectsMalformedDateBound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&fakeExportSrv{}, &fakeReportSrv{})

	for _, query := range []string{"start_date=05-10-2025", "end_date=notadate"} {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/reports/export?"+query, nil)
		withClaims(c, models.RoleSupervisor, nil)

		handler.Export(c)

		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestReportCreateJobAccepted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&fakeExportSrv{}, &fakeReportSrv{
		created: &dto.ReportJobResponse{ID: "job-1", Status: models.ReportStatusQueued},
	})

	body := bytes.NewBufferString(`{"format":"csv"}`)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/reports", body)
	c.Request.Header.Set("Content-Type", "application/json")
	withClaims(c, models.RoleAdmin, nil)

	handler.CreateJob(c)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), "job-1")
}

func TestReportStatusNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&fakeExportSrv{}, &fakeReportSrv{statusErr: appErrors.ErrNotFound})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	withClaims(c, models.RoleAdmin, nil)

	handler.Status(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportDownloadRequiresToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&fakeExportSrv{}, &fakeReportSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/download", nil)

	handler.Download(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
