package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/prodtrackhq/prodtrack-api/internal/dto"
	"github.com/prodtrackhq/prodtrack-api/internal/models"
	appErrors "github.com/prodtrackhq/prodtrack-api/pkg/errors"
)

type fakeAssignmentSrv struct {
	createErr   error
	lastRequest dto.CreateAssignmentRequest
	assignments []models.Assignment
	employees   []models.Employee
}

func (f *fakeAssignmentSrv) Create(_ context.Context, _ string, req dto.CreateAssignmentRequest) (*models.Assignment, error) {
	f.lastRequest = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Assignment{ID: 1, EmployeeID: req.EmployeeID, TargetQty: req.TargetQty}, nil
}

func (f *fakeAssignmentSrv) ListAll(context.Context) ([]models.Assignment, error) {
	return f.assignments, nil
}

func (f *fakeAssignmentSrv) Employees(context.Context) ([]models.Employee, error) {
	return f.employees, nil
}

func (f *fakeAssignmentSrv) Options(kind string) ([]string, error) {
	if kind == "machines" {
		return models.MachineOptions, nil
	}
	return nil, appErrors.ErrNotFound
}

func TestAssignmentCreateReturns201(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeAssignmentSrv{}
	handler := NewAssignmentHandler(service)

	body := bytes.NewBufferString(`{"employee_id":1,"date":"2025-05-15","shift":"Morning","size":"Large","machine_no":"MC-101","process":"Assembly","target_qty":150}`)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/assignments", body)
	c.Request.Header.Set("Content-Type", "application/json")
	withClaims(c, models.RoleSupervisor, nil)

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.EqualValues(t, 1, service.lastRequest.EmployeeID)
	assert.Equal(t, 150, service.lastRequest.TargetQty)
}

func TestAssignmentCreateUnknownEmployee(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAssignmentHandler(&fakeAssignmentSrv{createErr: appErrors.ErrUnknownEmployee})

	body := bytes.NewBufferString(`{"employee_id":99,"date":"2025-05-15","shift":"Morning","size":"Large","machine_no":"MC-101","process":"Assembly","target_qty":150}`)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/assignments", body)
	c.Request.Header.Set("Content-Type", "application/json")
	withClaims(c, models.RoleSupervisor, nil)

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNKNOWN_EMPLOYEE")
}

func TestAssignmentListReturnsAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAssignmentHandler(&fakeAssignmentSrv{
		assignments: []models.Assignment{{ID: 1, EmployeeName: "John Smith"}},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/assignments", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "John Smith")
}

func TestAssignmentOptions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAssignmentHandler(&fakeAssignmentSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/options/machines", nil)
	c.Params = gin.Params{{Key: "kind", Value: "machines"}}

	handler.Options(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "MC-101")

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/options/colors", nil)
	c.Params = gin.Params{{Key: "kind", Value: "colors"}}

	handler.Options(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
