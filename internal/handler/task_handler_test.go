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

type fakeTaskSrv struct {
	pending    []models.Assignment
	completed  []models.Assignment
	completeFn func(employeeID, taskID int64, req dto.CompleteTaskRequest) (*models.Assignment, error)
	lastTaskID int64
}

func (f *fakeTaskSrv) TasksForEmployee(context.Context, int64) ([]models.Assignment, []models.Assignment, error) {
	return f.pending, f.completed, nil
}

func (f *fakeTaskSrv) Complete(_ context.Context, _ string, employeeID int64, taskID int64, req dto.CompleteTaskRequest) (*models.Assignment, error) {
	f.lastTaskID = taskID
	if f.completeFn != nil {
		return f.completeFn(employeeID, taskID, req)
	}
	return &models.Assignment{ID: taskID, Completed: true}, nil
}

func TestTaskListRequiresEmployeeClaim(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTaskHandler(&fakeTaskSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/tasks", nil)
	withClaims(c, models.RoleEmployee, nil)

	handler.List(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTaskListSplitsByStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTaskHandler(&fakeTaskSrv{
		pending:   []models.Assignment{{ID: 3, EmployeeID: 1}},
		completed: []models.Assignment{{ID: 1, EmployeeID: 1, Completed: true}},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/tasks", nil)
	withClaims(c, models.RoleEmployee, testEmployeeID(1))

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pending"`)
	assert.Contains(t, rec.Body.String(), `"completed"`)
}

func TestTaskCompleteSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeTaskSrv{}
	handler := NewTaskHandler(service)

	body := bytes.NewBufferString(`{"achieved_qty":150,"rejected_qty":2,"total_work_hours":8}`)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPut, "/tasks/7/complete", body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	withClaims(c, models.RoleEmployee, testEmployeeID(1))

	handler.Complete(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 7, service.lastTaskID)
}

func TestTaskCompleteInvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTaskHandler(&fakeTaskSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPut, "/tasks/abc/complete", bytes.NewBufferString(`{}`))
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	withClaims(c, models.RoleEmployee, testEmployeeID(1))

	handler.Complete(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskCompleteConflictPropagates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTaskHandler(&fakeTaskSrv{
		completeFn: func(int64, int64, dto.CompleteTaskRequest) (*models.Assignment, error) {
			return nil, appErrors.ErrTaskCompleted
		},
	})

	body := bytes.NewBufferString(`{"achieved_qty":150,"rejected_qty":0,"total_work_hours":8}`)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPut, "/tasks/7/complete", body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	withClaims(c, models.RoleEmployee, testEmployeeID(1))

	handler.Complete(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
