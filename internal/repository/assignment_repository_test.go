package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodtrackhq/prodtrack-api/internal/models"
)

func assignmentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "employee_id", "employee_name", "work_date", "shift", "size", "machine_no", "process", "target_qty", "achieved_qty", "rejected_qty", "reason_for_less", "total_work_hours", "completed", "created_at"})
}

func TestAssignmentRepositoryCreateReturnsSerialID(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery("INSERT INTO assignments").
		WithArgs(int64(1), "John Smith", "2025-05-16", "Morning", "Small", "MC-103", "Fabrication", 100, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))

	a := &models.Assignment{
		EmployeeID:   1,
		EmployeeName: "John Smith",
		Date:         "2025-05-16",
		Shift:        models.ShiftMorning,
		Size:         "Small",
		MachineNo:    "MC-103",
		Process:      "Fabrication",
		TargetQty:    100,
	}
	err := repo.Create(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, int64(4), a.ID)
	assert.False(t, a.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryListForEmployee(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	rows := assignmentRows().
		AddRow(1, 1, "John Smith", "2025-05-15", "Morning", "Large", "MC-101", "Assembly", 150, 145, 2, "Material shortage", 7.5, true, time.Now()).
		AddRow(3, 1, "John Smith", "2025-05-16", "Morning", "Small", "MC-103", "Fabrication", 100, nil, nil, nil, nil, false, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, employee_id, employee_name, work_date, shift, size, machine_no, process, target_qty, achieved_qty, rejected_qty, reason_for_less, total_work_hours, completed, created_at FROM assignments WHERE employee_id = $1 ORDER BY id ASC")).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	assignments, err := repo.ListForEmployee(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, int64(1), assignments[0].ID)
	assert.Equal(t, int64(3), assignments[1].ID)
	assert.Nil(t, assignments[1].AchievedQty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryCompleteTouchesOnlyOutcomeColumns(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE assignments\n        SET achieved_qty = $2, rejected_qty = $3, reason_for_less = $4, total_work_hours = $5, completed = TRUE\n        WHERE id = $1 AND completed = FALSE")).
		WithArgs(int64(3), 90, 4, "Machine breakdown", 6.5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Complete(context.Background(), 3, 90, 4, "Machine breakdown", 6.5)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryCompleteUnknownID(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec("UPDATE assignments").
		WithArgs(int64(99), 10, 0, "", 8.0).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Complete(context.Background(), 99, 10, 0, "", 8.0)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryListScansDateColumnToCalendarForm(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	// The work_date column is a Postgres DATE, which lib/pq decodes as
	// time.Time. Reads must still come back as plain calendar dates.
	workDate := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "employee_id", "employee_name", "work_date", "shift", "size", "machine_no", "process", "target_qty", "achieved_qty", "rejected_qty", "reason_for_less", "total_work_hours", "completed", "created_at"}).
		AddRow(1, 1, "John Smith", workDate, "Morning", "Large", "MC-101", "Assembly", 150, 145, 2, "Material shortage", 7.5, true, time.Now())
	mock.ExpectQuery("SELECT .* FROM assignments ORDER BY id ASC").WillReturnRows(rows)

	assignments, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, "2025-05-15", assignments[0].Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryFindByIDScansDateColumnToCalendarForm(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	workDate := time.Date(2025, 5, 16, 0, 0, 0, 0, time.UTC)
	rows := assignmentRows().
		AddRow(3, 1, "John Smith", workDate, "Morning", "Small", "MC-103", "Fabrication", 100, nil, nil, nil, nil, false, time.Now())
	mock.ExpectQuery("SELECT .* FROM assignments WHERE id = ").
		WithArgs(int64(3)).
		WillReturnRows(rows)

	a, err := repo.FindByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "2025-05-16", a.Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}
