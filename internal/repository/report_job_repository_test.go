package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodtrackhq/prodtrack-api/internal/models"
)

func TestReportJobRepositoryCreateDefaults(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewReportJobRepository(db)

	mock.ExpectExec("INSERT INTO report_jobs").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	job := &models.ReportJob{Format: models.ReportFormatCSV, CreatedBy: "u-1"}
	err := repo.Create(context.Background(), job)
	require.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, models.ReportStatusQueued, job.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportJobRepositoryUpdatePartial(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewReportJobRepository(db)

	status := models.ReportStatusProcessing
	progress := 10
	started := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE report_jobs SET status = $2, progress = $3, started_at = $4 WHERE id = $1")).
		WithArgs("job-1", status, progress, started).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), "job-1", UpdateReportJobParams{Status: &status, Progress: &progress, StartedAt: &started})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportJobRepositoryUpdateNoFields(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewReportJobRepository(db)

	err := repo.Update(context.Background(), "job-1", UpdateReportJobParams{})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
