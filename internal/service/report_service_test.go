package service

import (
	"context"
	"database/sql"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodtrackhq/prodtrack-api/internal/dto"
	"github.com/prodtrackhq/prodtrack-api/internal/models"
	"github.com/prodtrackhq/prodtrack-api/internal/repository"
	appErrors "github.com/prodtrackhq/prodtrack-api/pkg/errors"
	"github.com/prodtrackhq/prodtrack-api/pkg/jobs"
	"github.com/prodtrackhq/prodtrack-api/pkg/storage"
)

type memoryJobStore struct {
	jobs map[string]*models.ReportJob
}

func newMemoryJobStore() *memoryJobStore {
	return &memoryJobStore{jobs: map[string]*models.ReportJob{}}
}

func (m *memoryJobStore) Create(ctx context.Context, job *models.ReportJob) error {
	copy := *job
	m.jobs[job.ID] = &copy
	return nil
}

func (m *memoryJobStore) GetByID(ctx context.Context, id string) (*models.ReportJob, error) {
	if job, ok := m.jobs[id]; ok {
		copy := *job
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *memoryJobStore) Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error {
	job, ok := m.jobs[id]
	if !ok {
		return sql.ErrNoRows
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Progress != nil {
		job.Progress = *params.Progress
	}
	if params.FilePath != nil {
		job.FilePath = *params.FilePath
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.StartedAt != nil {
		job.StartedAt = params.StartedAt
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	return nil
}

func (m *memoryJobStore) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error) {
	var out []models.ReportJob
	for _, job := range m.jobs {
		if job.FinishedAt != nil && job.FinishedAt.Before(cutoff) && job.FilePath != "" {
			out = append(out, *job)
		}
	}
	return out, nil
}

type capturingQueue struct {
	jobs []jobs.Job
	err  error
}

func (q *capturingQueue) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func newTestReportService(t *testing.T, store *memoryJobStore, queue *capturingQueue) *ReportService {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return NewReportService(ReportServiceParams{
		Jobs:        store,
		Assignments: &stubExportLister{assignments: sampleAssignments()},
		Queue:       queue,
		Storage:     local,
		Signer:      storage.NewSignedURLSigner("test-secret", time.Hour),
	})
}

func TestReportJobLifecycle(t *testing.T) {
	store := newMemoryJobStore()
	queue := &capturingQueue{}
	svc := newTestReportService(t, store, queue)

	created, err := svc.CreateJob(context.Background(), "u-admin", dto.ReportRequest{Format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusQueued, created.Status)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, JobTypeReportExport, queue.jobs[0].Type)

	require.NoError(t, svc.ProcessJob(context.Background(), queue.jobs[0]))

	status, err := svc.Status(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusCompleted, status.Status)
	assert.Equal(t, 100, status.Progress)
	require.NotEmpty(t, status.DownloadToken)

	file, filename, err := svc.Download(context.Background(), status.DownloadToken)
	require.NoError(t, err)
	defer file.Close()
	assert.Contains(t, filename, ".csv")

	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Employee Name")
	assert.Contains(t, string(content), "John Smith")
}

func TestReportJobPDFFormat(t *testing.T) {
	store := newMemoryJobStore()
	queue := &capturingQueue{}
	svc := newTestReportService(t, store, queue)

	created, err := svc.CreateJob(context.Background(), "u-admin", dto.ReportRequest{Format: "pdf"})
	require.NoError(t, err)
	require.NoError(t, svc.ProcessJob(context.Background(), queue.jobs[0]))

	status, err := svc.Status(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusCompleted, status.Status)

	file, filename, err := svc.Download(context.Background(), status.DownloadToken)
	require.NoError(t, err)
	defer file.Close()
	assert.Contains(t, filename, ".pdf")

	header := make([]byte, 4)
	_, err = file.Read(header)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(header))
}

func TestReportJobValidation(t *testing.T) {
	svc := newTestReportService(t, newMemoryJobStore(), &capturingQueue{})

	_, err := svc.CreateJob(context.Background(), "u-admin", dto.ReportRequest{Format: "xlsx"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.CreateJob(context.Background(), "u-admin", dto.ReportRequest{
		Format: "csv", StartDate: "2025-05-20", EndDate: "2025-05-10",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportJobStatusUnknownID(t *testing.T) {
	svc := newTestReportService(t, newMemoryJobStore(), &capturingQueue{})

	_, err := svc.Status(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestReportDownloadRejectsTamperedToken(t *testing.T) {
	store := newMemoryJobStore()
	queue := &capturingQueue{}
	svc := newTestReportService(t, store, queue)

	_, err := svc.CreateJob(context.Background(), "u-admin", dto.ReportRequest{Format: "csv"})
	require.NoError(t, err)
	require.NoError(t, svc.ProcessJob(context.Background(), queue.jobs[0]))

	_, _, err = svc.Download(context.Background(), "bogus.token.value.here")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestReportCleanupRemovesExpiredArtifacts(t *testing.T) {
	store := newMemoryJobStore()
	queue := &capturingQueue{}
	svc := newTestReportService(t, store, queue)

	created, err := svc.CreateJob(context.Background(), "u-admin", dto.ReportRequest{Format: "csv"})
	require.NoError(t, err)
	require.NoError(t, svc.ProcessJob(context.Background(), queue.jobs[0]))

	// Age the job past the retention window.
	old := time.Now().UTC().Add(-48 * time.Hour)
	store.jobs[created.ID].FinishedAt = &old

	require.NoError(t, svc.Cleanup(context.Background()))
	assert.Empty(t, store.jobs[created.ID].FilePath)
}
