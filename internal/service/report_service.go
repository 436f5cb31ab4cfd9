package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/prodtrackhq/prodtrack-api/internal/dto"
	"github.com/prodtrackhq/prodtrack-api/internal/models"
	"github.com/prodtrackhq/prodtrack-api/internal/repository"
	appErrors "github.com/prodtrackhq/prodtrack-api/pkg/errors"
	"github.com/prodtrackhq/prodtrack-api/pkg/export"
	"github.com/prodtrackhq/prodtrack-api/pkg/jobs"
	"github.com/prodtrackhq/prodtrack-api/pkg/storage"
)

// JobTypeReportExport tags report export jobs on the queue.
const JobTypeReportExport = "report_export"

type reportJobStore interface {
	Create(ctx context.Context, job *models.ReportJob) error
	GetByID(ctx context.Context, id string) (*models.ReportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error
	ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

type artifactStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

// ReportService runs asynchronous report exports: a job row tracks progress
// while a queue worker renders and stores the artifact.
type ReportService struct {
	jobsRepo    reportJobStore
	assignments exportAssignmentLister
	queue       jobEnqueuer
	store       artifactStorage
	signer      *storage.SignedURLSigner
	metrics     *MetricsService
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
	artifactTTL time.Duration
}

// ReportServiceParams groups constructor dependencies.
type ReportServiceParams struct {
	Jobs        reportJobStore
	Assignments exportAssignmentLister
	Queue       jobEnqueuer
	Storage     artifactStorage
	Signer      *storage.SignedURLSigner
	Metrics     *MetricsService
	Validator   *validator.Validate
	Logger      *zap.Logger
	ArtifactTTL time.Duration
}

// NewReportService constructs a ReportService.
func NewReportService(params ReportServiceParams) *ReportService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	ttl := params.ArtifactTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ReportService{
		jobsRepo:    params.Jobs,
		assignments: params.Assignments,
		queue:       params.Queue,
		store:       params.Storage,
		signer:      params.Signer,
		metrics:     params.Metrics,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		validator:   validate,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
		artifactTTL: ttl,
	}
}

// CreateJob records a new export job and hands it to the queue.
func (s *ReportService) CreateJob(ctx context.Context, actorID string, req dto.ReportRequest) (*dto.ReportJobResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report request")
	}
	if req.StartDate != "" && req.EndDate != "" && req.StartDate > req.EndDate {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must not be after end_date")
	}

	job := &models.ReportJob{
		ID:         uuid.NewString(),
		Format:     models.ReportFormat(req.Format),
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		EmployeeID: req.EmployeeID,
		Shift:      req.Shift,
		MachineNo:  req.MachineNo,
		Status:     models.ReportStatusQueued,
		CreatedBy:  actorID,
		CreatedAt:  s.now(),
	}

	if err := s.jobsRepo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create report job")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: JobTypeReportExport}); err != nil {
		s.markFailed(ctx, job.ID, fmt.Sprintf("enqueue failed: %v", err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue report job")
	}

	return &dto.ReportJobResponse{ID: job.ID, Status: job.Status, Progress: job.Progress}, nil
}

// Status reports job progress. Completed jobs include a signed download
// token.
func (s *ReportService) Status(ctx context.Context, jobID string) (*dto.ReportStatusResponse, error) {
	job, err := s.jobsRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("report job %s not found", jobID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report job")
	}

	resp := &dto.ReportStatusResponse{
		ID:           job.ID,
		Format:       job.Format,
		Status:       job.Status,
		Progress:     job.Progress,
		ErrorMessage: job.ErrorMessage,
	}

	if job.Status == models.ReportStatusCompleted && job.FilePath != "" && s.signer != nil {
		token, expiresAt, err := s.signer.Generate(job.ID, job.FilePath)
		if err != nil {
			s.logger.Warn("failed to sign download token", zap.String("job_id", job.ID), zap.Error(err))
		} else {
			resp.DownloadToken = token
			resp.ExpiresAt = &expiresAt
		}
	}

	return resp, nil
}

// Download validates a signed token and opens the artifact for streaming.
func (s *ReportService) Download(ctx context.Context, token string) (*os.File, string, error) {
	jobID, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}

	job, err := s.jobsRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "report job not found")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report job")
	}
	if job.Status != models.ReportStatusCompleted || job.FilePath != relPath {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "report artifact is not available")
	}

	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "report artifact is missing")
	}
	return file, filepath.Base(relPath), nil
}

// ProcessJob is the queue handler: it renders the artifact and advances the
// job through its lifecycle.
func (s *ReportService) ProcessJob(ctx context.Context, job jobs.Job) error {
	record, err := s.jobsRepo.GetByID(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("load report job %s: %w", job.ID, err)
	}
	if record.Status == models.ReportStatusCompleted {
		return nil
	}

	startedAt := s.now()
	s.updateJob(ctx, record.ID, repository.UpdateReportJobParams{
		Status:    statusPtr(models.ReportStatusProcessing),
		Progress:  intPointer(10),
		StartedAt: &startedAt,
	})

	all, err := s.assignments.List(ctx)
	if err != nil {
		s.markFailed(ctx, record.ID, fmt.Sprintf("load assignments: %v", err))
		return err
	}
	s.updateJob(ctx, record.ID, repository.UpdateReportJobParams{Progress: intPointer(50)})

	dataset := ReportDataset(FilterReport(all, record.Filter()))

	var data []byte
	switch record.Format {
	case models.ReportFormatPDF:
		data, err = s.pdf.Render(dataset, "Production Report")
	default:
		data, err = s.csv.Render(dataset)
	}
	if err != nil {
		s.markFailed(ctx, record.ID, fmt.Sprintf("render %s: %v", record.Format, err))
		return err
	}

	filename := fmt.Sprintf("production-report-%s.%s", record.ID, record.Format)
	relPath, err := s.store.Save(filename, data)
	if err != nil {
		s.markFailed(ctx, record.ID, fmt.Sprintf("store artifact: %v", err))
		return err
	}

	finishedAt := s.now()
	s.updateJob(ctx, record.ID, repository.UpdateReportJobParams{
		Status:     statusPtr(models.ReportStatusCompleted),
		Progress:   intPointer(100),
		FilePath:   &relPath,
		FinishedAt: &finishedAt,
	})
	if s.metrics != nil {
		s.metrics.RecordReportJob(string(models.ReportStatusCompleted))
	}
	s.logger.Info("report job completed",
		zap.String("job_id", record.ID),
		zap.String("format", string(record.Format)),
		zap.Int("rows", len(dataset.Rows)))
	return nil
}

// Cleanup removes artifacts for jobs that finished before the retention
// window. Intended to run on a cron schedule.
func (s *ReportService) Cleanup(ctx context.Context) error {
	cutoff := s.now().Add(-s.artifactTTL)
	finished, err := s.jobsRepo.ListFinishedBefore(ctx, cutoff, 100)
	if err != nil {
		return fmt.Errorf("list finished jobs: %w", err)
	}
	for _, job := range finished {
		if job.FilePath == "" {
			continue
		}
		if err := s.store.Delete(job.FilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("failed to delete report artifact", zap.String("job_id", job.ID), zap.Error(err))
			continue
		}
		empty := ""
		s.updateJob(ctx, job.ID, repository.UpdateReportJobParams{FilePath: &empty})
	}
	return nil
}

func (s *ReportService) markFailed(ctx context.Context, jobID, message string) {
	finishedAt := s.now()
	s.updateJob(ctx, jobID, repository.UpdateReportJobParams{
		Status:       statusPtr(models.ReportStatusFailed),
		ErrorMessage: &message,
		FinishedAt:   &finishedAt,
	})
	if s.metrics != nil {
		s.metrics.RecordReportJob(string(models.ReportStatusFailed))
	}
}

func (s *ReportService) updateJob(ctx context.Context, jobID string, params repository.UpdateReportJobParams) {
	if err := s.jobsRepo.Update(ctx, jobID, params); err != nil {
		s.logger.Warn("failed to update report job", zap.String("job_id", jobID), zap.Error(err))
	}
}

func statusPtr(s models.ReportStatus) *models.ReportStatus { return &s }

func intPointer(v int) *int { return &v }
