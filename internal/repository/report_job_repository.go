package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/prodtrackhq/prodtrack-api/internal/models"
)

const reportJobColumns = "id, format, start_date, end_date, employee_id, shift, machine_no, status, progress, file_path, error_message, created_by, created_at, started_at, finished_at"

// ReportJobRepository persists asynchronous report export jobs.
type ReportJobRepository struct {
	db *sqlx.DB
}

// NewReportJobRepository constructs a ReportJobRepository.
func NewReportJobRepository(db *sqlx.DB) *ReportJobRepository {
	return &ReportJobRepository{db: db}
}

// Create inserts a queued job.
func (r *ReportJobRepository) Create(ctx context.Context, job *models.ReportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	if job.Status == "" {
		job.Status = models.ReportStatusQueued
	}
	const query = `INSERT INTO report_jobs (id, format, start_date, end_date, employee_id, shift, machine_no, status, progress, file_path, created_by, created_at)
        VALUES (:id, :format, :start_date, :end_date, :employee_id, :shift, :machine_no, :status, :progress, :file_path, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("create report job: %w", err)
	}
	return nil
}

// GetByID fetches one job.
func (r *ReportJobRepository) GetByID(ctx context.Context, id string) (*models.ReportJob, error) {
	query := fmt.Sprintf("SELECT %s FROM report_jobs WHERE id = $1 LIMIT 1", reportJobColumns)
	var job models.ReportJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find report job: %w", err)
	}
	return &job, nil
}

// UpdateReportJobParams carries the mutable job fields; nil members are left
// untouched.
type UpdateReportJobParams struct {
	Status       *models.ReportStatus
	Progress     *int
	FilePath     *string
	ErrorMessage *string
	StartedAt    *time.Time
	FinishedAt   *time.Time
}

// Update applies the non-nil params to the job row.
func (r *ReportJobRepository) Update(ctx context.Context, id string, params UpdateReportJobParams) error {
	sets := make([]string, 0, 6)
	args := []interface{}{id}
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if params.Status != nil {
		add("status", *params.Status)
	}
	if params.Progress != nil {
		add("progress", *params.Progress)
	}
	if params.FilePath != nil {
		add("file_path", *params.FilePath)
	}
	if params.ErrorMessage != nil {
		add("error_message", *params.ErrorMessage)
	}
	if params.StartedAt != nil {
		add("started_at", *params.StartedAt)
	}
	if params.FinishedAt != nil {
		add("finished_at", *params.FinishedAt)
	}
	if len(sets) == 0 {
		return nil
	}
	query := "UPDATE report_jobs SET "
	for i, set := range sets {
		if i > 0 {
			query += ", "
		}
		query += set
	}
	query += " WHERE id = $1"
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update report job: %w", err)
	}
	return nil
}

// ListFinishedBefore returns finished jobs older than the cutoff, for artifact
// cleanup.
func (r *ReportJobRepository) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error) {
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf("SELECT %s FROM report_jobs WHERE finished_at IS NOT NULL AND finished_at < $1 ORDER BY finished_at ASC LIMIT %d", reportJobColumns, limit)
	var jobs []models.ReportJob
	if err := r.db.SelectContext(ctx, &jobs, query, cutoff); err != nil {
		return nil, fmt.Errorf("list finished report jobs: %w", err)
	}
	return jobs, nil
}
