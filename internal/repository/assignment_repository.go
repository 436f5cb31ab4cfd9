package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/prodtrackhq/prodtrack-api/internal/models"
)

const assignmentColumns = "id, employee_id, employee_name, work_date, shift, size, machine_no, process, target_qty, achieved_qty, rejected_qty, reason_for_less, total_work_hours, completed, created_at"

// AssignmentRepository owns persistence for production assignments. The id
// column is a serial sequence, so insertion order and id order coincide.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create inserts a pending assignment and fills in the generated id and
// creation timestamp.
func (r *AssignmentRepository) Create(ctx context.Context, a *models.Assignment) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO assignments (employee_id, employee_name, work_date, shift, size, machine_no, process, target_qty, completed, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, $9) RETURNING id`
	if err := r.db.GetContext(ctx, &a.ID, query,
		a.EmployeeID, a.EmployeeName, a.Date, a.Shift, a.Size, a.MachineNo, a.Process, a.TargetQty, a.CreatedAt); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// FindByID fetches one assignment.
func (r *AssignmentRepository) FindByID(ctx context.Context, id int64) (*models.Assignment, error) {
	query := fmt.Sprintf("SELECT %s FROM assignments WHERE id = $1 LIMIT 1", assignmentColumns)
	var a models.Assignment
	if err := r.db.GetContext(ctx, &a, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}
	a.Date = isoDate(a.Date)
	return &a, nil
}

// List returns the full collection in insertion order.
func (r *AssignmentRepository) List(ctx context.Context) ([]models.Assignment, error) {
	query := fmt.Sprintf("SELECT %s FROM assignments ORDER BY id ASC", assignmentColumns)
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return normalizeDates(assignments), nil
}

// ListForEmployee returns one employee's assignments, insertion order
// preserved.
func (r *AssignmentRepository) ListForEmployee(ctx context.Context, employeeID int64) ([]models.Assignment, error) {
	query := fmt.Sprintf("SELECT %s FROM assignments WHERE employee_id = $1 ORDER BY id ASC", assignmentColumns)
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, employeeID); err != nil {
		return nil, fmt.Errorf("list assignments for employee: %w", err)
	}
	return normalizeDates(assignments), nil
}

// ListByDate returns assignments dated on the given calendar date.
func (r *AssignmentRepository) ListByDate(ctx context.Context, date string) ([]models.Assignment, error) {
	query := fmt.Sprintf("SELECT %s FROM assignments WHERE work_date = $1 ORDER BY id ASC", assignmentColumns)
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, date); err != nil {
		return nil, fmt.Errorf("list assignments by date: %w", err)
	}
	return normalizeDates(assignments), nil
}

// Complete attaches the outcome fields and flips the completed flag. Only the
// outcome columns are touched, so descriptive fields are never disturbed.
// Returns sql.ErrNoRows when no pending assignment matches the id.
func (r *AssignmentRepository) Complete(ctx context.Context, id int64, achievedQty, rejectedQty int, reasonForLess string, totalWorkHours float64) error {
	const query = `UPDATE assignments
        SET achieved_qty = $2, rejected_qty = $3, reason_for_less = $4, total_work_hours = $5, completed = TRUE
        WHERE id = $1 AND completed = FALSE`
	res, err := r.db.ExecContext(ctx, query, id, achievedQty, rejectedQty, reasonForLess, totalWorkHours)
	if err != nil {
		return fmt.Errorf("complete assignment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete assignment rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Count returns the number of assignment rows, used by the first-run seeder.
func (r *AssignmentRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM assignments"); err != nil {
		return 0, fmt.Errorf("count assignments: %w", err)
	}
	return total, nil
}

// isoDate reduces a scanned work_date to calendar form. The column is a
// Postgres DATE, which the driver yields as time.Time; database/sql renders
// that into a string destination as RFC3339, so the timestamp tail has to be
// stripped before any calendar-date comparison.
func isoDate(raw string) string {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.Format("2006-01-02")
	}
	return raw
}

func normalizeDates(assignments []models.Assignment) []models.Assignment {
	for i := range assignments {
		assignments[i].Date = isoDate(assignments[i].Date)
	}
	return assignments
}
