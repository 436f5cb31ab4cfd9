package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/prodtrackhq/prodtrack-api/internal/models"
	"github.com/prodtrackhq/prodtrack-api/internal/repository"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
        id UUID PRIMARY KEY,
        username TEXT NOT NULL UNIQUE,
        password_hash TEXT NOT NULL,
        full_name TEXT NOT NULL,
        role TEXT NOT NULL,
        employee_id BIGINT UNIQUE,
        active BOOLEAN NOT NULL DEFAULT TRUE,
        last_login TIMESTAMPTZ,
        created_at TIMESTAMPTZ NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
        id UUID PRIMARY KEY,
        user_id UUID NOT NULL REFERENCES users(id),
        token TEXT NOT NULL UNIQUE,
        expires_at TIMESTAMPTZ NOT NULL,
        created_at TIMESTAMPTZ NOT NULL,
        revoked BOOLEAN NOT NULL DEFAULT FALSE,
        revoked_at TIMESTAMPTZ,
        ip_address TEXT NOT NULL DEFAULT '',
        user_agent TEXT NOT NULL DEFAULT ''
    )`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
        id UUID PRIMARY KEY,
        user_id UUID,
        action TEXT NOT NULL,
        resource TEXT NOT NULL,
        resource_id TEXT,
        new_values JSONB,
        ip_address TEXT NOT NULL DEFAULT '',
        user_agent TEXT NOT NULL DEFAULT '',
        created_at TIMESTAMPTZ NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS assignments (
        id BIGSERIAL PRIMARY KEY,
        employee_id BIGINT NOT NULL,
        employee_name TEXT NOT NULL,
        work_date DATE NOT NULL,
        shift TEXT NOT NULL,
        size TEXT NOT NULL,
        machine_no TEXT NOT NULL,
        process TEXT NOT NULL,
        target_qty INTEGER NOT NULL,
        achieved_qty INTEGER,
        rejected_qty INTEGER,
        reason_for_less TEXT,
        total_work_hours DOUBLE PRECISION,
        completed BOOLEAN NOT NULL DEFAULT FALSE,
        created_at TIMESTAMPTZ NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_employee ON assignments (employee_id)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_date ON assignments (work_date)`,
	`CREATE TABLE IF NOT EXISTS report_jobs (
        id UUID PRIMARY KEY,
        format TEXT NOT NULL,
        start_date TEXT NOT NULL DEFAULT '',
        end_date TEXT NOT NULL DEFAULT '',
        employee_id BIGINT,
        shift TEXT NOT NULL DEFAULT '',
        machine_no TEXT NOT NULL DEFAULT '',
        status TEXT NOT NULL,
        progress INTEGER NOT NULL DEFAULT 0,
        file_path TEXT NOT NULL DEFAULT '',
        error_message TEXT,
        created_by TEXT NOT NULL DEFAULT '',
        created_at TIMESTAMPTZ NOT NULL,
        started_at TIMESTAMPTZ,
        finished_at TIMESTAMPTZ
    )`,
}

type demoUser struct {
	username   string
	password   string
	fullName   string
	role       models.Role
	employeeID *int64
}

func employeeRef(id int64) *int64 { return &id }

// demoUsers is the demo credential table. Employees 3 and 4 have accounts
// but no seeded assignments.
var demoUsers = []demoUser{
	{username: "admin", password: "admin123", fullName: "Admin User", role: models.RoleAdmin},
	{username: "supervisor", password: "super123", fullName: "Supervisor User", role: models.RoleSupervisor},
	{username: "employee1", password: "emp123", fullName: "John Smith", role: models.RoleEmployee, employeeID: employeeRef(1)},
	{username: "employee2", password: "emp123", fullName: "Jane Doe", role: models.RoleEmployee, employeeID: employeeRef(2)},
	{username: "employee3", password: "emp123", fullName: "Bob Johnson", role: models.RoleEmployee, employeeID: employeeRef(3)},
	{username: "employee4", password: "emp123", fullName: "Alice Williams", role: models.RoleEmployee, employeeID: employeeRef(4)},
}

// Schema creates all tables if they do not exist.
func Schema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Demo installs the demo credential table and sample assignments on an empty
// database. It is a no-op when users already exist.
func Demo(ctx context.Context, db *sqlx.DB, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	users := repository.NewUserRepository(db)

	count, err := users.Count(ctx)
	if err != nil {
		return fmt.Errorf("check existing users: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, du := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(du.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash demo password: %w", err)
		}
		user := &models.User{
			Username:     du.username,
			PasswordHash: string(hash),
			FullName:     du.fullName,
			Role:         du.role,
			EmployeeID:   du.employeeID,
			Active:       true,
		}
		if err := users.Create(ctx, user); err != nil {
			return fmt.Errorf("seed user %s: %w", du.username, err)
		}
	}

	assignments := repository.NewAssignmentRepository(db)
	for _, a := range demoAssignments() {
		record := a
		if err := assignments.Create(ctx, &record); err != nil {
			return fmt.Errorf("seed assignment for %s: %w", a.EmployeeName, err)
		}
		if a.Completed {
			reason := ""
			if a.ReasonForLess != nil {
				reason = *a.ReasonForLess
			}
			if err := assignments.Complete(ctx, record.ID, *a.AchievedQty, *a.RejectedQty, reason, *a.TotalWorkHours); err != nil {
				return fmt.Errorf("seed completion for %s: %w", a.EmployeeName, err)
			}
		}
	}

	logger.Info("demo data seeded",
		zap.Int("users", len(demoUsers)),
		zap.Int("assignments", len(demoAssignments())))
	return nil
}

func demoAssignments() []models.Assignment {
	now := time.Now().UTC()
	achieved1, rejected1 := 145, 2
	reason1 := "Material shortage"
	hours1 := 7.5
	achieved2, rejected2 := 210, 0
	hours2 := 8.0

	return []models.Assignment{
		{
			EmployeeID: 1, EmployeeName: "John Smith",
			Date: "2025-01-15", Shift: models.ShiftMorning, Size: "Large",
			MachineNo: "MC-101", Process: "Assembly", TargetQty: 150,
			AchievedQty: &achieved1, RejectedQty: &rejected1,
			ReasonForLess: &reason1, TotalWorkHours: &hours1,
			Completed: true, CreatedAt: now,
		},
		{
			EmployeeID: 2, EmployeeName: "Jane Doe",
			Date: "2025-01-15", Shift: models.ShiftEvening, Size: "Medium",
			MachineNo: "MC-102", Process: "Packaging", TargetQty: 200,
			AchievedQty: &achieved2, RejectedQty: &rejected2,
			TotalWorkHours: &hours2,
			Completed:      true, CreatedAt: now,
		},
		{
			EmployeeID: 1, EmployeeName: "John Smith",
			Date: "2025-01-16", Shift: models.ShiftMorning, Size: "Small",
			MachineNo: "MC-103", Process: "Fabrication", TargetQty: 100,
			Completed: false, CreatedAt: now,
		},
	}
}
