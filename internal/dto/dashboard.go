package dto

import "github.com/prodtrackhq/prodtrack-api/internal/models"

// DashboardSummary carries the completion statistics computed over the
// filtered assignment set.
type DashboardSummary struct {
	TotalAssignments     int `json:"total_assignments"`
	CompletedAssignments int `json:"completed_assignments"`
	CompletionRate       int `json:"completion_rate"`
	TotalTargetQty       int `json:"total_target_qty"`
	TotalAchievedQty     int `json:"total_achieved_qty"`
	TotalRejectedQty     int `json:"total_rejected_qty"`
}

// AdminDashboardResponse is the admin aggregate view: the filtered assignment
// set plus its statistics.
type AdminDashboardResponse struct {
	Summary     DashboardSummary    `json:"summary"`
	Assignments []models.Assignment `json:"assignments"`
}

// PendingSubmission flags one roster employee who has an incomplete
// assignment dated today.
type PendingSubmission struct {
	EmployeeID   int64  `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
}

// SupervisorDashboardResponse pairs the pending-submission alert list with
// recently created assignments.
type SupervisorDashboardResponse struct {
	PendingSubmissions []PendingSubmission `json:"pending_submissions"`
	Assignments        []models.Assignment `json:"assignments"`
}

// EmployeeDashboardResponse partitions the employee's assignments by status.
type EmployeeDashboardResponse struct {
	Pending   []models.Assignment `json:"pending"`
	Completed []models.Assignment `json:"completed"`
}
