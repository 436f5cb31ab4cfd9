package service

import (
	"math"
	"strings"

	"github.com/prodtrackhq/prodtrack-api/internal/dto"
	"github.com/prodtrackhq/prodtrack-api/internal/models"
)

// Pure derived-view logic over assignment collections. Every screen reads the
// store through one of these functions; none of them mutate their input, and
// all preserve insertion order.

// FilterDashboard returns the intersection of the optional dashboard
// predicates: exact date, case-insensitive shift, exact machine, and
// case-insensitive substring match on the employee name.
func FilterDashboard(assignments []models.Assignment, f models.DashboardFilter) []models.Assignment {
	out := make([]models.Assignment, 0, len(assignments))
	search := strings.ToLower(f.EmployeeName)
	for _, a := range assignments {
		if f.Date != "" && a.Date != f.Date {
			continue
		}
		if f.Shift != "" && !strings.EqualFold(string(a.Shift), f.Shift) {
			continue
		}
		if f.MachineNo != "" && a.MachineNo != f.MachineNo {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(a.EmployeeName), search) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Summarize computes completion statistics over a filtered set. Target
// quantity sums over the whole set; achieved and rejected sum over completed
// records only.
func Summarize(assignments []models.Assignment) dto.DashboardSummary {
	summary := dto.DashboardSummary{TotalAssignments: len(assignments)}
	for _, a := range assignments {
		summary.TotalTargetQty += a.TargetQty
		if !a.Completed {
			continue
		}
		summary.CompletedAssignments++
		if a.AchievedQty != nil {
			summary.TotalAchievedQty += *a.AchievedQty
		}
		if a.RejectedQty != nil {
			summary.TotalRejectedQty += *a.RejectedQty
		}
	}
	if summary.TotalAssignments > 0 {
		summary.CompletionRate = int(math.Round(float64(summary.CompletedAssignments) / float64(summary.TotalAssignments) * 100))
	}
	return summary
}

// FilterReport applies the report axes and the hard completed-only
// restriction. Date bounds are inclusive calendar-date comparisons; ISO dates
// order lexicographically so plain string comparison suffices.
func FilterReport(assignments []models.Assignment, f models.ReportFilter) []models.Assignment {
	out := make([]models.Assignment, 0, len(assignments))
	for _, a := range assignments {
		if !a.Completed {
			continue
		}
		if f.StartDate != "" && a.Date < f.StartDate {
			continue
		}
		if f.EndDate != "" && a.Date > f.EndDate {
			continue
		}
		if f.EmployeeID != nil && a.EmployeeID != *f.EmployeeID {
			continue
		}
		if f.Shift != "" && string(a.Shift) != f.Shift {
			continue
		}
		if f.MachineNo != "" && a.MachineNo != f.MachineNo {
			continue
		}
		out = append(out, a)
	}
	return out
}

// SplitByStatus partitions assignments into pending and completed. No other
// status exists.
func SplitByStatus(assignments []models.Assignment) (pending, completed []models.Assignment) {
	pending = make([]models.Assignment, 0, len(assignments))
	completed = make([]models.Assignment, 0, len(assignments))
	for _, a := range assignments {
		if a.Completed {
			completed = append(completed, a)
		} else {
			pending = append(pending, a)
		}
	}
	return pending, completed
}

// PendingToday flags roster employees who have at least one incomplete
// assignment dated today. An employee with zero assignments today is not
// flagged; only an existing, incomplete, dated-today record raises the alert.
func PendingToday(roster []models.Employee, assignments []models.Assignment, today string) []dto.PendingSubmission {
	out := make([]dto.PendingSubmission, 0, len(roster))
	for _, employee := range roster {
		for _, a := range assignments {
			if a.EmployeeID == employee.ID && a.Date == today && !a.Completed {
				out = append(out, dto.PendingSubmission{EmployeeID: employee.ID, EmployeeName: employee.Name})
				break
			}
		}
	}
	return out
}
