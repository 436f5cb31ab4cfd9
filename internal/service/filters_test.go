package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodtrackhq/prodtrack-api/internal/models"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func sampleAssignments() []models.Assignment {
	return []models.Assignment{
		{
			ID: 1, EmployeeID: 1, EmployeeName: "John Smith",
			Date: "2025-05-15", Shift: models.ShiftMorning, Size: "Large",
			MachineNo: "MC-101", Process: "Assembly", TargetQty: 150,
			AchievedQty: intPtr(145), RejectedQty: intPtr(2),
			ReasonForLess: strPtr("Material shortage"), TotalWorkHours: floatPtr(7.5),
			Completed: true,
		},
		{
			ID: 2, EmployeeID: 2, EmployeeName: "Jane Doe",
			Date: "2025-05-15", Shift: models.ShiftEvening, Size: "Medium",
			MachineNo: "MC-102", Process: "Packaging", TargetQty: 200,
			AchievedQty: intPtr(210), RejectedQty: intPtr(0), TotalWorkHours: floatPtr(8),
			Completed: true,
		},
		{
			ID: 3, EmployeeID: 1, EmployeeName: "John Smith",
			Date: "2025-05-16", Shift: models.ShiftMorning, Size: "Small",
			MachineNo: "MC-103", Process: "Fabrication", TargetQty: 100,
			Completed: false,
		},
	}
}

func TestFilterDashboardByDate(t *testing.T) {
	list := sampleAssignments()

	got := FilterDashboard(list, models.DashboardFilter{Date: "2025-05-15"})
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)

	got = FilterDashboard(list, models.DashboardFilter{Date: "2025-05-16"})
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)
}

func TestFilterDashboardIntersection(t *testing.T) {
	list := sampleAssignments()

	got := FilterDashboard(list, models.DashboardFilter{Date: "2025-05-15", Shift: "morning"})
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	got = FilterDashboard(list, models.DashboardFilter{Date: "2025-05-15", MachineNo: "MC-103"})
	assert.Empty(t, got)
}

func TestFilterDashboardEmployeeNameSubstring(t *testing.T) {
	got := FilterDashboard(sampleAssignments(), models.DashboardFilter{EmployeeName: "doe"})
	require.Len(t, got, 1)
	assert.Equal(t, "Jane Doe", got[0].EmployeeName)
}

func TestFilterDashboardNoFiltersReturnsAll(t *testing.T) {
	got := FilterDashboard(sampleAssignments(), models.DashboardFilter{})
	assert.Len(t, got, 3)
}

func TestSummarize(t *testing.T) {
	summary := Summarize(sampleAssignments())

	assert.Equal(t, 3, summary.TotalAssignments)
	assert.Equal(t, 2, summary.CompletedAssignments)
	assert.Equal(t, 67, summary.CompletionRate)
	assert.Equal(t, 450, summary.TotalTargetQty)
	assert.Equal(t, 355, summary.TotalAchievedQty)
	assert.Equal(t, 2, summary.TotalRejectedQty)
}

func TestSummarizeOneOfThreeCompleted(t *testing.T) {
	list := sampleAssignments()
	list[1].Completed = false

	summary := Summarize(list)
	assert.Equal(t, 33, summary.CompletionRate)
}

func TestSummarizeEmptySet(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, 0, summary.CompletionRate)
	assert.Equal(t, 0, summary.TotalTargetQty)
}

func TestFilterReportCompletedOnly(t *testing.T) {
	got := FilterReport(sampleAssignments(), models.ReportFilter{})
	require.Len(t, got, 2)
	assert.True(t, got[0].Completed)
	assert.True(t, got[1].Completed)
}

func TestFilterReportInclusiveDateRange(t *testing.T) {
	list := sampleAssignments()
	list[2].Completed = true

	got := FilterReport(list, models.ReportFilter{StartDate: "2025-05-15", EndDate: "2025-05-15"})
	require.Len(t, got, 2)

	got = FilterReport(list, models.ReportFilter{StartDate: "2025-05-16"})
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)
}

func TestFilterReportByEmployeeAndMachine(t *testing.T) {
	employeeID := int64(1)
	got := FilterReport(sampleAssignments(), models.ReportFilter{EmployeeID: &employeeID})
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	got = FilterReport(sampleAssignments(), models.ReportFilter{MachineNo: "MC-102"})
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestSplitByStatus(t *testing.T) {
	pending, completed := SplitByStatus(sampleAssignments())
	require.Len(t, pending, 1)
	require.Len(t, completed, 2)
	assert.Equal(t, int64(3), pending[0].ID)
}

func TestPendingTodayFlagsIncompleteOnly(t *testing.T) {
	roster := []models.Employee{
		{ID: 1, Name: "John Smith"},
		{ID: 2, Name: "Jane Doe"},
		{ID: 3, Name: "Bob Johnson"},
	}
	list := sampleAssignments()

	// Employee 1 has an incomplete assignment dated 2025-05-16, employee 2
	// completed theirs, employee 3 has nothing dated today at all.
	got := PendingToday(roster, list, "2025-05-16")
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].EmployeeID)

	got = PendingToday(roster, list, "2025-05-15")
	assert.Empty(t, got)
}
