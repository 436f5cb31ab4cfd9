package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodtrackhq/prodtrack-api/internal/models"
)

type stubExportLister struct {
	assignments []models.Assignment
}

func (s *stubExportLister) List(ctx context.Context) ([]models.Assignment, error) {
	return append([]models.Assignment(nil), s.assignments...), nil
}

type recordingAuditor struct {
	logs []*models.AuditLog
}

func (r *recordingAuditor) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func TestExportCSVLayout(t *testing.T) {
	auditor := &recordingAuditor{}
	svc := NewExportService(&stubExportLister{assignments: sampleAssignments()}, auditor, nil)
	svc.now = fixedClock("2025-05-20")

	filename, data, err := svc.ExportCSV(context.Background(), "u-sup", models.ReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, "production-report-2025-05-20.csv", filename)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Employee Name,Date,Shift,Machine No,Process,Target Quantity,Achieved Quantity,Rejected Quantity,Reason for Less,Total Work Hours", lines[0])
	assert.Equal(t, `John Smith,5/15/2025,Morning,MC-101,Assembly,150,145,2,"Material shortage",7.5`, lines[1])
	assert.Equal(t, `Jane Doe,5/15/2025,Evening,MC-102,Packaging,200,210,0,"",8`, lines[2])

	require.Len(t, auditor.logs, 1)
	assert.Equal(t, models.AuditActionReportExport, auditor.logs[0].Action)
}

func TestExportCSVHonorsFilter(t *testing.T) {
	svc := NewExportService(&stubExportLister{assignments: sampleAssignments()}, nil, nil)

	_, data, err := svc.ExportCSV(context.Background(), "", models.ReportFilter{EmployeeID: int64Ptr(2)})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Jane Doe")
}

func TestReportDatasetDefaultsForPending(t *testing.T) {
	dataset := ReportDataset([]models.Assignment{{
		EmployeeName: "Bob Johnson", Date: "2025-05-16", Shift: models.ShiftNight,
		MachineNo: "MC-104", Process: "Testing", TargetQty: 80,
	}})
	require.Len(t, dataset.Rows, 1)
	row := dataset.Rows[0]
	assert.Equal(t, "0", row["Achieved Quantity"])
	assert.Equal(t, "0", row["Rejected Quantity"])
	assert.Equal(t, "", row["Reason for Less"])
	assert.Equal(t, "0", row["Total Work Hours"])
}
