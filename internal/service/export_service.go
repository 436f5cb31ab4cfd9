package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/prodtrackhq/prodtrack-api/internal/models"
	appErrors "github.com/prodtrackhq/prodtrack-api/pkg/errors"
	"github.com/prodtrackhq/prodtrack-api/pkg/export"
)

// Report column layout. The reason column is force-quoted to match the
// layout downstream spreadsheets were built against.
var reportHeaders = []string{
	"Employee Name",
	"Date",
	"Shift",
	"Machine No",
	"Process",
	"Target Quantity",
	"Achieved Quantity",
	"Rejected Quantity",
	"Reason for Less",
	"Total Work Hours",
}

var reportForceQuoted = []string{"Reason for Less"}

type exportAssignmentLister interface {
	List(ctx context.Context) ([]models.Assignment, error)
}

type exportAuditor interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// ExportService renders synchronous report downloads.
type ExportService struct {
	assignments exportAssignmentLister
	auditor     exportAuditor
	csv         *export.CSVExporter
	logger      *zap.Logger
	now         func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(assignments exportAssignmentLister, auditor exportAuditor, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		assignments: assignments,
		auditor:     auditor,
		csv:         export.NewCSVExporter(),
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ExportCSV renders the filtered completed records as a CSV download. The
// returned filename carries the export date.
func (s *ExportService) ExportCSV(ctx context.Context, actorID string, filter models.ReportFilter) (filename string, data []byte, err error) {
	all, err := s.assignments.List(ctx)
	if err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}

	dataset := ReportDataset(FilterReport(all, filter))
	data, err = s.csv.Render(dataset)
	if err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}

	if s.auditor != nil {
		log := &models.AuditLog{
			Action:    models.AuditActionReportExport,
			Resource:  "report",
			NewValues: []byte(fmt.Sprintf(`{"format":"csv","rows":%d}`, len(dataset.Rows))),
		}
		if actorID != "" {
			log.UserID = &actorID
		}
		if auditErr := s.auditor.CreateAuditLog(ctx, log); auditErr != nil {
			s.logger.Warn("failed to record export audit log", zap.Error(auditErr))
		}
	}

	filename = fmt.Sprintf("production-report-%s.csv", s.now().Format("2006-01-02"))
	return filename, data, nil
}

// ReportDataset projects assignments into the report column layout. Outcome
// columns default to zero and empty for records that have not been reported.
func ReportDataset(assignments []models.Assignment) export.Dataset {
	rows := make([]map[string]string, 0, len(assignments))
	for _, a := range assignments {
		rows = append(rows, map[string]string{
			"Employee Name":     a.EmployeeName,
			"Date":              displayDate(a.Date),
			"Shift":             string(a.Shift),
			"Machine No":        a.MachineNo,
			"Process":           a.Process,
			"Target Quantity":   strconv.Itoa(a.TargetQty),
			"Achieved Quantity": strconv.Itoa(intOrZero(a.AchievedQty)),
			"Rejected Quantity": strconv.Itoa(intOrZero(a.RejectedQty)),
			"Reason for Less":   strOrEmpty(a.ReasonForLess),
			"Total Work Hours":  formatHours(a.TotalWorkHours),
		})
	}
	return export.Dataset{Headers: reportHeaders, Rows: rows, ForceQuoted: reportForceQuoted}
}

// displayDate converts an ISO date to the M/D/YYYY form used in the report,
// matching locale-formatted dates in the historical exports.
func displayDate(iso string) string {
	ts, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return fmt.Sprintf("%d/%d/%d", ts.Month(), ts.Day(), ts.Year())
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func strOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func formatHours(v *float64) string {
	if v == nil {
		return "0"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
