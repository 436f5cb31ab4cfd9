package models

import "time"

// ReportFormat enumerates export artifact formats.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// ReportStatus enumerates report job lifecycle states.
type ReportStatus string

const (
	ReportStatusQueued     ReportStatus = "queued"
	ReportStatusProcessing ReportStatus = "processing"
	ReportStatusCompleted  ReportStatus = "completed"
	ReportStatusFailed     ReportStatus = "failed"
)

// ReportJob is an asynchronous report export request and its progress.
type ReportJob struct {
	ID           string       `db:"id" json:"id"`
	Format       ReportFormat `db:"format" json:"format"`
	StartDate    string       `db:"start_date" json:"start_date,omitempty"`
	EndDate      string       `db:"end_date" json:"end_date,omitempty"`
	EmployeeID   *int64       `db:"employee_id" json:"employee_id,omitempty"`
	Shift        string       `db:"shift" json:"shift,omitempty"`
	MachineNo    string       `db:"machine_no" json:"machine_no,omitempty"`
	Status       ReportStatus `db:"status" json:"status"`
	Progress     int          `db:"progress" json:"progress"`
	FilePath     string       `db:"file_path" json:"-"`
	ErrorMessage *string      `db:"error_message" json:"error_message,omitempty"`
	CreatedBy    string       `db:"created_by" json:"created_by"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	StartedAt    *time.Time   `db:"started_at" json:"started_at,omitempty"`
	FinishedAt   *time.Time   `db:"finished_at" json:"finished_at,omitempty"`
}

// Filter reconstructs the report filter embedded in the job parameters.
func (j *ReportJob) Filter() ReportFilter {
	return ReportFilter{
		StartDate:  j.StartDate,
		EndDate:    j.EndDate,
		EmployeeID: j.EmployeeID,
		Shift:      j.Shift,
		MachineNo:  j.MachineNo,
	}
}
