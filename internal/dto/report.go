package dto

import (
	"time"

	"github.com/prodtrackhq/prodtrack-api/internal/models"
)

// ReportRequest creates an asynchronous report export job.
type ReportRequest struct {
	Format     string `json:"format" validate:"required,oneof=csv pdf"`
	StartDate  string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	EmployeeID *int64 `json:"employee_id" validate:"omitempty,gt=0"`
	Shift      string `json:"shift" validate:"omitempty,oneof=Morning Evening Night"`
	MachineNo  string `json:"machine_no"`
}

// ReportJobResponse acknowledges job creation.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job state to polling clients. DownloadToken is
// set once the artifact is ready.
type ReportStatusResponse struct {
	ID            string              `json:"id"`
	Format        models.ReportFormat `json:"format"`
	Status        models.ReportStatus `json:"status"`
	Progress      int                 `json:"progress"`
	ErrorMessage  *string             `json:"error_message,omitempty"`
	DownloadToken string              `json:"download_token,omitempty"`
	ExpiresAt     *time.Time          `json:"expires_at,omitempty"`
}
