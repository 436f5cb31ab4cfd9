package models

import "time"

// Shift enumerates the production shifts.
type Shift string

const (
	ShiftMorning Shift = "Morning"
	ShiftEvening Shift = "Evening"
	ShiftNight   Shift = "Night"
)

// Option catalogs used to populate selection inputs. Fixed enumerations, not
// modifiable at runtime.
var (
	MachineOptions = []string{"MC-101", "MC-102", "MC-103", "MC-104", "MC-105"}
	ProcessOptions = []string{"Assembly", "Packaging", "Fabrication", "Testing", "Painting"}
	SizeOptions    = []string{"Small", "Medium", "Large", "Extra Large"}
)

// Assignment is one unit of production work, tracked from creation through
// completion. Outcome fields stay nil until the owning employee reports.
//
// Dates are calendar dates in ISO form (YYYY-MM-DD); no time-of-day component
// participates in filtering.
type Assignment struct {
	ID             int64     `db:"id" json:"id"`
	EmployeeID     int64     `db:"employee_id" json:"employee_id"`
	EmployeeName   string    `db:"employee_name" json:"employee_name"`
	Date           string    `db:"work_date" json:"date"`
	Shift          Shift     `db:"shift" json:"shift"`
	Size           string    `db:"size" json:"size"`
	MachineNo      string    `db:"machine_no" json:"machine_no"`
	Process        string    `db:"process" json:"process"`
	TargetQty      int       `db:"target_qty" json:"target_qty"`
	AchievedQty    *int      `db:"achieved_qty" json:"achieved_qty,omitempty"`
	RejectedQty    *int      `db:"rejected_qty" json:"rejected_qty,omitempty"`
	ReasonForLess  *string   `db:"reason_for_less" json:"reason_for_less,omitempty"`
	TotalWorkHours *float64  `db:"total_work_hours" json:"total_work_hours,omitempty"`
	Completed      bool      `db:"completed" json:"completed"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// DashboardFilter captures the optional admin dashboard filter axes. Empty
// fields impose no restriction; populated fields intersect (AND semantics).
type DashboardFilter struct {
	Date         string
	Shift        string
	MachineNo    string
	EmployeeName string
}

// ReportFilter captures the supervisor report filter axes. The report view is
// always restricted to completed records on top of these.
type ReportFilter struct {
	StartDate  string
	EndDate    string
	EmployeeID *int64
	Shift      string
	MachineNo  string
}
