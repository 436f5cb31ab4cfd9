package dto

// CreateAssignmentRequest is the supervisor payload for assigning work. The
// store supplies id, created_at, and the initial pending status.
type CreateAssignmentRequest struct {
	EmployeeID int64  `json:"employee_id" validate:"required,gt=0"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	Shift      string `json:"shift" validate:"required,oneof=Morning Evening Night"`
	Size       string `json:"size" validate:"required"`
	MachineNo  string `json:"machine_no" validate:"required"`
	Process    string `json:"process" validate:"required"`
	TargetQty  int    `json:"target_qty" validate:"required,gt=0"`
}

// CompleteTaskRequest is the employee outcome payload. Quantities are
// pointers so that zero survives the required check.
type CompleteTaskRequest struct {
	AchievedQty    *int     `json:"achieved_qty" validate:"required,min=0"`
	RejectedQty    *int     `json:"rejected_qty" validate:"required,min=0"`
	ReasonForLess  string   `json:"reason_for_less"`
	TotalWorkHours *float64 `json:"total_work_hours" validate:"required,gt=0"`
}
