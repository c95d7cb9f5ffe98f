package request

import (
	"time"

	"go-leavebot/internal/notify"
)

const (
	StatusPending   = "Pending"
	StatusApproved  = "Approved"
	StatusRejected  = "Rejected"
	StatusCancelled = "Cancelled"
)

// AllowedStatus reports whether s belongs to the lifecycle set. Anything
// else is rejected at the boundary before any row is touched.
func AllowedStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// LeaveRequest rows are append-only except for Status and Comments; the
// submitted fields never change and rows are never deleted.
type LeaveRequest struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"type:varchar(120);not null"`
	Email     string    `gorm:"type:varchar(120);not null;index:idx_leave_requests_email"`
	LeaveType string    `gorm:"type:varchar(60);not null"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	Reason    string    `gorm:"type:text"`
	Status    string    `gorm:"type:varchar(20);not null;default:'Pending';index:idx_leave_requests_status"`
	Comments  *string   `gorm:"type:text"`
	CreatedAt time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// Document projects the row into the renderer/mail shape.
func (r *LeaveRequest) Document() notify.Document {
	return notify.Document{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		LeaveType: r.LeaveType,
		StartDate: r.StartDate.Format("2006-01-02"),
		EndDate:   r.EndDate.Format("2006-01-02"),
		Reason:    r.Reason,
		Status:    r.Status,
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
	}
}
