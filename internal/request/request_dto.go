package request

import "time"

type UpdateStatusRequest struct {
	Status   string  `json:"status" binding:"required,oneof=Pending Approved Rejected Cancelled"`
	Comments *string `json:"comments"`
}

type LeaveRequestResponse struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	LeaveType string  `json:"leave_type"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Reason    string  `json:"reason"`
	Status    string  `json:"status"`
	Comments  *string `json:"comments,omitempty"`
	CreatedAt string  `json:"created_at"`
}

func mapToResponse(r LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		LeaveType: r.LeaveType,
		StartDate: r.StartDate.Format("2006-01-02"),
		EndDate:   r.EndDate.Format("2006-01-02"),
		Reason:    r.Reason,
		Status:    r.Status,
		Comments:  r.Comments,
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func mapToListResponse(reqs []LeaveRequest) []LeaveRequestResponse {
	resp := make([]LeaveRequestResponse, len(reqs))
	for i, r := range reqs {
		resp[i] = mapToResponse(r)
	}
	return resp
}
