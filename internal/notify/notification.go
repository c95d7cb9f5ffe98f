package notify

// Document carries the request fields the renderer and mail bodies need,
// already formatted as display strings.
type Document struct {
	ID        uint
	Name      string
	Email     string
	LeaveType string
	StartDate string
	EndDate   string
	Reason    string
	Status    string
	CreatedAt string
}

// Notification is built and consumed within a single turn; it is never
// queued or retried beyond the dispatcher's single in-call retry.
type Notification struct {
	To           string
	Subject      string
	Body         string
	ArtifactPath string
}
