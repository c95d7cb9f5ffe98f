package chat

// Step is the explicit dialogue position. State is never inferred from
// which slots happen to be set.
type Step int

const (
	StepName Step = iota
	StepEmail
	StepType
	StepStart
	StepEnd
	StepReason
	StepConfirm
	StepEmailOptIn
	StepActionEmail
	StepActionID
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepName:
		return "collecting_name"
	case StepEmail:
		return "collecting_email"
	case StepType:
		return "collecting_type"
	case StepStart:
		return "collecting_start"
	case StepEnd:
		return "collecting_end"
	case StepReason:
		return "collecting_reason"
	case StepConfirm:
		return "awaiting_confirmation"
	case StepEmailOptIn:
		return "awaiting_email_optin"
	case StepActionEmail:
		return "action_awaiting_email"
	case StepActionID:
		return "action_awaiting_id"
	case StepDone:
		return "done"
	}
	return "unknown"
}

// Action tags the menu command a session is working through.
type Action string

const (
	ActionNone    Action = ""
	ActionConsult Action = "consult"
	ActionList    Action = "list"
	ActionCancel  Action = "cancel"
	ActionStats   Action = "stats"
)

// Slots are filled strictly in order name, email, type, start, end, reason.
// Dates are kept in their canonical YYYY-MM-DD form once validated.
type Slots struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

// Session is the ephemeral per-conversation record. It is cleared wholesale
// on reset, on selecting a menu command, and on finishing a lifecycle.
type Session struct {
	Step           Step   `json:"step"`
	Action         Action `json:"action"`
	Slots          Slots  `json:"slots"`
	SavedRequestID uint   `json:"saved_request_id"`
	Completed      bool   `json:"completed"`
}

func NewSession() *Session {
	return &Session{Step: StepName}
}

// AtMenu reports whether menu commands are honored this turn: only before a
// name has been captured or after a lifecycle completed, never mid-flow. An
// active action keeps the session mid-flow even though no name is set, so
// numeric ids like "3" are never mistaken for menu choices.
func (s *Session) AtMenu() bool {
	if s.Action != ActionNone {
		return false
	}
	return s.Slots.Name == "" || s.Completed
}
