package chat

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go-leavebot/internal/events"
	"go-leavebot/internal/notify"
	"go-leavebot/internal/request"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// Service turns one inbound message into one reply, advancing the session
// exactly one transition. Validation failures keep the session unchanged;
// only infrastructure faults surface as errors.
type Service interface {
	HandleMessage(ctx context.Context, sessionID, message string) (string, error)
}

type service struct {
	sessions   Store
	requests   request.Repository
	dispatcher notify.Dispatcher
	publisher  request.EventPublisher
	logger     *zap.Logger
}

func NewService(
	sessions Store,
	requests request.Repository,
	dispatcher notify.Dispatcher,
	publisher request.EventPublisher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("chat.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("chat.service")
	}
	return &service{
		sessions:   sessions,
		requests:   requests,
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     l,
	}
}

var resetTokens = map[string]bool{
	"reiniciar": true,
	"reset":     true,
	"empezar":   true,
	"hola":      true,
	"inicio":    true,
	"menu":      true,
}

var menuNewTokens = map[string]bool{
	"1":               true,
	"nueva":           true,
	"nueva solicitud": true,
	"otro permiso":    true,
}

var menuExitTokens = map[string]bool{
	"4":        true,
	"salir":    true,
	"terminar": true,
	"adios":    true,
	"chao":     true,
}

var menuActionTokens = map[string]Action{
	"2":                   ActionConsult,
	"consultar":           ActionConsult,
	"ver solicitud":       ActionConsult,
	"estado":              ActionConsult,
	"consultar solicitud": ActionConsult,
	"3":                   ActionList,
	"mis solicitudes":     ActionList,
	"todas":               ActionList,
	"listar":              ActionList,
	"ver todas":           ActionList,
	"cancelar":            ActionCancel,
	"cancelar solicitud":  ActionCancel,
	"anular":              ActionCancel,
	"estadisticas":        ActionStats,
	"estadísticas":        ActionStats,
	"stats":               ActionStats,
	"mis estadisticas":    ActionStats,
}

var affirmativeTokens = map[string]bool{
	"si":  true,
	"sí":  true,
	"s":   true,
	"yes": true,
}

func (s *service) HandleMessage(ctx context.Context, sessionID, message string) (string, error) {
	text := strings.TrimSpace(message)
	lower := strings.ToLower(text)

	// Reset tokens bypass the state machine entirely.
	if resetTokens[lower] {
		if err := s.sessions.Clear(ctx, sessionID); err != nil {
			return "", err
		}
		return replyWelcome, nil
	}

	sess, err := s.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		return "", err
	}

	s.logger.Debug("turn received",
		zap.String("session_id", sessionID),
		zap.String("step", sess.Step.String()),
		zap.String("action", string(sess.Action)),
	)

	if sess.AtMenu() {
		if reply, handled, err := s.handleMenuCommand(ctx, sessionID, lower); handled || err != nil {
			return reply, err
		}
	}

	if sess.Action != ActionNone {
		return s.continueAction(ctx, sessionID, sess, lower)
	}

	if sess.Completed {
		return replyFallback, nil
	}

	return s.collectSlot(ctx, sessionID, sess, text, lower)
}

// handleMenuCommand resolves menu tokens. Every recognized token starts from
// a wholesale-cleared session.
func (s *service) handleMenuCommand(ctx context.Context, sessionID, lower string) (string, bool, error) {
	switch {
	case menuNewTokens[lower]:
		if err := s.sessions.Replace(ctx, sessionID, NewSession()); err != nil {
			return "", true, err
		}
		return replyAskName, true, nil

	case menuExitTokens[lower]:
		if err := s.sessions.Clear(ctx, sessionID); err != nil {
			return "", true, err
		}
		return replyFarewell, true, nil
	}

	if action, ok := menuActionTokens[lower]; ok {
		next := NewSession()
		next.Action = action
		next.Step = StepActionEmail
		if err := s.sessions.Replace(ctx, sessionID, next); err != nil {
			return "", true, err
		}
		return actionEmailPrompts[action], true, nil
	}

	return "", false, nil
}

func (s *service) continueAction(ctx context.Context, sessionID string, sess *Session, lower string) (string, error) {
	switch sess.Step {
	case StepActionEmail:
		return s.captureActionEmail(ctx, sessionID, sess, lower)
	case StepActionID:
		return s.captureActionID(ctx, sessionID, sess, lower)
	}
	return replyFallback, nil
}

func (s *service) captureActionEmail(ctx context.Context, sessionID string, sess *Session, lower string) (string, error) {
	if !strings.Contains(lower, "@") {
		return replyInvalidEmail, nil
	}
	sess.Slots.Email = lower

	switch sess.Action {
	case ActionConsult:
		sess.Step = StepActionID
		if err := s.sessions.Replace(ctx, sessionID, sess); err != nil {
			return "", err
		}
		return replyAskRequestID, nil

	case ActionList:
		reqs, err := s.requests.FindByEmail(ctx, sess.Slots.Email)
		if err != nil {
			return "", err
		}
		if err := s.complete(ctx, sessionID); err != nil {
			return "", err
		}
		return listReply(sess.Slots.Email, reqs), nil

	case ActionStats:
		counts, err := s.requests.CountByStatus(ctx, sess.Slots.Email)
		if err != nil {
			return "", err
		}
		byStatus := make(map[string]int64, len(counts))
		for _, c := range counts {
			byStatus[c.Status] = c.Count
		}
		if err := s.complete(ctx, sessionID); err != nil {
			return "", err
		}
		return statsReply(sess.Slots.Email, byStatus), nil

	case ActionCancel:
		pending, err := s.requests.FindPendingByEmail(ctx, sess.Slots.Email)
		if err != nil {
			return "", err
		}
		if len(pending) == 0 {
			if err := s.complete(ctx, sessionID); err != nil {
				return "", err
			}
			return noPendingReply(sess.Slots.Email), nil
		}
		sess.Step = StepActionID
		if err := s.sessions.Replace(ctx, sessionID, sess); err != nil {
			return "", err
		}
		return cancelListReply(pending), nil
	}

	return replyFallback, nil
}

func (s *service) captureActionID(ctx context.Context, sessionID string, sess *Session, lower string) (string, error) {
	id, err := strconv.ParseUint(lower, 10, 64)
	if err != nil {
		return replyInvalidRequestID, nil
	}

	switch sess.Action {
	case ActionConsult:
		r, err := s.requests.FindByID(ctx, uint(id))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				recent, rerr := s.requests.FindRecent(ctx, 5)
				if rerr != nil {
					return "", rerr
				}
				if len(recent) == 0 {
					// Nothing to consult at all; retrying cannot succeed.
					if cerr := s.complete(ctx, sessionID); cerr != nil {
						return "", cerr
					}
				}
				return notFoundReply(id, recent), nil
			}
			return "", err
		}
		if err := s.complete(ctx, sessionID); err != nil {
			return "", err
		}
		return detailReply(*r), nil

	case ActionCancel:
		return s.cancelRequest(ctx, sessionID, sess, id)
	}

	return replyFallback, nil
}

func (s *service) cancelRequest(ctx context.Context, sessionID string, sess *Session, id uint64) (string, error) {
	r, err := s.requests.FindByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cancelNotFoundReply(id), nil
		}
		return "", err
	}
	if r.Email != sess.Slots.Email || r.Status != request.StatusPending {
		return cancelNotFoundReply(id), nil
	}

	updated, err := s.requests.UpdateStatus(ctx, uint(id), request.StatusCancelled, nil)
	if err != nil {
		return "", err
	}
	if !updated {
		// The row changed under us between lookup and update.
		return cancelNotFoundReply(id), nil
	}

	s.logger.Info("request cancelled via dialogue",
		zap.String("session_id", sessionID),
		zap.Uint64("request_id", id),
	)

	s.dispatcher.Dispatch(ctx, notify.Notification{
		To:      r.Email,
		Subject: fmt.Sprintf("Solicitud de permiso #%d cancelada", r.ID),
		Body: fmt.Sprintf(
			"Hola %s,\n\nTu solicitud de permiso #%d (%s, %s a %s) ha sido cancelada.",
			r.Name, r.ID, r.LeaveType,
			r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"),
		),
	})

	s.publishEvent(ctx, events.LeaveRequestEvent{
		EventType: events.EventTypeCancelled,
		RequestID: r.ID,
		Email:     r.Email,
		Status:    request.StatusCancelled,
	})

	if err := s.complete(ctx, sessionID); err != nil {
		return "", err
	}
	return cancelledReply(id), nil
}

func (s *service) collectSlot(ctx context.Context, sessionID string, sess *Session, text, lower string) (string, error) {
	switch sess.Step {
	case StepName:
		// An email-looking first message is captured as the email and the
		// name is asked for again.
		if strings.Contains(lower, "@") && !strings.Contains(lower, " ") {
			sess.Slots.Email = lower
			if err := s.sessions.Replace(ctx, sessionID, sess); err != nil {
				return "", err
			}
			return replyAskNameAfterEmail, nil
		}
		sess.Slots.Name = text
		if sess.Slots.Email != "" {
			sess.Step = StepType
			if err := s.sessions.Replace(ctx, sessionID, sess); err != nil {
				return "", err
			}
			return replyAskType, nil
		}
		sess.Step = StepEmail
		if err := s.sessions.Replace(ctx, sessionID, sess); err != nil {
			return "", err
		}
		return replyAskEmail, nil

	case StepEmail:
		if !validEmail(lower) {
			return replyInvalidEmail, nil
		}
		sess.Slots.Email = lower
		sess.Step = StepType
		if err := s.sessions.Replace(ctx, sessionID, sess); err != nil {
			return "", err
		}
		return replyAskType, nil

	case StepType:
		sess.Slots.LeaveType = cases.Title(language.Spanish).String(lower)
		sess.Step = StepStart
		if err := s.sessions.Replace(ctx, sessionID, sess); err != nil {
			return "", err
		}
		return replyAskStart, nil

	case StepStart:
		d, ok := parseDate(text)
		if !ok {
			return replyInvalidDate, nil
		}
		sess.Slots.StartDate = d.Format("2006-01-02")
		sess.Step = StepEnd
		if err := s.sessions.Replace(ctx, sessionID, sess); err != nil {
			return "", err
		}
		return replyAskEnd, nil

	case StepEnd:
		d, ok := parseDate(text)
		if !ok {
			return replyInvalidDate, nil
		}
		start, _ := time.Parse("2006-01-02", sess.Slots.StartDate)
		if d.Before(start) {
			return replyEndBeforeStart, nil
		}
		sess.Slots.EndDate = d.Format("2006-01-02")
		sess.Step = StepReason
		if err := s.sessions.Replace(ctx, sessionID, sess); err != nil {
			return "", err
		}
		return replyAskReason, nil

	case StepReason:
		sess.Slots.Reason = text
		sess.Step = StepConfirm
		if err := s.sessions.Replace(ctx, sessionID, sess); err != nil {
			return "", err
		}
		return summaryReply(sess.Slots), nil

	case StepConfirm:
		return s.confirmSubmission(ctx, sessionID, sess, lower)

	case StepEmailOptIn:
		return s.confirmEmailOptIn(ctx, sessionID, sess, lower)
	}

	return replyFallback, nil
}

// confirmSubmission is gate A: an affirmative persists the request, anything
// else abandons the whole session.
func (s *service) confirmSubmission(ctx context.Context, sessionID string, sess *Session, lower string) (string, error) {
	if !affirmativeTokens[lower] {
		if err := s.sessions.Clear(ctx, sessionID); err != nil {
			return "", err
		}
		return replySubmissionCancelled, nil
	}

	startDate, _ := time.Parse("2006-01-02", sess.Slots.StartDate)
	endDate, _ := time.Parse("2006-01-02", sess.Slots.EndDate)

	r := &request.LeaveRequest{
		Name:      sess.Slots.Name,
		Email:     sess.Slots.Email,
		LeaveType: sess.Slots.LeaveType,
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    sess.Slots.Reason,
	}
	if err := s.requests.Insert(ctx, r); err != nil {
		s.logger.Error("request insert failed", zap.String("session_id", sessionID), zap.Error(err))
		return "", err
	}

	s.logger.Info("request submitted",
		zap.String("session_id", sessionID),
		zap.Uint("request_id", r.ID),
		zap.String("email", r.Email),
	)

	s.publishEvent(ctx, events.LeaveRequestEvent{
		EventType: events.EventTypeSubmitted,
		RequestID: r.ID,
		Email:     r.Email,
		Status:    request.StatusPending,
	})

	sess.SavedRequestID = r.ID
	sess.Step = StepEmailOptIn
	if err := s.sessions.Replace(ctx, sessionID, sess); err != nil {
		return "", err
	}
	return savedReply(r.ID), nil
}

// confirmEmailOptIn is gate B: the request is already persisted, the only
// question is whether to send the confirmation mail. The reply is composed
// before dispatch and does not depend on its outcome.
func (s *service) confirmEmailOptIn(ctx context.Context, sessionID string, sess *Session, lower string) (string, error) {
	prefix := replyOptInNo
	if affirmativeTokens[lower] {
		prefix = replyOptInYes
		r, err := s.requests.FindByID(ctx, sess.SavedRequestID)
		if err != nil {
			s.logger.Warn("confirmation fetch failed",
				zap.Uint("request_id", sess.SavedRequestID),
				zap.Error(err),
			)
		} else {
			doc := r.Document()
			artifactPath, rerr := s.dispatcher.RenderDocument(doc)
			if rerr != nil {
				s.logger.Warn("confirmation document render failed",
					zap.Uint("request_id", r.ID),
					zap.Error(rerr),
				)
				artifactPath = ""
			}
			s.dispatcher.Dispatch(ctx, notify.Notification{
				To:      r.Email,
				Subject: fmt.Sprintf("Solicitud de permiso #%d registrada", r.ID),
				Body: fmt.Sprintf(
					"Hola %s,\n\nTu solicitud de permiso #%d (%s, %s a %s) fue registrada y está %s.",
					r.Name, r.ID, r.LeaveType, doc.StartDate, doc.EndDate, r.Status,
				),
				ArtifactPath: artifactPath,
			})
		}
	}

	if err := s.complete(ctx, sessionID); err != nil {
		return "", err
	}
	return prefix + "\n\n" + replyPostMenu, nil
}

// complete clears the session wholesale and leaves it at the reentrant menu.
func (s *service) complete(ctx context.Context, sessionID string) error {
	done := NewSession()
	done.Step = StepDone
	done.Completed = true
	return s.sessions.Replace(ctx, sessionID, done)
}

func (s *service) publishEvent(ctx context.Context, event events.LeaveRequestEvent) {
	if err := s.publisher.PublishLeaveRequestEvent(ctx, event); err != nil {
		s.logger.Warn("lifecycle event publish failed",
			zap.Uint("request_id", event.RequestID),
			zap.String("event_type", event.EventType),
			zap.Error(err),
		)
	}
}

func validEmail(v string) bool {
	at := strings.Index(v, "@")
	if at < 0 {
		return false
	}
	return strings.Contains(v[at+1:], ".")
}

func parseDate(v string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", "02/01/2006"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
