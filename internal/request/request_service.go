package request

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go-leavebot/internal/events"
	"go-leavebot/internal/notify"
	requesterrors "go-leavebot/internal/request/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service is the administrative surface over persisted leave requests:
// listing, review decisions, and document regeneration. The conversational
// engine talks to the Repository directly.
type Service interface {
	GetAll(ctx context.Context) ([]LeaveRequestResponse, error)
	GetByID(ctx context.Context, id string) (LeaveRequestResponse, error)
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (LeaveRequestResponse, error)
	Document(ctx context.Context, id string) (string, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	dispatcher notify.Dispatcher
	publisher  EventPublisher
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	dispatcher notify.Dispatcher,
	publisher EventPublisher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("request.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("request.service")
	}
	return &service{db: db, repo: repo, dispatcher: dispatcher, publisher: publisher, logger: l}
}

func (s *service) GetAll(ctx context.Context) ([]LeaveRequestResponse, error) {
	reqs, err := s.repo.FindRecent(ctx, 1000)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(reqs), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveRequestResponse, error) {
	requestID, err := parseRequestID(id)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	r, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, requesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	return mapToResponse(*r), nil
}

func (s *service) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (LeaveRequestResponse, error) {
	s.logger.Debug("update status requested",
		zap.String("request_id", id),
		zap.String("target_status", req.Status),
	)

	requestID, err := parseRequestID(id)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if !AllowedStatus(req.Status) {
		return LeaveRequestResponse{}, requesterrors.ErrInvalidStatus
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update status begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	r, err := qtx.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, requesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}

	updated, err := qtx.UpdateStatus(ctx, requestID, req.Status, req.Comments)
	if err != nil {
		s.logger.Error("update status persist failed", zap.Uint("request_id", requestID), zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if !updated {
		// Row vanished between the two calls; treat as not found.
		return LeaveRequestResponse{}, requesterrors.ErrRequestNotFound
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update status commit failed", zap.Uint("request_id", requestID), zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	r.Status = req.Status
	if req.Comments != nil {
		r.Comments = req.Comments
	}
	s.logger.Info("update status success",
		zap.Uint("request_id", requestID),
		zap.String("status", r.Status),
	)

	s.notifyDecision(ctx, r)

	if err := s.publisher.PublishLeaveRequestEvent(ctx, events.LeaveRequestEvent{
		EventType:  events.EventTypeStatusChanged,
		RequestID:  r.ID,
		Email:      r.Email,
		Status:     r.Status,
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		s.logger.Warn("lifecycle event publish failed", zap.Uint("request_id", r.ID), zap.Error(err))
	}

	return mapToResponse(*r), nil
}

// notifyDecision sends the review outcome to the requester. Only approvals
// and rejections notify; the outcome never changes the HTTP response.
func (s *service) notifyDecision(ctx context.Context, r *LeaveRequest) {
	if r.Status != StatusApproved && r.Status != StatusRejected {
		return
	}

	doc := r.Document()
	artifactPath, err := s.dispatcher.RenderDocument(doc)
	if err != nil {
		s.logger.Warn("decision document render failed", zap.Uint("request_id", r.ID), zap.Error(err))
		artifactPath = ""
	}

	verdict := "aprobada"
	if r.Status == StatusRejected {
		verdict = "rechazada"
	}
	body := fmt.Sprintf(
		"Hola %s,\n\nTu solicitud de permiso #%d (%s, %s a %s) ha sido %s.",
		r.Name, r.ID, r.LeaveType, doc.StartDate, doc.EndDate, verdict,
	)
	if r.Comments != nil && *r.Comments != "" {
		body += fmt.Sprintf("\n\nComentarios: %s", *r.Comments)
	}

	s.dispatcher.Dispatch(ctx, notify.Notification{
		To:           r.Email,
		Subject:      fmt.Sprintf("Solicitud de permiso #%d %s", r.ID, verdict),
		Body:         body,
		ArtifactPath: artifactPath,
	})
}

func (s *service) Document(ctx context.Context, id string) (string, error) {
	requestID, err := parseRequestID(id)
	if err != nil {
		return "", err
	}

	r, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", requesterrors.ErrRequestNotFound
		}
		return "", err
	}

	return s.dispatcher.RenderDocument(r.Document())
}

func parseRequestID(id string) (uint, error) {
	v, err := strconv.ParseUint(id, 10, 64)
	if err != nil || v == 0 {
		return 0, requesterrors.ErrInvalidRequestID
	}
	return uint(v), nil
}
