package notify

import (
	"context"

	"go.uber.org/zap"
)

// Dispatcher is the notification boundary the dialogue and admin services
// talk to. Delivery is best-effort: Dispatch reports the outcome but never
// returns an error, and callers compose their replies before invoking it.
type Dispatcher interface {
	RenderDocument(doc Document) (string, error)
	Dispatch(ctx context.Context, n Notification) bool
}

type dispatcher struct {
	renderer *Renderer
	mailer   Mailer
	logger   *zap.Logger
}

func NewDispatcher(renderer *Renderer, mailer Mailer, logger ...*zap.Logger) Dispatcher {
	l := zap.L().Named("notify.dispatcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notify.dispatcher")
	}
	return &dispatcher{renderer: renderer, mailer: mailer, logger: l}
}

func (d *dispatcher) RenderDocument(doc Document) (string, error) {
	return d.renderer.Render(doc)
}

func (d *dispatcher) Dispatch(ctx context.Context, n Notification) bool {
	err := d.mailer.Send(n)
	if err == nil {
		d.logger.Info("notification sent", zap.String("to", n.To), zap.String("subject", n.Subject))
		return true
	}
	if err == ErrMailerNotConfigured {
		d.logger.Warn("notification skipped, transport not configured", zap.String("to", n.To))
		return false
	}

	d.logger.Warn("notification send failed, retrying once", zap.String("to", n.To), zap.Error(err))
	if ctx.Err() != nil {
		return false
	}
	if err := d.mailer.Send(n); err != nil {
		d.logger.Warn("notification send failed", zap.String("to", n.To), zap.Error(err))
		return false
	}

	d.logger.Info("notification sent on retry", zap.String("to", n.To))
	return true
}
