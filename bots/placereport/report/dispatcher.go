package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/m3rciful/reportbot/core/logger"
	"github.com/m3rciful/reportbot/core/telegram/format"
)

// Dispatcher delivers a finalized report. It returns the message for the
// reporter: the acknowledgment on success, a generic failure notice together
// with a *DeliveryError otherwise.
type Dispatcher interface {
	Dispatch(ctx context.Context, rep Report) (Outbound, error)
}

// Sender transmits one rendered message.
type Sender interface {
	Send(ctx context.Context, recipient int64, text string, mode format.Mode) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, recipient int64, text string, mode format.Mode) error

func (f SenderFunc) Send(ctx context.Context, recipient int64, text string, mode format.Mode) error {
	return f(ctx, recipient, text, mode)
}

// AdminDispatcher sends every report to a single administrator chat.
type AdminDispatcher struct {
	sender  Sender
	adminID int64
	render  *Renderer
	log     *slog.Logger
}

// NewAdminDispatcher returns a dispatcher delivering to adminID.
func NewAdminDispatcher(sender Sender, adminID int64, render *Renderer) *AdminDispatcher {
	return &AdminDispatcher{
		sender:  sender,
		adminID: adminID,
		render:  render,
		log:     logger.Component("report.dispatch"),
	}
}

// Dispatch implements Dispatcher.
func (d *AdminDispatcher) Dispatch(ctx context.Context, rep Report) (Outbound, error) {
	msg := d.render.Admin(d.adminID, rep)
	start := time.Now()
	err := d.sender.Send(ctx, msg.Recipient, msg.Text, msg.Mode)
	attrs := []slog.Attr{
		slog.String("report_id", rep.ID.String()),
		slog.String("reason", string(rep.Reason.Code)),
		slog.String("lang", rep.Reporter.LanguageTag),
		slog.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		derr := &DeliveryError{ReportID: rep.ID, Kind: ErrorKind(err), Err: err}
		attrs = append(attrs,
			slog.String("status", "fail"),
			slog.String("error_kind", derr.Kind),
			slog.String("err", err.Error()),
		)
		logger.LogEvent(ctx, d.log, slog.LevelError, "report.delivery_failed", attrs...)
		return d.render.DeliveryFailed(rep.Reporter.UserID, rep.Reporter.LanguageTag), derr
	}
	logger.LogEvent(ctx, d.log, slog.LevelInfo, "report.dispatched", append(attrs, slog.String("status", "ok"))...)
	return d.render.Ack(rep), nil
}
