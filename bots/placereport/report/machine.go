package report

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/m3rciful/reportbot/bots/placereport/place"
	"github.com/m3rciful/reportbot/core/logger"
	"github.com/m3rciful/reportbot/core/telegram/state"
)

// Result describes what one event did to the user's session.
type Result struct {
	From State
	To   State
	// NoOp is set when the event did not apply to the current state.
	NoOp bool
	// Messages go to the user, in order.
	Messages []Outbound
	// Report is set when the event closed the session.
	Report *Report
	// DecodeErr is the rejected payload error, if any.
	DecodeErr error
	// DeliveryErr is set when the report could not be delivered.
	DeliveryErr *DeliveryError
}

// Machine drives report sessions. It is safe for concurrent use; events of the
// same user are serialized by the store.
type Machine struct {
	store      state.Store[Session]
	render     *Renderer
	dispatcher Dispatcher

	newID func() uuid.UUID
	now   func() time.Time
}

// NewMachine wires the machine to its collaborators.
func NewMachine(store state.Store[Session], render *Renderer, dispatcher Dispatcher) *Machine {
	return &Machine{
		store:      store,
		render:     render,
		dispatcher: dispatcher,
		newID:      uuid.New,
		now:        time.Now,
	}
}

// Handle applies ev to the user's session. The store update happens first and
// delivery runs afterwards without holding the user's lock, so a delivery
// failure never resurrects a closed session.
func (m *Machine) Handle(ctx context.Context, ev Event) Result {
	var res Result
	m.store.Update(ev.UserID, func(cur Session, ok bool) (Session, bool) {
		var next Session
		var keep bool
		res, next, keep = m.transition(ev, cur, ok)
		return next, keep
	})

	if res.Report != nil {
		msg, err := m.dispatcher.Dispatch(ctx, *res.Report)
		if err != nil {
			var derr *DeliveryError
			if !errors.As(err, &derr) {
				derr = &DeliveryError{ReportID: res.Report.ID, Kind: ErrorKind(err), Err: err}
			}
			res.DeliveryErr = derr
		}
		res.Messages = append(res.Messages, msg)
	}

	level := slog.LevelDebug
	if res.From != res.To {
		level = slog.LevelInfo
	}
	attrs := []slog.Attr{
		slog.String("action", ev.Kind.String()),
		slog.String("state", res.From.String()),
		slog.String("next_state", res.To.String()),
		slog.Bool("noop", res.NoOp),
		slog.String("lang", ev.Lang),
	}
	if res.Report != nil {
		attrs = append(attrs, slog.String("report_id", res.Report.ID.String()), slog.String("reason", string(res.Report.Reason.Code)))
	}
	if res.DecodeErr != nil {
		attrs = append(attrs, slog.String("err", logger.SanitizeLimit(res.DecodeErr.Error(), 200)))
	}
	logger.LogEvent(ctx, logger.Report, level, "session.transition", attrs...)
	return res
}

// transition computes the next session under the store lock. It must not block.
func (m *Machine) transition(ev Event, cur Session, ok bool) (Result, Session, bool) {
	from := Idle
	if ok {
		from = cur.State
	}
	lang := ev.Lang
	if lang == "" && ok {
		lang = cur.Lang
	}
	to := ev.ChatID
	if to == 0 {
		to = ev.UserID
	}

	res := Result{From: from, To: from}
	keepCurrent := func() (Result, Session, bool) { return res, cur, ok }
	noop := func() (Result, Session, bool) {
		res.NoOp = true
		res.Messages = []Outbound{m.render.Prompt(to, lang, cur, ok)}
		return keepCurrent()
	}
	closeWith := func(reason Reason) (Result, Session, bool) {
		rep := &Report{
			ID:        m.newID(),
			Place:     cur.Place,
			Reason:    reason,
			Reporter:  ev.Reporter,
			CreatedAt: m.now(),
		}
		rep.Reporter.UserID = ev.UserID
		if rep.Reporter.LanguageTag == "" {
			rep.Reporter.LanguageTag = lang
		}
		res.To = Idle
		res.Report = rep
		return res, Session{}, false
	}

	switch ev.Kind {
	case EventStart:
		ref, err := place.Decode(ev.Payload)
		if err != nil {
			res.DecodeErr = err
			res.Messages = []Outbound{m.render.DecodeError(to, lang)}
			if ok {
				res.Messages = append(res.Messages, m.render.Prompt(to, lang, cur, ok))
			}
			return keepCurrent()
		}
		next := Session{UserID: ev.UserID, Place: ref, State: AwaitingReason, Lang: lang}
		res.To = AwaitingReason
		res.Messages = []Outbound{m.render.ReasonMenu(to, lang, ref)}
		return res, next, true

	case EventStartEmpty:
		if ok {
			return noop()
		}
		res.Messages = []Outbound{m.render.Welcome(to, lang)}
		return keepCurrent()

	case EventReason:
		if from != AwaitingReason {
			return noop()
		}
		code, valid := ParseReasonCode(string(ev.Code))
		if !valid {
			return noop()
		}
		if code == Other {
			next := cur
			next.State = AwaitingFreeText
			res.To = AwaitingFreeText
			res.Messages = []Outbound{m.render.DescribePrompt(to, lang, cur.Place)}
			return res, next, true
		}
		return closeWith(Reason{Code: code})

	case EventText:
		if !ok {
			res.Messages = []Outbound{m.render.Welcome(to, lang)}
			return keepCurrent()
		}
		if from != AwaitingFreeText {
			return noop()
		}
		text := norm.NFC.String(strings.TrimSpace(ev.Text))
		if text == "" {
			return noop()
		}
		return closeWith(Reason{Code: Other, FreeText: text})
	}
	return noop()
}
