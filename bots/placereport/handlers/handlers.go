// Package handlers adapts telebot updates to report session events and renders
// the resulting messages back to the chat.
package handlers

import (
	"fmt"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/reportbot/bots/placereport/i18n"
	"github.com/m3rciful/reportbot/bots/placereport/report"
	"github.com/m3rciful/reportbot/core/logger"
	"github.com/m3rciful/reportbot/core/metrics"
	tg "github.com/m3rciful/reportbot/core/telegram"
	"github.com/m3rciful/reportbot/core/telegram/callbacks"
	"github.com/m3rciful/reportbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/reportbot/core/telegram/helpers"
	"github.com/m3rciful/reportbot/core/telegram/keyboard"
	"github.com/m3rciful/reportbot/core/telegram/router"
)

// ReasonUnique is the callback unique of reason buttons; the payload is the reason code.
const ReasonUnique = "report"

// Options configures presentation details that are not part of the session flow.
type Options struct {
	// MapURL, when set, adds a link button to the welcome message.
	MapURL string
	// MapAfterReport re-attaches the map button to the acknowledgment.
	MapAfterReport bool
	// Texts resolves the map button label; nil uses the builtin catalog.
	Texts i18n.Resolver
}

// Handlers owns the telebot handlers of the report bot.
type Handlers struct {
	machine *report.Machine
	metrics *metrics.Metrics
	opts    Options
}

// New returns handlers driving machine. m may be nil.
func New(machine *report.Machine, m *metrics.Metrics, opts Options) *Handlers {
	return &Handlers{machine: machine, metrics: m, opts: opts}
}

// Register adds the /start command, the reason callback and the text fallback to reg.
func (h *Handlers) Register(reg *tg.Registry) error {
	if err := reg.RegisterCommand("/start", commands.Command{
		Handler:     h.Start,
		Description: "Start",
	}); err != nil {
		return fmt.Errorf("handlers: %w", err)
	}
	if err := reg.RegisterCallback(ReasonUnique, h.Reason); err != nil {
		return fmt.Errorf("handlers: %w", err)
	}
	reg.SetCallbackNotFound(h.StaleCallback)
	reg.SetTextFallback(h.Text)
	return nil
}

// Start handles /start with or without a deep-link payload.
func (h *Handlers) Start(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		router.SetOutcome(c, router.OutcomeSkip)
		return nil
	}
	payload := ""
	if msg := c.Message(); msg != nil {
		payload = msg.Payload
	}
	ev := report.StartEvent(user.ID, tghelpers.LanguageTag(user), payload)
	return h.handle(c, ev, false)
}

// Reason handles a press on one of the reason buttons.
func (h *Handlers) Reason(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		router.SetOutcome(c, router.OutcomeSkip)
		return nil
	}
	ev := report.Event{
		Kind:   report.EventReason,
		UserID: user.ID,
		Lang:   tghelpers.LanguageTag(user),
		Code:   report.ReasonCode(callbacks.CallbackPayload(c)),
	}
	return h.handle(c, ev, true)
}

// StaleCallback handles buttons this bot no longer knows; the user gets the
// prompt of their current state.
func (h *Handlers) StaleCallback(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		router.SetOutcome(c, router.OutcomeSkip)
		return nil
	}
	ev := report.Event{Kind: report.EventReason, UserID: user.ID, Lang: tghelpers.LanguageTag(user)}
	return h.handle(c, ev, true)
}

// Text handles plain messages in private chats.
func (h *Handlers) Text(c tele.Context) error {
	user := c.Sender()
	chat := c.Chat()
	if user == nil || (chat != nil && chat.Type != tele.ChatPrivate) {
		router.SetOutcome(c, router.OutcomeSkip)
		return nil
	}
	ev := report.Event{
		Kind:   report.EventText,
		UserID: user.ID,
		Lang:   tghelpers.LanguageTag(user),
		Text:   c.Text(),
	}
	return h.handle(c, ev, false)
}

func (h *Handlers) handle(c tele.Context, ev report.Event, fromCallback bool) error {
	user := c.Sender()
	if chat := c.Chat(); chat != nil {
		ev.ChatID = chat.ID
	}
	ev.Reporter = report.Reporter{
		UserID:      user.ID,
		DisplayName: tghelpers.DisplayName(user),
		Handle:      tghelpers.Handle(user),
		LanguageTag: tghelpers.LanguageTag(user),
	}

	ctx := tghelpers.BuildContext(c)
	res := h.machine.Handle(ctx, ev)
	h.observe(res)
	if res.NoOp {
		router.SetOutcome(c, router.OutcomeNoop)
	}
	if res.DeliveryErr != nil {
		logger.LogEvent(ctx, logger.Report, slog.LevelWarn, "report.user_notified",
			slog.String("status", "fail"),
			slog.String("report_id", res.DeliveryErr.ReportID.String()),
			slog.String("error_kind", res.DeliveryErr.Kind),
		)
	}
	return h.reply(c, res.Messages, fromCallback)
}

func (h *Handlers) observe(res report.Result) {
	if h.metrics == nil {
		return
	}
	if res.DecodeErr != nil {
		h.metrics.DecodeErrorsTotal.Inc()
	}
	if res.Report != nil {
		h.metrics.ReportsTotal.WithLabelValues(string(res.Report.Reason.Code)).Inc()
	}
	if res.DeliveryErr != nil {
		h.metrics.DeliveryFailuresTotal.WithLabelValues(res.DeliveryErr.Kind).Inc()
	}
}

// reply sends msgs in order as one job. The first message replaces the pressed
// menu when the update is a callback.
func (h *Handlers) reply(c tele.Context, msgs []report.Outbound, fromCallback bool) error {
	if len(msgs) == 0 {
		return nil
	}
	action := "reply." + msgs[0].Kind.String()
	return tghelpers.Async(c, action, "sendMessage", func() error {
		for i, msg := range msgs {
			opts := tghelpers.FormattedOptions(msg.Mode, h.markup(msg))
			var err error
			if i == 0 && fromCallback {
				err = c.EditOrSend(msg.Text, opts)
			} else {
				err = c.Send(msg.Text, opts)
			}
			if err != nil {
				return fmt.Errorf("reply %s: %w", msg.Kind, err)
			}
		}
		return nil
	})
}

func (h *Handlers) markup(msg report.Outbound) *tele.ReplyMarkup {
	switch msg.Kind {
	case report.OutReasonMenu:
		btns := make([]keyboard.InlineBtn, 0, len(msg.Options))
		for _, o := range msg.Options {
			btns = append(btns, keyboard.InlineBtn{Text: o.Label, Unique: ReasonUnique, Data: string(o.Code)})
		}
		return keyboard.InlineButtons(btns)
	case report.OutWelcome:
		return h.mapButton(msg.Lang)
	case report.OutThanks, report.OutTextAck:
		if h.opts.MapAfterReport {
			return h.mapButton(msg.Lang)
		}
	}
	return nil
}

func (h *Handlers) mapButton(lang string) *tele.ReplyMarkup {
	if h.opts.MapURL == "" {
		return nil
	}
	texts := h.opts.Texts
	if texts == nil {
		texts = i18n.Builtin()
	}
	label := texts.Resolve(lang, i18n.KeyMapButton)
	return keyboard.InlineButtons([]keyboard.InlineBtn{{Text: label, URL: h.opts.MapURL}})
}
