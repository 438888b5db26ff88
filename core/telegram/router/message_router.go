package router

import (
	"time"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/reportbot/core/telegram"
)

// TextOptions controls fallback behaviour for text updates.
type TextOptions struct {
	// UnknownText runs when the registry has no text fallback.
	UnknownText tele.HandlerFunc
}

// TextRoutes returns the single OnText route. Commands telebot did not match
// itself (aliases, mentions of this bot) are resolved through reg; any other
// text goes to the registry fallback, then to opts.UnknownText.
func TextRoutes(reg *tg.Registry, opts TextOptions) []tg.Route {
	pick := func(c tele.Context) (string, tele.HandlerFunc) {
		if reg == nil {
			return "unknown_text", opts.UnknownText
		}
		if tg.CommandName(c.Text()) != "" {
			if name, cmd, ok := reg.LookupCommand(c.Text()); ok && cmd.Handler != nil {
				return normalizeHandlerName(name), cmd.Handler
			}
		}
		if fb := reg.TextFallback(); fb != nil {
			return "text", fb
		}
		return "unknown_text", opts.UnknownText
	}

	handler := func(c tele.Context) error {
		start := time.Now()
		name, h := pick(c)
		if h == nil {
			SetOutcome(c, OutcomeSkip)
			logHandlerSummary(c, name, start, nil)
			return nil
		}
		return handleWithSummary(c, name, start, func() error { return h(c) })
	}
	return []tg.Route{{Endpoint: tele.OnText, Handler: handler}}
}
