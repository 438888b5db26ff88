package middleware

import (
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/reportbot/core/logger"
	"github.com/m3rciful/reportbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/reportbot/core/telegram/helpers"
)

// LoggerMiddleware attaches the update context (rid, ids) and logs a sampled
// update.received line. Message text is never logged, only its length.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		if logger.ShouldSampleDebug() {
			logger.LogEvent(ctx, logger.TG, slog.LevelDebug, "update.received", receiptAttrs(c)...)
		}
		return next(c)
	}
}

func receiptAttrs(c tele.Context) []slog.Attr {
	upd := c.Update()
	attrs := []slog.Attr{
		slog.String("status", "ok"),
		slog.String("kind", UpdateKind(upd)),
	}
	if chat := c.Chat(); chat != nil {
		attrs = append(attrs, slog.String("chat_type", string(chat.Type)))
	}
	if user := c.Sender(); user != nil && user.LanguageCode != "" {
		attrs = append(attrs, slog.String("lang", logger.SanitizeLimit(user.LanguageCode, 16)))
	}
	switch {
	case upd.Callback != nil:
		if key := callbacks.CallbackKey(c); key != "" {
			attrs = append(attrs, slog.String("cb_key", logger.SanitizeLimit(key, 64)))
		}
	case upd.Message != nil:
		text := upd.Message.Text
		if len(text) > 0 && text[0] == '/' {
			attrs = append(attrs, slog.Int("payload_len", len(upd.Message.Payload)))
		}
		attrs = append(attrs, slog.Int("text_len", len([]rune(text))))
	}
	return attrs
}
