package helpers

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/reportbot/core/logger"
	"github.com/m3rciful/reportbot/core/telegram/format"
	"github.com/m3rciful/reportbot/core/telegram/sender"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the outbound worker pool used by helper functions.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

func currentDispatcher() *sender.Dispatcher {
	return globalDispatcher.Load()
}

// Async runs a Telegram call on the worker pool, or inline when no pool is wired
// or the queue cannot take it.
func Async(c tele.Context, action, endpoint string, run func() error) error {
	disp := currentDispatcher()
	if disp == nil {
		return run()
	}

	ctx := BuildContext(c)
	err := disp.Enqueue(ctx, action, endpoint, func(context.Context) error { return run() })
	if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
		logger.Warn(ctx, "tg.sender", "queue.fallback",
			slog.String("action", action),
			slog.String("endpoint", endpoint),
			slog.String("err", err.Error()),
		)
		return run()
	}
	return err
}

// FormattedOptions builds send options for text rendered in mode.
func FormattedOptions(mode format.Mode, markup *tele.ReplyMarkup) *tele.SendOptions {
	return &tele.SendOptions{
		ParseMode:   format.TeleParseMode(mode),
		ReplyMarkup: markup,
	}
}

func firstMarkup(markup []*tele.ReplyMarkup) *tele.ReplyMarkup {
	if len(markup) > 0 {
		return markup[0]
	}
	return nil
}

// SendFormatted sends already-escaped text in the given mode to the current chat.
func SendFormatted(c tele.Context, text string, mode format.Mode, markup ...*tele.ReplyMarkup) error {
	opts := FormattedOptions(mode, firstMarkup(markup))
	return Async(c, "send."+string(mode), "sendMessage", func() error {
		return c.Send(text, opts)
	})
}

// SendHTML sends a message with HTML parse mode and optional reply markup.
func SendHTML(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	return SendFormatted(c, text, format.ModeHTML, markup...)
}

// EditOrSendFormatted edits the message the callback came from, or sends a new one.
func EditOrSendFormatted(c tele.Context, text string, mode format.Mode, markup ...*tele.ReplyMarkup) error {
	opts := FormattedOptions(mode, firstMarkup(markup))
	return Async(c, "edit."+string(mode), "editMessageText", func() error {
		return c.EditOrSend(text, opts)
	})
}

// Respond answers the current callback query so the client stops its spinner.
func Respond(c tele.Context, resp ...*tele.CallbackResponse) error {
	if c.Callback() == nil {
		return nil
	}
	return Async(c, "respond", "answerCallbackQuery", func() error {
		return c.Respond(resp...)
	})
}

// MessageSender is the part of *tele.Bot used to reach arbitrary chats.
type MessageSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// SendTo delivers text to chatID and waits for the result. With a dispatcher
// wired the call runs on the pool; otherwise it runs inline.
func SendTo(ctx context.Context, bot MessageSender, chatID int64, text string, mode format.Mode) error {
	opts := FormattedOptions(mode, nil)
	run := func(context.Context) error {
		_, err := bot.Send(tele.ChatID(chatID), text, opts)
		return err
	}
	endpoint := "chat:" + strconv.FormatInt(chatID, 10)
	if disp := currentDispatcher(); disp != nil {
		return disp.Do(ctx, "send.direct", endpoint, run)
	}
	return run(ctx)
}
