package format

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Mode names the markup dialect a message is rendered in.
type Mode string

const (
	// ModePlain sends text as-is.
	ModePlain Mode = "plain"
	// ModeHTML uses Telegram's HTML subset.
	ModeHTML Mode = "html"
	// ModeMarkdownV2 uses Telegram MarkdownV2.
	ModeMarkdownV2 Mode = "markdownv2"
)

var (
	mdV1Re = regexp.MustCompile("([_*`\\[])")
	mdV2Re = regexp.MustCompile(`([_*\[\]()~` + "`" + `>#+\-=|{}.!\\])`)
)

// ParseMode converts a config value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeHTML, nil
	case ModePlain, ModeHTML, ModeMarkdownV2:
		return m, nil
	}
	return "", fmt.Errorf("unsupported markup mode %q; allowed: plain, html, markdownv2", s)
}

// Escape makes untrusted text safe to interpolate into a message rendered in mode.
func Escape(mode Mode, s string) string {
	switch mode {
	case ModeHTML:
		return html.EscapeString(s)
	case ModeMarkdownV2:
		return mdV2Re.ReplaceAllString(s, `\$1`)
	default:
		return s
	}
}

// EscapeMarkdownV1 escapes the legacy Markdown entity characters.
func EscapeMarkdownV1(s string) string {
	return mdV1Re.ReplaceAllString(s, `\$1`)
}

// Bold wraps already-escaped text in the mode's bold markup.
func Bold(mode Mode, s string) string {
	switch mode {
	case ModeHTML:
		return "<b>" + s + "</b>"
	case ModeMarkdownV2:
		return "*" + s + "*"
	default:
		return s
	}
}

// Italic wraps already-escaped text in the mode's italic markup.
func Italic(mode Mode, s string) string {
	switch mode {
	case ModeHTML:
		return "<i>" + s + "</i>"
	case ModeMarkdownV2:
		return "_" + s + "_"
	default:
		return s
	}
}

// TeleParseMode maps a Mode to the telebot parse mode.
func TeleParseMode(mode Mode) tele.ParseMode {
	switch mode {
	case ModeHTML:
		return tele.ModeHTML
	case ModeMarkdownV2:
		return tele.ModeMarkdownV2
	default:
		return tele.ModeDefault
	}
}
