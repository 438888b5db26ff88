package helpers

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// DisplayName returns "First Last" for u, trimmed; empty for a nil user.
func DisplayName(u *tele.User) string {
	if u == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

// Handle returns the username without the leading '@'.
func Handle(u *tele.User) string {
	if u == nil {
		return ""
	}
	return strings.TrimPrefix(strings.TrimSpace(u.Username), "@")
}

// LanguageTag returns the IETF tag reported by the client, if any.
func LanguageTag(u *tele.User) string {
	if u == nil {
		return ""
	}
	return strings.TrimSpace(u.LanguageCode)
}
