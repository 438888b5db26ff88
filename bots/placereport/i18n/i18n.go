// Package i18n resolves user-facing texts by language tag and message key.
//
// Resolution never fails: an unknown tag falls back to English, a key missing
// from the resolved table falls back to the English table and finally to the
// key itself so a missing translation is visible in the chat.
package i18n

import (
	"strings"
	"unicode/utf8"
)

// Lang is a normalized two-letter language tag.
type Lang string

const (
	EN Lang = "en"
	RU Lang = "ru"
	LV Lang = "lv"

	// Default is used for empty and unknown tags.
	Default = EN
)

// Key names a translatable message.
type Key string

const (
	KeyWelcome        Key = "welcome"
	KeyMapButton      Key = "map_button"
	KeyDecodeError    Key = "decode_error"
	KeyReasonMenu     Key = "reason_menu"
	KeyDescribePrompt Key = "describe_prompt"
	KeyThanks         Key = "thanks"
	KeyTextAck        Key = "text_ack"
	KeyDeliveryFailed Key = "delivery_failed"

	KeyReasonClosed     Key = "reason.closed"
	KeyReasonNotAllowed Key = "reason.not_allowed"
	KeyReasonLocation   Key = "reason.location"
	KeyReasonInfo       Key = "reason.info"
	KeyReasonOther      Key = "reason.other"

	KeyAdminTitleReason Key = "admin.title_reason"
	KeyAdminTitleText   Key = "admin.title_text"
	KeyAdminPlace       Key = "admin.place"
	KeyAdminAddress     Key = "admin.address"
	KeyAdminReason      Key = "admin.reason"
	KeyAdminText        Key = "admin.text"
	KeyAdminFrom        Key = "admin.from"
	KeyAdminLang        Key = "admin.lang"
	KeyAdminReportID    Key = "admin.report_id"
)

// Resolver maps a language tag and key to display text.
type Resolver interface {
	Resolve(tag string, key Key) string
}

// Catalog is a static Resolver backed by in-memory tables.
type Catalog struct {
	tables map[Lang]map[Key]string
}

// NewCatalog builds a Catalog from the given tables. The Default table should be present.
func NewCatalog(tables map[Lang]map[Key]string) *Catalog {
	return &Catalog{tables: tables}
}

var builtin = NewCatalog(translations)

// Builtin returns the catalog shipped with the bot.
func Builtin() *Catalog { return builtin }

// Resolve looks the key up using the builtin catalog.
func Resolve(tag string, key Key) string { return builtin.Resolve(tag, key) }

// Normalize lowercases the first two characters of tag. Empty maps to Default.
func Normalize(tag string) Lang {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return Default
	}
	end := 0
	for i := 0; i < 2 && end < len(tag); i++ {
		_, size := utf8.DecodeRuneInString(tag[end:])
		end += size
	}
	return Lang(strings.ToLower(tag[:end]))
}

// Supports reports whether the catalog has a table for tag after normalization.
func (c *Catalog) Supports(tag string) bool {
	_, ok := c.tables[Normalize(tag)]
	return ok
}

// Langs lists the languages with a table.
func (c *Catalog) Langs() []Lang {
	out := make([]Lang, 0, len(c.tables))
	for _, l := range []Lang{EN, RU, LV} {
		if _, ok := c.tables[l]; ok {
			out = append(out, l)
		}
	}
	return out
}

// Resolve returns the text for key in tag's language.
func (c *Catalog) Resolve(tag string, key Key) string {
	table, ok := c.tables[Normalize(tag)]
	if !ok {
		table = c.tables[Default]
	}
	if text, ok := table[key]; ok {
		return text
	}
	if text, ok := c.tables[Default][key]; ok {
		return text
	}
	return string(key)
}

// Expand substitutes {name} placeholders in tmpl with vals. Literal template text
// goes through escape; values are inserted as given, so callers pass them already
// escaped and decorated. Unknown placeholders are kept as literal text.
func Expand(tmpl string, escape func(string) string, vals map[string]string) string {
	if escape == nil {
		escape = func(s string) string { return s }
	}
	var b strings.Builder
	b.Grow(len(tmpl))
	lit := 0
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '{' {
			continue
		}
		end := strings.IndexByte(tmpl[i+1:], '}')
		if end < 0 {
			break
		}
		name := tmpl[i+1 : i+1+end]
		val, ok := vals[name]
		if !ok {
			continue
		}
		b.WriteString(escape(tmpl[lit:i]))
		b.WriteString(val)
		i += end + 1
		lit = i + 1
	}
	b.WriteString(escape(tmpl[lit:]))
	return b.String()
}
