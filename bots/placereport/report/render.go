package report

import (
	"strconv"
	"strings"

	"github.com/m3rciful/reportbot/bots/placereport/i18n"
	"github.com/m3rciful/reportbot/bots/placereport/place"
	"github.com/m3rciful/reportbot/core/telegram/format"
)

// Renderer turns session outputs and reports into Outbound messages.
type Renderer struct {
	resolver  i18n.Resolver
	mode      format.Mode
	adminLang string
}

// NewRenderer returns a Renderer. An empty adminLang means the default language.
func NewRenderer(resolver i18n.Resolver, mode format.Mode, adminLang string) *Renderer {
	if resolver == nil {
		resolver = i18n.Builtin()
	}
	if mode == "" {
		mode = format.ModeHTML
	}
	return &Renderer{resolver: resolver, mode: mode, adminLang: string(i18n.Normalize(adminLang))}
}

// Mode returns the markup dialect of rendered texts.
func (r *Renderer) Mode() format.Mode { return r.mode }

// AdminLang returns the fixed language of admin notifications.
func (r *Renderer) AdminLang() string { return r.adminLang }

func (r *Renderer) esc(s string) string { return format.Escape(r.mode, s) }

func (r *Renderer) expand(lang string, key i18n.Key, vals map[string]string) string {
	return i18n.Expand(r.resolver.Resolve(lang, key), r.esc, vals)
}

func (r *Renderer) out(to int64, kind OutboundKind, lang, text string) Outbound {
	return Outbound{Recipient: to, Kind: kind, Text: text, Mode: r.mode, Lang: lang}
}

func (r *Renderer) boldPlace(p place.Ref) string {
	return format.Bold(r.mode, r.esc(p.Display()))
}

// Welcome is the Idle prompt.
func (r *Renderer) Welcome(to int64, lang string) Outbound {
	return r.out(to, OutWelcome, lang, r.expand(lang, i18n.KeyWelcome, nil))
}

// DecodeError tells the user the deep link could not be read.
func (r *Renderer) DecodeError(to int64, lang string) Outbound {
	return r.out(to, OutDecodeError, lang, r.expand(lang, i18n.KeyDecodeError, nil))
}

// ReasonMenu is the AwaitingReason prompt with one option per reason code.
func (r *Renderer) ReasonMenu(to int64, lang string, p place.Ref) Outbound {
	o := r.out(to, OutReasonMenu, lang, r.expand(lang, i18n.KeyReasonMenu, map[string]string{
		"place": r.boldPlace(p),
	}))
	for _, code := range Reasons() {
		o.Options = append(o.Options, Option{Label: r.resolver.Resolve(lang, code.Key()), Code: code})
	}
	return o
}

// DescribePrompt is the AwaitingFreeText prompt.
func (r *Renderer) DescribePrompt(to int64, lang string, p place.Ref) Outbound {
	return r.out(to, OutDescribePrompt, lang, r.expand(lang, i18n.KeyDescribePrompt, map[string]string{
		"place": r.boldPlace(p),
	}))
}

// Prompt re-emits the default prompt of the session's state.
func (r *Renderer) Prompt(to int64, lang string, s Session, ok bool) Outbound {
	if !ok {
		return r.Welcome(to, lang)
	}
	switch s.State {
	case AwaitingReason:
		return r.ReasonMenu(to, lang, s.Place)
	case AwaitingFreeText:
		return r.DescribePrompt(to, lang, s.Place)
	}
	return r.Welcome(to, lang)
}

// Ack is the user acknowledgment for a delivered report, in the reporter's language.
func (r *Renderer) Ack(rep Report) Outbound {
	lang := rep.Reporter.LanguageTag
	to := rep.Reporter.UserID
	if rep.Reason.IsFreeText() {
		return r.out(to, OutTextAck, lang, r.expand(lang, i18n.KeyTextAck, nil))
	}
	reason := r.resolver.Resolve(lang, rep.Reason.Code.Key())
	return r.out(to, OutThanks, lang, r.expand(lang, i18n.KeyThanks, map[string]string{
		"place":  r.boldPlace(rep.Place),
		"reason": format.Italic(r.mode, r.esc(reason)),
	}))
}

// DeliveryFailed is the generic notice shown when the admin could not be reached.
func (r *Renderer) DeliveryFailed(to int64, lang string) Outbound {
	return r.out(to, OutDeliveryFailed, lang, r.expand(lang, i18n.KeyDeliveryFailed, nil))
}

// Admin renders the operator notification in the fixed admin language.
func (r *Renderer) Admin(to int64, rep Report) Outbound {
	lang := r.adminLang
	line := func(key i18n.Key, vals map[string]string) string { return r.expand(lang, key, vals) }

	title := i18n.KeyAdminTitleReason
	if rep.Reason.IsFreeText() {
		title = i18n.KeyAdminTitleText
	}
	lines := []string{
		format.Bold(r.mode, line(title, nil)),
		line(i18n.KeyAdminPlace, map[string]string{"place": format.Bold(r.mode, r.esc(rep.Place.Name))}),
	}
	if rep.Place.Address != "" {
		lines = append(lines, line(i18n.KeyAdminAddress, map[string]string{"address": r.esc(rep.Place.Address)}))
	}
	if rep.Reason.IsFreeText() {
		lines = append(lines, line(i18n.KeyAdminText, map[string]string{"text": r.esc(rep.Reason.FreeText)}))
	} else {
		reason := r.resolver.Resolve(lang, rep.Reason.Code.Key())
		lines = append(lines, line(i18n.KeyAdminReason, map[string]string{"reason": r.esc(reason)}))
	}
	lines = append(lines, line(i18n.KeyAdminFrom, map[string]string{"reporter": r.esc(reporterLabel(rep.Reporter))}))
	if tag := strings.TrimSpace(rep.Reporter.LanguageTag); tag != "" {
		lines = append(lines, line(i18n.KeyAdminLang, map[string]string{"lang": r.esc(tag)}))
	}
	lines = append(lines, line(i18n.KeyAdminReportID, map[string]string{"id": r.esc(rep.ID.String())}))
	return r.out(to, OutAdminReport, lang, strings.Join(lines, "\n"))
}

// reporterLabel renders "Full Name (@handle)", dropping the parts that are missing.
func reporterLabel(rp Reporter) string {
	name := strings.TrimSpace(rp.DisplayName)
	handle := strings.TrimPrefix(strings.TrimSpace(rp.Handle), "@")
	switch {
	case name != "" && handle != "":
		return name + " (@" + handle + ")"
	case name != "":
		return name
	case handle != "":
		return "@" + handle
	}
	return "id " + strconv.FormatInt(rp.UserID, 10)
}
