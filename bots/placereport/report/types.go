// Package report implements the per-user report session: the state machine that
// turns start/button/text events into prompts and finalized reports, and the
// dispatcher that delivers reports to the administrator.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/m3rciful/reportbot/bots/placereport/i18n"
	"github.com/m3rciful/reportbot/bots/placereport/place"
	"github.com/m3rciful/reportbot/core/telegram/format"
)

// ReasonCode is one of the pre-written complaint categories.
type ReasonCode string

const (
	Closed        ReasonCode = "closed"
	NotAllowed    ReasonCode = "not_allowed"
	WrongLocation ReasonCode = "location"
	WrongInfo     ReasonCode = "info"
	// Other asks the user for free text instead of closing the session.
	Other ReasonCode = "other"
)

var reasonKeys = map[ReasonCode]i18n.Key{
	Closed:        i18n.KeyReasonClosed,
	NotAllowed:    i18n.KeyReasonNotAllowed,
	WrongLocation: i18n.KeyReasonLocation,
	WrongInfo:     i18n.KeyReasonInfo,
	Other:         i18n.KeyReasonOther,
}

// Reasons returns the codes in menu order.
func Reasons() []ReasonCode {
	return []ReasonCode{Closed, NotAllowed, WrongLocation, WrongInfo, Other}
}

// ParseReasonCode validates a raw code, e.g. from callback data.
func ParseReasonCode(s string) (ReasonCode, bool) {
	c := ReasonCode(s)
	_, ok := reasonKeys[c]
	return c, ok
}

// Key returns the translation key of the reason's label.
func (c ReasonCode) Key() i18n.Key {
	if k, ok := reasonKeys[c]; ok {
		return k
	}
	return i18n.Key("reason." + string(c))
}

// State is the position of a session in the report flow.
type State int

const (
	// Idle means no session is stored for the user.
	Idle State = iota
	AwaitingReason
	AwaitingFreeText
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingReason:
		return "awaiting_reason"
	case AwaitingFreeText:
		return "awaiting_free_text"
	}
	return "unknown"
}

// Session is the in-flight report of one user. Place never changes after creation.
type Session struct {
	UserID int64
	Place  place.Ref
	State  State
	Lang   string
}

// Reason is either a pre-written code or free text (Code == Other).
type Reason struct {
	Code     ReasonCode
	FreeText string
}

// IsFreeText reports whether the reason carries user-written text.
func (r Reason) IsFreeText() bool { return r.Code == Other }

// Reporter identifies the user who filed a report.
type Reporter struct {
	UserID      int64
	DisplayName string
	Handle      string
	LanguageTag string
}

// Report is a finalized complaint, built and consumed within a single dispatch.
type Report struct {
	ID        uuid.UUID
	Place     place.Ref
	Reason    Reason
	Reporter  Reporter
	CreatedAt time.Time
}

// EventKind enumerates inbound event shapes.
type EventKind int

const (
	EventStart EventKind = iota + 1
	EventStartEmpty
	EventReason
	EventText
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start_payload"
	case EventStartEmpty:
		return "start"
	case EventReason:
		return "reason"
	case EventText:
		return "text"
	}
	return "unknown"
}

// Event is an inbound user action. Payload is used by EventStart, Code by
// EventReason and Text by EventText.
type Event struct {
	Kind     EventKind
	UserID   int64
	ChatID   int64
	Lang     string
	Payload  string
	Code     ReasonCode
	Text     string
	Reporter Reporter
}

// StartEvent builds EventStart or EventStartEmpty depending on payload.
func StartEvent(userID int64, lang, payload string) Event {
	if payload == "" {
		return Event{Kind: EventStartEmpty, UserID: userID, Lang: lang}
	}
	return Event{Kind: EventStart, UserID: userID, Lang: lang, Payload: payload}
}

// OutboundKind tells the transport which message it is rendering.
type OutboundKind int

const (
	OutWelcome OutboundKind = iota + 1
	OutReasonMenu
	OutDescribePrompt
	OutThanks
	OutTextAck
	OutDecodeError
	OutDeliveryFailed
	OutAdminReport
)

func (k OutboundKind) String() string {
	switch k {
	case OutWelcome:
		return "welcome"
	case OutReasonMenu:
		return "reason_menu"
	case OutDescribePrompt:
		return "describe_prompt"
	case OutThanks:
		return "thanks"
	case OutTextAck:
		return "text_ack"
	case OutDecodeError:
		return "decode_error"
	case OutDeliveryFailed:
		return "delivery_failed"
	case OutAdminReport:
		return "admin_report"
	}
	return "unknown"
}

// Option is an interactive choice attached to an outbound message.
type Option struct {
	Label string
	Code  ReasonCode
}

// Outbound is a rendered message. Text is already escaped for Mode.
type Outbound struct {
	Recipient int64
	Kind      OutboundKind
	Text      string
	Mode      format.Mode
	Lang      string
	Options   []Option
}
