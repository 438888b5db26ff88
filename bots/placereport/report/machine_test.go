package report

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/m3rciful/reportbot/bots/placereport/i18n"
	"github.com/m3rciful/reportbot/bots/placereport/place"
	"github.com/m3rciful/reportbot/core/telegram/format"
	"github.com/m3rciful/reportbot/core/telegram/state"
)

const (
	adminID = int64(1000)
	userID  = int64(42)
)

type sentMessage struct {
	to   int64
	text string
	mode format.Mode
}

type captureSender struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (s *captureSender) Send(_ context.Context, to int64, text string, mode format.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMessage{to: to, text: text, mode: mode})
	return nil
}

func (s *captureSender) messages() []sentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentMessage(nil), s.sent...)
}

func newTestMachine(t *testing.T) (*Machine, state.Store[Session], *captureSender) {
	t.Helper()
	store := state.NewMemoryStore[Session]()
	sender := &captureSender{}
	render := NewRenderer(i18n.Builtin(), format.ModeHTML, "ru")
	m := NewMachine(store, render, NewAdminDispatcher(sender, adminID, render))
	m.newID = func() uuid.UUID { return uuid.MustParse("00000000-0000-4000-8000-000000000001") }
	return m, store, sender
}

func startPayload(name, address string) string {
	return place.Encode(place.Ref{Name: name, Address: address})
}

func TestStartWithPayloadOpensSession(t *testing.T) {
	m, store, _ := newTestMachine(t)

	res := m.Handle(context.Background(), StartEvent(userID, "en", startPayload("Cafe", "Main St 1")))
	assert.Equal(t, Idle, res.From)
	assert.Equal(t, AwaitingReason, res.To)
	require.Len(t, res.Messages, 1)
	menu := res.Messages[0]
	assert.Equal(t, OutReasonMenu, menu.Kind)
	assert.Contains(t, menu.Text, "<b>Cafe (Main St 1)</b>")
	require.Len(t, menu.Options, 5)
	assert.Equal(t, Other, menu.Options[4].Code)

	s, ok := store.Get(userID)
	require.True(t, ok)
	assert.Equal(t, AwaitingReason, s.State)
	assert.Equal(t, place.Ref{Name: "Cafe", Address: "Main St 1"}, s.Place)
}

func TestStartWithBrokenPayload(t *testing.T) {
	m, store, _ := newTestMachine(t)

	res := m.Handle(context.Background(), StartEvent(userID, "ru", "!!!!"))
	require.Error(t, res.DecodeErr)
	assert.Equal(t, Idle, res.To)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, OutDecodeError, res.Messages[0].Kind)
	_, ok := store.Get(userID)
	assert.False(t, ok)

	store.Put(userID, Session{UserID: userID, Place: place.Ref{Name: "Park"}, State: AwaitingFreeText, Lang: "en"})
	res = m.Handle(context.Background(), StartEvent(userID, "en", "%%%"))
	require.Error(t, res.DecodeErr)
	assert.Equal(t, AwaitingFreeText, res.To)
	require.Len(t, res.Messages, 2)
	assert.Equal(t, OutDecodeError, res.Messages[0].Kind)
	assert.Equal(t, OutDescribePrompt, res.Messages[1].Kind)
	s, ok := store.Get(userID)
	require.True(t, ok)
	assert.Equal(t, "Park", s.Place.Name)
}

func TestIdleWelcome(t *testing.T) {
	m, store, sender := newTestMachine(t)

	for _, ev := range []Event{
		StartEvent(userID, "en", ""),
		{Kind: EventText, UserID: userID, Lang: "en", Text: "hello"},
	} {
		res := m.Handle(context.Background(), ev)
		assert.False(t, res.NoOp)
		assert.Equal(t, Idle, res.To)
		require.Len(t, res.Messages, 1)
		assert.Equal(t, OutWelcome, res.Messages[0].Kind)
	}
	assert.Zero(t, store.Len())
	assert.Empty(t, sender.messages())
}

func TestReasonSelectedDispatches(t *testing.T) {
	m, store, sender := newTestMachine(t)
	ctx := context.Background()

	m.Handle(ctx, StartEvent(userID, "lv", startPayload("Cafe", "Main St 1")))
	res := m.Handle(ctx, Event{
		Kind:     EventReason,
		UserID:   userID,
		Lang:     "lv",
		Code:     WrongLocation,
		Reporter: Reporter{DisplayName: "Anna Bērziņa", Handle: "anna", LanguageTag: "lv"},
	})

	assert.Equal(t, Idle, res.To)
	require.NotNil(t, res.Report)
	assert.Nil(t, res.DeliveryErr)
	_, ok := store.Get(userID)
	assert.False(t, ok)

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, adminID, msgs[0].to)
	assert.Contains(t, msgs[0].text, "Неверная геолокация")
	assert.NotContains(t, msgs[0].text, "Nepareiza")
	assert.Contains(t, msgs[0].text, "Anna Bērziņa (@anna)")
	assert.Contains(t, msgs[0].text, "Main St 1")

	require.Len(t, res.Messages, 1)
	ack := res.Messages[0]
	assert.Equal(t, OutThanks, ack.Kind)
	assert.Equal(t, userID, ack.Recipient)
	assert.Contains(t, ack.Text, "Paldies")
	assert.Contains(t, ack.Text, "<i>📍 Nepareiza atrašanās vieta</i>")
}

func TestOtherThenFreeText(t *testing.T) {
	m, store, sender := newTestMachine(t)
	ctx := context.Background()

	m.Handle(ctx, StartEvent(userID, "en", startPayload("Dog Park", "")))
	res := m.Handle(ctx, Event{Kind: EventReason, UserID: userID, Lang: "en", Code: Other})
	assert.Equal(t, AwaitingFreeText, res.To)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, OutDescribePrompt, res.Messages[0].Kind)
	assert.Empty(t, sender.messages())

	res = m.Handle(ctx, Event{Kind: EventText, UserID: userID, Lang: "en", Text: "   \n\t"})
	assert.True(t, res.NoOp)
	assert.Equal(t, AwaitingFreeText, res.To)
	assert.Nil(t, res.Report)
	assert.Empty(t, sender.messages())

	res = m.Handle(ctx, Event{Kind: EventText, UserID: userID, Lang: "en", Text: "  gate is <locked>  "})
	require.NotNil(t, res.Report)
	assert.Equal(t, place.Ref{Name: "Dog Park"}, res.Report.Place)
	assert.Equal(t, "gate is <locked>", res.Report.Reason.FreeText)
	assert.True(t, res.Report.Reason.IsFreeText())
	_, ok := store.Get(userID)
	assert.False(t, ok)

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].text, "ЖАЛОБА (ТЕКСТ)")
	assert.Contains(t, msgs[0].text, "gate is &lt;locked&gt;")
	require.Len(t, res.Messages, 1)
	assert.Equal(t, OutTextAck, res.Messages[0].Kind)
}

func TestFreeTextIsNFCNormalized(t *testing.T) {
	m, store, _ := newTestMachine(t)
	store.Put(userID, Session{UserID: userID, Place: place.Ref{Name: "X"}, State: AwaitingFreeText})

	res := m.Handle(context.Background(), Event{Kind: EventText, UserID: userID, Text: "cafe\u0301"})
	require.NotNil(t, res.Report)
	assert.Equal(t, "caf\u00e9", res.Report.Reason.FreeText)
}

func TestUnlistedPairsAreNoOps(t *testing.T) {
	sessions := map[State]Session{
		AwaitingReason:   {UserID: userID, Place: place.Ref{Name: "A"}, State: AwaitingReason, Lang: "en"},
		AwaitingFreeText: {UserID: userID, Place: place.Ref{Name: "A"}, State: AwaitingFreeText, Lang: "en"},
	}
	tests := []struct {
		name  string
		state State
		ev    Event
		want  OutboundKind
	}{
		{"idle reason", Idle, Event{Kind: EventReason, Code: Closed}, OutWelcome},
		{"reason start empty", AwaitingReason, Event{Kind: EventStartEmpty}, OutReasonMenu},
		{"reason text", AwaitingReason, Event{Kind: EventText, Text: "hi"}, OutReasonMenu},
		{"reason unknown code", AwaitingReason, Event{Kind: EventReason, Code: "bogus"}, OutReasonMenu},
		{"free text reason", AwaitingFreeText, Event{Kind: EventReason, Code: Closed}, OutDescribePrompt},
		{"free text start empty", AwaitingFreeText, Event{Kind: EventStartEmpty}, OutDescribePrompt},
		{"unknown kind", AwaitingReason, Event{Kind: EventKind(99)}, OutReasonMenu},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, store, sender := newTestMachine(t)
			if s, ok := sessions[tt.state]; ok {
				store.Put(userID, s)
			}
			tt.ev.UserID = userID
			tt.ev.Lang = "en"

			res := m.Handle(context.Background(), tt.ev)
			assert.True(t, res.NoOp)
			assert.Equal(t, tt.state, res.From)
			assert.Equal(t, tt.state, res.To)
			require.Len(t, res.Messages, 1)
			assert.Equal(t, tt.want, res.Messages[0].Kind)
			assert.Empty(t, sender.messages())

			s, ok := store.Get(userID)
			if tt.state == Idle {
				assert.False(t, ok)
			} else {
				require.True(t, ok)
				assert.Equal(t, sessions[tt.state], s)
			}
		})
	}
}

func TestNewStartReplacesSession(t *testing.T) {
	m, store, _ := newTestMachine(t)
	ctx := context.Background()

	m.Handle(ctx, StartEvent(userID, "en", startPayload("Old", "")))
	m.Handle(ctx, Event{Kind: EventReason, UserID: userID, Code: Other})
	res := m.Handle(ctx, StartEvent(userID, "en", startPayload("New", "Addr")))

	assert.Equal(t, AwaitingFreeText, res.From)
	assert.Equal(t, AwaitingReason, res.To)
	s, ok := store.Get(userID)
	require.True(t, ok)
	assert.Equal(t, place.Ref{Name: "New", Address: "Addr"}, s.Place)
}

func TestDeliveryFailureKeepsSessionClosed(t *testing.T) {
	m, store, sender := newTestMachine(t)
	sender.err = fmt.Errorf("send: %w", context.DeadlineExceeded)
	ctx := context.Background()

	m.Handle(ctx, StartEvent(userID, "en", startPayload("Cafe", "")))
	res := m.Handle(ctx, Event{Kind: EventReason, UserID: userID, Lang: "en", Code: Closed})

	require.NotNil(t, res.DeliveryErr)
	assert.Equal(t, KindTimeout, res.DeliveryErr.Kind)
	assert.Equal(t, res.Report.ID, res.DeliveryErr.ReportID)
	assert.ErrorIs(t, res.DeliveryErr, context.DeadlineExceeded)
	assert.Equal(t, Idle, res.To)
	_, ok := store.Get(userID)
	assert.False(t, ok)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, OutDeliveryFailed, res.Messages[0].Kind)
}

type plainDispatcher struct{ err error }

func (d plainDispatcher) Dispatch(_ context.Context, rep Report) (Outbound, error) {
	return Outbound{Recipient: rep.Reporter.UserID, Kind: OutDeliveryFailed}, d.err
}

func TestDispatchErrorIsWrapped(t *testing.T) {
	store := state.NewMemoryStore[Session]()
	render := NewRenderer(nil, format.ModePlain, "")
	m := NewMachine(store, render, plainDispatcher{err: errors.New("boom")})
	store.Put(userID, Session{UserID: userID, Place: place.Ref{Name: "X"}, State: AwaitingReason})

	res := m.Handle(context.Background(), Event{Kind: EventReason, UserID: userID, Code: WrongInfo})
	require.NotNil(t, res.DeliveryErr)
	assert.Equal(t, KindUnknown, res.DeliveryErr.Kind)
	assert.EqualError(t, res.DeliveryErr.Err, "boom")
}

func TestConcurrentUsers(t *testing.T) {
	defer goleak.VerifyNone(t)

	m, store, sender := newTestMachine(t)
	const users = 64
	var wg sync.WaitGroup
	for i := range users {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			ctx := context.Background()
			m.Handle(ctx, StartEvent(uid, "en", startPayload(fmt.Sprintf("P%d", uid), "")))
			m.Handle(ctx, Event{Kind: EventReason, UserID: uid, Code: Other})
			m.Handle(ctx, Event{Kind: EventText, UserID: uid, Text: "broken"})
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Zero(t, store.Len())
	assert.Len(t, sender.messages(), users)
}
