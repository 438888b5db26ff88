package helpers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/reportbot/core/telegram/format"
	"github.com/m3rciful/reportbot/core/telegram/sender"
)

type fakeBot struct {
	to   tele.Recipient
	text string
	opts []interface{}
	err  error
}

func (b *fakeBot) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	b.to = to
	b.text, _ = what.(string)
	b.opts = opts
	if b.err != nil {
		return nil, b.err
	}
	return &tele.Message{}, nil
}

func TestSendToInline(t *testing.T) {
	SetDispatcher(nil)
	bot := &fakeBot{}
	require.NoError(t, SendTo(context.Background(), bot, 77, "<b>hi</b>", format.ModeHTML))
	assert.Equal(t, "77", bot.to.Recipient())
	assert.Equal(t, "<b>hi</b>", bot.text)
	require.Len(t, bot.opts, 1)
	opts, ok := bot.opts[0].(*tele.SendOptions)
	require.True(t, ok)
	assert.Equal(t, tele.ModeHTML, opts.ParseMode)
}

func TestSendToThroughDispatcher(t *testing.T) {
	defer goleak.VerifyNone(t)
	d := sender.NewDispatcher(sender.Options{Workers: 1})
	SetDispatcher(d)
	defer func() {
		SetDispatcher(nil)
		d.Close()
	}()

	bot := &fakeBot{err: errors.New("telegram: Forbidden: bot was blocked by the user (403)")}
	err := SendTo(context.Background(), bot, 5, "x", format.ModePlain)
	var serr *sender.Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "http_4xx", serr.Kind)
}

func TestUserIdentity(t *testing.T) {
	u := &tele.User{FirstName: " Anna ", LastName: "Bērziņa", Username: "anna", LanguageCode: "lv"}
	assert.Equal(t, "Anna Bērziņa", DisplayName(u))
	assert.Equal(t, "anna", Handle(u))
	assert.Equal(t, "lv", LanguageTag(u))
	assert.Equal(t, "Solo", DisplayName(&tele.User{FirstName: "Solo"}))
	assert.Empty(t, DisplayName(nil))
	assert.Empty(t, Handle(nil))
}

func TestBuildContextFromCallback(t *testing.T) {
	c := (&tele.Bot{}).NewContext(tele.Update{ID: 5, Callback: &tele.Callback{
		Sender:  &tele.User{ID: 9},
		Message: &tele.Message{Chat: &tele.Chat{ID: 11}},
	}})

	userID, chatID := Participants(c)
	assert.EqualValues(t, 9, userID)
	assert.EqualValues(t, 11, chatID)

	ctx := BuildContext(c)
	assert.Equal(t, "5:11:9", c.Get(RIDKey))
	assert.Same(t, ctx, BuildContext(c))

	ctx = WithHandler(c, "callback.report")
	cached, ok := ContextFrom(c)
	require.True(t, ok)
	assert.Equal(t, ctx, cached)
}
