package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		mode Mode
		in   string
		want string
	}{
		{ModeHTML, `<b>Cafe & "Bar"</b>`, `&lt;b&gt;Cafe &amp; &#34;Bar&#34;&lt;/b&gt;`},
		{ModeMarkdownV2, "Main St. 1 (rear)!", `Main St\. 1 \(rear\)\!`},
		{ModeMarkdownV2, `a_b*c\d`, `a\_b\*c\\d`},
		{ModePlain, "<i>as is</i>", "<i>as is</i>"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Escape(tt.mode, tt.in), "%s %q", tt.mode, tt.in)
	}
	assert.Equal(t, `\_x\*`, EscapeMarkdownV1("_x*"))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeHTML, m)

	m, err = ParseMode(" MarkdownV2 ")
	require.NoError(t, err)
	assert.Equal(t, ModeMarkdownV2, m)

	_, err = ParseMode("bbcode")
	assert.Error(t, err)
}

func TestMarkupWrappers(t *testing.T) {
	assert.Equal(t, "<b>x</b>", Bold(ModeHTML, "x"))
	assert.Equal(t, "_x_", Italic(ModeMarkdownV2, "x"))
	assert.Equal(t, "x", Bold(ModePlain, "x"))
	assert.Equal(t, tele.ModeHTML, TeleParseMode(ModeHTML))
	assert.Equal(t, tele.ModeDefault, TeleParseMode(ModePlain))
}
