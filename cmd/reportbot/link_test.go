package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/reportbot/bots/placereport/place"
)

func TestDeepLinkRoundTrip(t *testing.T) {
	link, err := deepLink("@mapreportbot", place.Ref{Name: "Cafe Luna", Address: "Main St 5"})
	require.NoError(t, err)

	prefix := "https://t.me/mapreportbot?start="
	require.True(t, strings.HasPrefix(link, prefix), link)
	token := strings.TrimPrefix(link, prefix)
	assert.NotContains(t, token, "=")

	ref, err := place.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, place.Ref{Name: "Cafe Luna", Address: "Main St 5"}, ref)
}

func TestDeepLinkRejects(t *testing.T) {
	_, err := deepLink("", place.Ref{Name: "x"})
	assert.Error(t, err)

	_, err = deepLink("bot", place.Ref{Name: "  "})
	assert.ErrorIs(t, err, place.ErrEmptyName)

	_, err = deepLink("bot", place.Ref{Name: "a|b"})
	assert.Error(t, err)

	_, err = deepLink("bot", place.Ref{Name: strings.Repeat("n", 60)})
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, out.String(), "dev")
}
