package place

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeScenarios(t *testing.T) {
	ref, err := Decode("UGxhY2U=")
	require.NoError(t, err)
	assert.Equal(t, Ref{Name: "Place"}, ref)

	ref, err = Decode("UGxhY2U")
	require.NoError(t, err)
	assert.Equal(t, Ref{Name: "Place"}, ref)

	token := base64.RawURLEncoding.EncodeToString([]byte("Cafe|Main St 1"))
	ref, err = Decode(token)
	require.NoError(t, err)
	assert.Equal(t, Ref{Name: "Cafe", Address: "Main St 1"}, ref)
	assert.Equal(t, "Cafe (Main St 1)", ref.Display())
}

func TestDecodeSplitsOnFirstDelimiter(t *testing.T) {
	ref, err := Decode(Encode(Ref{Name: "Bar", Address: "Street 5|back door"}))
	require.NoError(t, err)
	assert.Equal(t, "Bar", ref.Name)
	assert.Equal(t, "Street 5|back door", ref.Address)
}

func TestRoundTrip(t *testing.T) {
	refs := []Ref{
		{Name: "P"},
		{Name: "Pl"},
		{Name: "Pla"},
		{Name: "Кафе Ромашка", Address: "Brīvības iela 1"},
		{Name: "Dog-friendly 🐕", Address: "Rīga"},
		{Name: "<b>bold</b> & co", Address: "a/b?c=d"},
	}
	for _, want := range refs {
		token := Encode(want)
		assert.NotContains(t, token, "=")

		got, err := Decode(token)
		require.NoError(t, err, token)
		assert.Equal(t, want, got)

		padded := base64.URLEncoding.EncodeToString([]byte(want.Name + func() string {
			if want.Address == "" {
				return ""
			}
			return Delimiter + want.Address
		}()))
		got, err = Decode(padded)
		require.NoError(t, err, padded)
		assert.Equal(t, want, got)
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"empty", "", ErrEmptyName},
		{"bad alphabet", "!!!!", ErrInvalidEncoding},
		{"std alphabet", "+/+/", ErrInvalidEncoding},
		{"impossible length", "UGxhY", ErrInvalidEncoding},
		{"invalid utf8", base64.RawURLEncoding.EncodeToString([]byte{0xff, 0xfe, 0xfd}), ErrInvalidUTF8},
		{"binary", base64.RawURLEncoding.EncodeToString([]byte("a\x00b")), ErrNotText},
		{"empty name", base64.RawURLEncoding.EncodeToString([]byte("|Main St")), ErrEmptyName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			require.Error(t, err)
			var de *DecodeError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.raw, de.Raw)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
