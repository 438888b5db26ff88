// Package place decodes the deep-link start payload that identifies a place.
//
// The payload is URL-safe base64 of the UTF-8 bytes of "name" or
// "name|address". Link generators may strip the trailing '=' padding.
package place

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Delimiter separates the place name from its address inside the payload.
const Delimiter = "|"

var (
	ErrInvalidEncoding = errors.New("invalid base64url encoding")
	ErrInvalidUTF8     = errors.New("payload is not valid UTF-8")
	ErrNotText         = errors.New("payload contains control characters")
	ErrEmptyName       = errors.New("payload has an empty place name")
)

// Ref identifies the place a report is about. Address may be empty.
type Ref struct {
	Name    string
	Address string
}

// Display renders the place as "name (address)", or just the name.
func (r Ref) Display() string {
	if r.Address == "" {
		return r.Name
	}
	return r.Name + " (" + r.Address + ")"
}

// DecodeError reports why a raw payload was rejected.
type DecodeError struct {
	Raw string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode place payload %q: %v", e.Raw, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode parses a deep-link payload. Every failure is returned as *DecodeError.
func Decode(raw string) (Ref, error) {
	fail := func(err error) (Ref, error) {
		return Ref{}, &DecodeError{Raw: raw, Err: err}
	}

	token := strings.TrimSpace(raw)
	if token == "" {
		return fail(ErrEmptyName)
	}
	if rem := len(token) % 4; rem != 0 {
		if rem == 1 {
			return fail(ErrInvalidEncoding)
		}
		token += strings.Repeat("=", 4-rem)
	}
	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrInvalidEncoding, err))
	}
	if !utf8.Valid(data) {
		return fail(ErrInvalidUTF8)
	}
	text := string(data)
	if strings.IndexFunc(text, unicode.IsControl) >= 0 {
		return fail(ErrNotText)
	}

	name, address, _ := strings.Cut(text, Delimiter)
	if name == "" {
		return fail(ErrEmptyName)
	}
	return Ref{Name: name, Address: address}, nil
}

// Encode produces the padding-stripped payload for ref.
func Encode(ref Ref) string {
	text := ref.Name
	if ref.Address != "" {
		text += Delimiter + ref.Address
	}
	return base64.RawURLEncoding.EncodeToString([]byte(text))
}
