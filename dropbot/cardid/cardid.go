// Package cardid builds and validates the human-readable identifiers printed on owned cards.
//
// A synthesized UID is the first four ASCII letters of the card name (uppercased, padded with X),
// followed by the owner's sequence number (3 digits) and the card's edition (2 digits), e.g.
// "ARIA00107". Two names sharing a prefix can produce the same UID for different owners, so the
// store checks uniqueness inside the claim transaction and falls back to WithSuffix.
package cardid

import (
	"errors"
	"fmt"
	"strings"
)

const (
	PrefixLength = 4
	MaxLength    = 10
	padRune      = 'X'
)

var (
	ErrEmpty    = errors.New("uid must not be empty")
	ErrTooLong  = fmt.Errorf("uid must be at most %d characters", MaxLength)
	ErrNotAlnum = errors.New("uid may only contain letters and digits")
)

// Prefix returns the first four ASCII letters of name in upper case.
func Prefix(name string) string {
	var b strings.Builder
	for _, r := range name {
		if b.Len() == PrefixLength {
			break
		}
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		}
	}
	for b.Len() < PrefixLength {
		b.WriteRune(padRune)
	}
	return b.String()
}

// Synthesize is pure: the same inputs always give the same UID.
func Synthesize(name string, sequence, edition int) string {
	return fmt.Sprintf("%s%03d%02d", Prefix(name), sequence, edition)
}

// WithSuffix disambiguates a colliding UID. attempt 1 appends "A", 26 appends "Z", 27 appends "AA".
func WithSuffix(uid string, attempt int) string {
	if attempt <= 0 {
		return uid
	}
	var suffix []byte
	for n := attempt; n > 0; n = (n - 1) / 26 {
		suffix = append([]byte{byte('A' + (n-1)%26)}, suffix...)
	}
	return uid + string(suffix)
}

// Normalize validates a user supplied UID and returns its canonical upper-case form.
func Normalize(raw string) (string, error) {
	uid := strings.ToUpper(strings.TrimSpace(raw))
	if uid == "" {
		return "", ErrEmpty
	}
	if len(uid) > MaxLength {
		return "", ErrTooLong
	}
	for _, r := range uid {
		if !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') {
			return "", ErrNotAlnum
		}
	}
	return uid, nil
}
