// internal/phone/phone.go
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const (
	// DefaultCountry is the region leads are assumed to be in when their
	// number carries no country code.
	DefaultCountry = "MX"

	countryCode  = "52"
	mobilePrefix = "521" // country code plus the mobile indicator digit

	// ChannelSuffix is the fixed domain WhatsApp expects on user addresses.
	ChannelSuffix = "@s.whatsapp.net"
)

// Digits strips everything but 0-9 from s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ToE164 converts arbitrary phone input into E.164. It first tries a strict
// parse against country (library-validated); when that fails it falls through
// a fixed heuristic chain over the bare digits. The chain's order matters:
// the 521-prefix check must run before the 52-prefix check. It never returns
// an error; garbage in yields a best-effort "+digits" out.
func ToE164(raw, country string) string {
	if country == "" {
		country = DefaultCountry
	}
	digits := Digits(raw)
	if digits == "" {
		return ""
	}

	if num, err := phonenumbers.Parse(raw, country); err == nil && phonenumbers.IsValidNumber(num) {
		return phonenumbers.Format(num, phonenumbers.E164)
	}

	switch {
	case len(digits) == 10:
		return "+" + countryCode + digits
	case len(digits) >= 11 && len(digits) <= 15 && strings.HasPrefix(digits, mobilePrefix):
		return "+" + digits
	case len(digits) >= 11 && len(digits) <= 15 && strings.HasPrefix(digits, countryCode):
		return "+" + digits
	}
	return "+" + digits
}

// NormalizeForWA rewrites a number into the 13-digit mobile-prefixed form
// WhatsApp routes on. A 12-digit 52-prefixed number gets the mobile indicator
// inserted; a bare 10-digit number gets the full 521 prefix. Anything else is
// passed through, which makes the function idempotent on already-normalized
// input.
func NormalizeForWA(phone string) string {
	digits := Digits(phone)
	if len(digits) == 12 && strings.HasPrefix(digits, countryCode) && !strings.HasPrefix(digits, mobilePrefix) {
		return mobilePrefix + digits[len(countryCode):]
	}
	if len(digits) == 10 {
		return mobilePrefix + digits
	}
	return digits
}

// ToChannelAddress turns an E.164 number into a WhatsApp JID string.
func ToChannelAddress(e164 string) string {
	return NormalizeForWA(Digits(e164)) + ChannelSuffix
}
