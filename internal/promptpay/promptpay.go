// Package promptpay builds EMV Merchant-Presented-Mode QR payloads for Thai
// PromptPay transfers. The output is the plain payload string; rendering it as
// a QR image is the caller's job.
package promptpay

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidID indicates the merchant identifier is neither a 13-digit
// national ID nor a normalizable Thai phone number.
var ErrInvalidID = errors.New("promptpay: invalid merchant identifier")

// Identifier tags defined by the PromptPay application template.
const (
	TagPhone      = "01"
	TagNationalID = "02"
)

// applicationID is the PromptPay AID placed in the merchant account template.
const applicationID = "A000000677010111"

// Truncation limits for merchant metadata (EMVCo field lengths).
const (
	MaxMerchantName = 25
	MaxMerchantCity = 15
)

const (
	defaultMerchantName = "Merchant"
	defaultMerchantCity = "Bangkok"
)

// ID is a normalized PromptPay identifier.
type ID struct {
	Tag   string
	Value string
}

// Normalize converts a raw merchant identifier into its PromptPay form.
// Non-digit separators are stripped first. A 13-digit string is taken as a
// national ID; anything else is treated as a phone number and rewritten to the
// international 0066 form. Inputs matching neither shape return ErrInvalidID.
func Normalize(raw string) (ID, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	// A normalized phone value is itself 13 digits starting with 0066; it must
	// keep resolving to the phone tag so normalization stays idempotent.
	if len(digits) == 13 && !strings.HasPrefix(digits, "0066") {
		return ID{Tag: TagNationalID, Value: digits}, nil
	}

	phone := digits
	switch {
	case strings.HasPrefix(phone, "0066"):
		// already international
	case strings.HasPrefix(phone, "66"):
		phone = "00" + phone
	case len(phone) == 10 && strings.HasPrefix(phone, "0"):
		phone = "0066" + phone[1:]
	case len(phone) == 9:
		phone = "0066" + phone
	}

	if !strings.HasPrefix(phone, "0066") {
		return ID{}, ErrInvalidID
	}
	return ID{Tag: TagPhone, Value: phone}, nil
}

// Payment describes one charge to encode.
type Payment struct {
	PromptPayID  string
	Amount       decimal.Decimal
	MerchantName string
	MerchantCity string
}

// Build encodes a payment as an EMV-QR payload string, or returns ErrInvalidID
// when the merchant identifier cannot be normalized. The same input always
// produces the same output. Amount validation is the caller's responsibility;
// it is only formatted to two decimal places here.
//
// The trailing checksum is computed over raw bytes including the "6304"
// tag-length prefix. Merchant name and city are truncated but not restricted
// to ASCII; non-ASCII metadata widens the byte count the CRC covers.
func Build(p Payment) (string, error) {
	id, err := Normalize(p.PromptPayID)
	if err != nil {
		return "", err
	}

	name := p.MerchantName
	if name == "" {
		name = defaultMerchantName
	}
	city := p.MerchantCity
	if city == "" {
		city = defaultMerchantCity
	}

	account := tlv("00", applicationID) + tlv(id.Tag, id.Value)

	var sb strings.Builder
	sb.WriteString(tlv("00", "01")) // payload format indicator
	sb.WriteString(tlv("01", "12")) // point of initiation: dynamic
	sb.WriteString(tlv("29", account))
	sb.WriteString(tlv("52", "0000")) // merchant category code, unset
	sb.WriteString(tlv("53", "764"))  // THB
	sb.WriteString(tlv("54", p.Amount.StringFixed(2)))
	sb.WriteString(tlv("58", "TH"))
	sb.WriteString(tlv("59", truncate(name, MaxMerchantName)))
	sb.WriteString(tlv("60", truncate(city, MaxMerchantCity)))
	sb.WriteString("6304")

	payload := sb.String()
	return payload + fmt.Sprintf("%04X", Checksum([]byte(payload))), nil
}

// Verify reports whether the payload's trailing 4 hex digits match the
// CRC-16 of everything before them.
func Verify(payload string) bool {
	if len(payload) < 8 {
		return false
	}
	body := payload[:len(payload)-4]
	if !strings.HasSuffix(body, "6304") {
		return false
	}
	want := fmt.Sprintf("%04X", Checksum([]byte(body)))
	return strings.EqualFold(payload[len(payload)-4:], want)
}

// tlv serializes one tag-length-value field. Length is the value's byte
// count, zero-padded to two digits.
func tlv(tag, value string) string {
	return fmt.Sprintf("%s%02d%s", tag, len(value), value)
}

// truncate cuts s to at most n characters. Counting runes rather than bytes
// keeps a long Thai merchant name from being severed mid-character.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
