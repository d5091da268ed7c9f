package utils

import (
	"fmt"
	"net/mail"
	"strings"
)

// MinPaymentAmount is the gateway's minimum accepted amount in rupees.
const MinPaymentAmount = 9

// ValidateAmount enforces the gateway minimum.
func ValidateAmount(amount int64) error {
	if amount < MinPaymentAmount {
		return fmt.Errorf("amount must be at least ₹%d", MinPaymentAmount)
	}
	return nil
}

// ValidateEmail checks the address parses as a single RFC 5322 address.
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// NormalizePhone strips formatting characters and requires exactly 10
// digits. Returns the normalized number.
func NormalizePhone(phone string) (string, error) {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	n := digits.String()
	if len(n) != 10 {
		return "", fmt.Errorf("phone number must have exactly 10 digits")
	}
	return n, nil
}
