package validation

import (
	"errors"
	"net/mail"
)

// ValidateEmail checks a bare address as typed into the form. Display
// names ("Jo <jo@x.com>") are rejected since they would leak into the
// checkout session and the Resend recipient.
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email address is required")
	}
	// RFC 5321 total length cap
	if len(email) > 254 {
		return errors.New("email address is too long (max 254 characters)")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("invalid email address format")
	}

	return nil
}
