package validation

import (
	"errors"
	"strings"
)

// ValidateTopic validates the form's topic field
func ValidateTopic(topic string) error {
	trimmed := strings.TrimSpace(topic)

	if trimmed == "" {
		return errors.New("topic is required")
	}

	if len(trimmed) > 300 {
		return errors.New("topic is too long (max 300 characters)")
	}

	return nil
}
