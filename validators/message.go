package validators

import (
	"errors"
	"strings"
)

var (
	ErrMessageEmpty   = errors.New("message content can't be empty")
	ErrMessageTooLong = errors.New("message content can't be longer than 1000 characters")
)

func MessageValidator(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrMessageEmpty
	}

	if len(content) > 1000 {
		return ErrMessageTooLong
	}

	return nil
}
