// Package validators contains validators found throughout the application
// that have been abstracted away from the main code
package validators

import (
	"errors"
	"regexp"
)

var (
	ErrUsernameEmpty    = errors.New("no username provided")
	ErrUsernameTooShort = errors.New("username must be at least 2 characters long")
	ErrUsernameTooLong  = errors.New("username can't be longer than 20 characters")
	ErrUsernameInvalid  = errors.New("username can only contain letters, numbers and underscores")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// UsernameValidator applies the same shape rules at registration and
// at the availability check, so the two can never disagree.
func UsernameValidator(u string) error {
	if u == "" {
		return ErrUsernameEmpty
	}

	if len(u) < 2 {
		return ErrUsernameTooShort
	}

	if len(u) > 20 {
		return ErrUsernameTooLong
	}

	if !usernamePattern.MatchString(u) {
		return ErrUsernameInvalid
	}

	return nil
}
