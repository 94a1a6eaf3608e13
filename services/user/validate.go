package user

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

func validateFullName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < 2 || utf8.RuneCountInString(name) > 255 {
		return ValidationError{Field: "full_name", Msg: "must be between 2 and 255 characters"}
	}
	return nil
}

func validateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < 3 || n > 100 {
		return ValidationError{Field: "username", Msg: "must be between 3 and 100 characters"}
	}
	for _, r := range username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return ValidationError{Field: "username", Msg: "must contain only letters and digits"}
		}
	}
	return nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < 8 {
		return ValidationError{Field: "password", Msg: "must be at least 8 characters long"}
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return ValidationError{Field: "password", Msg: "must contain at least one letter and one digit"}
	}
	return nil
}

func validateSpecialization(spec string) error {
	for _, r := range spec {
		if !unicode.IsLetter(r) {
			return ValidationError{Field: "specialization", Msg: "must contain only letters"}
		}
	}
	return nil
}
