package models

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MaxNameLength    = 50
	MinMembers       = 1
	MaxMembers       = 10
	MaxContactLength = 100
)

// ValidateID rejects ids that are not UUIDs.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID.WithMessage("malformed id %q", id)
	}
	return nil
}

// NormalizeName trims name and checks its length.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < 1 || n > MaxNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}

func ValidateMembers(members int) error {
	if members < MinMembers || members > MaxMembers {
		return ErrInvalidMembers
	}
	return nil
}

// NormalizeContact trims contact info, which may be empty.
func NormalizeContact(contact string) (string, error) {
	contact = strings.TrimSpace(contact)
	if utf8.RuneCountInString(contact) > MaxContactLength {
		return "", ErrInvalidContact
	}
	return contact, nil
}
