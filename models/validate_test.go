package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	name, err := NormalizeName("  Alpha  ")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", name)

	_, err = NormalizeName("   ")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = NormalizeName(strings.Repeat("a", MaxNameLength))
	assert.NoError(t, err)
	_, err = NormalizeName(strings.Repeat("a", MaxNameLength+1))
	assert.ErrorIs(t, err, ErrInvalidName)

	// Length counts characters, not bytes.
	_, err = NormalizeName(strings.Repeat("ñ", MaxNameLength))
	assert.NoError(t, err)
}

func TestValidateMembers(t *testing.T) {
	assert.NoError(t, ValidateMembers(MinMembers))
	assert.NoError(t, ValidateMembers(MaxMembers))
	assert.ErrorIs(t, ValidateMembers(0), ErrInvalidMembers)
	assert.ErrorIs(t, ValidateMembers(MaxMembers+1), ErrInvalidMembers)
}

func TestNormalizeContact(t *testing.T) {
	contact, err := NormalizeContact("")
	require.NoError(t, err)
	assert.Empty(t, contact)

	_, err = NormalizeContact(strings.Repeat("x", MaxContactLength+1))
	assert.ErrorIs(t, err, ErrInvalidContact)
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID("6f1c9a52-3b7e-4d51-9f0a-2c8e7b1d4a90"))

	err := ValidateID("nope")
	assert.ErrorIs(t, err, ErrInvalidID)
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, KindValidation, e.Kind)
	assert.Contains(t, e.Message, "nope")
}

func TestErrorMatchesByCode(t *testing.T) {
	detailed := ErrQueueFull.WithMessage("the queue is full (10 teams)")
	assert.ErrorIs(t, detailed, ErrQueueFull)
	assert.NotErrorIs(t, detailed, ErrCourtClosed)
	assert.Equal(t, "queue_full: the queue is full (10 teams)", detailed.Error())
}
