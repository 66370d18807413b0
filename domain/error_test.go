package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "cat", KindCat.String())
	assert.Equal(t, "audio", KindAudio.String())
}

func TestWrapUnwraps(t *testing.T) {
	inner := errors.New("boom")
	wrapped := Wrap(KindSerial, "writing bytes", inner)

	assert.ErrorIs(t, wrapped, inner)
	assert.Contains(t, wrapped.Error(), "serial error")
	assert.Contains(t, wrapped.Error(), "boom")
}

func TestNewErrorFormats(t *testing.T) {
	err := NewError(KindCat, "radio NAK for %s", "FA;")
	assert.Equal(t, "cat error: radio NAK for FA;", err.Error())
}
