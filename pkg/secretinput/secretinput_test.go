package secretinput

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticServesInOrder(t *testing.T) {
	src := NewStatic("first", "second")

	got, err := src.ReadSecret("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	got, err = src.ReadSecretConfirmed("Password: ", "Confirm: ")
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestStaticExhausted(t *testing.T) {
	src := NewStatic("only")

	_, err := src.ReadSecret("Password: ")
	require.NoError(t, err)

	_, err = src.ReadSecret("Password: ")
	assert.Error(t, err)
}

func TestStaticEmptyValueIsServed(t *testing.T) {
	src := NewStatic("")

	got, err := src.ReadSecret("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}
