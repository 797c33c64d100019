package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func runRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := rootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestHashPassword_FromArgument(t *testing.T) {
	out, err := runRoot(t, "", "hash-password", "correct horse")
	require.NoError(t, err)

	hashed := strings.TrimSpace(out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashed), []byte("correct horse")))
}

func TestHashPassword_FromStdin(t *testing.T) {
	out, err := runRoot(t, "battery staple\n", "hash-password")
	require.NoError(t, err)

	hashed := strings.TrimSpace(out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashed), []byte("battery staple")))
}

func TestHashPassword_RejectsEmpty(t *testing.T) {
	_, err := runRoot(t, "\n", "hash-password")
	assert.Error(t, err)
}

func TestMigrate_RejectsUnknownDirection(t *testing.T) {
	_, err := runRoot(t, "", "migrate", "sideways")
	assert.Error(t, err)
}
