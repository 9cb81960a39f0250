package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestMintToken(t *testing.T) {
	out, err := runCmd(t, "mint-token", "--secret", "test-secret", "--subject", "alice")
	require.NoError(t, err)

	tok, err := jwt.Parse(strings.TrimSpace(out), func(_ *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)

	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, "alice", claims["sub"])
}

func TestMintToken_RequiresSubject(t *testing.T) {
	_, err := runCmd(t, "mint-token", "--secret", "test-secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subject")
}

func TestMigrate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "meta.sqlite")
	out, err := runCmd(t, "migrate", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "migrations applied")

	// Rerunning is a no-op, not an error.
	_, err = runCmd(t, "migrate", "--db", dbPath)
	require.NoError(t, err)
}
