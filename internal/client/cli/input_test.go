package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func stubPassword(t *testing.T, pw string, err error) {
	t.Helper()
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return []byte(pw), err }
}

func TestReadLine(t *testing.T) {
	var out bytes.Buffer
	got, err := ReadLine(rdr("  alice@x.com \n"), "Email", &out)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", got)
	assert.Equal(t, "Email: ", out.String())

	got, err = ReadLine(rdr("lastline"), "Email", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = ReadLine(rdr(""), "Email", &out)
	assert.Error(t, err)
}

func TestReadMultiline(t *testing.T) {
	var out bytes.Buffer
	got, err := ReadMultiline(rdr("a\nb\n\nignored\n"), "Content", &out)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", got)

	got, err = ReadMultiline(rdr("no newline"), "Content", &out)
	require.NoError(t, err)
	assert.Equal(t, "no newline", got)
}

func TestReadPassword(t *testing.T) {
	stubPassword(t, "hunter22", nil)
	var out bytes.Buffer
	got, err := ReadPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, "hunter22", got)

	stubPassword(t, "", errors.New("boom"))
	_, err = ReadPassword(&out)
	assert.ErrorContains(t, err, "boom")
}
