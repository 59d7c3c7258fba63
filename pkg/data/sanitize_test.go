package data

import (
	"github.com/stretchr/testify/require"
	"testing"
)

func TestSanitizeLog(t *testing.T) {
	in := "\x1b[32mINFO\x1b[0m io.a2a started\r\nsecond\tline\x07\n"
	require.Equal(t, "INFO io.a2a started\nsecond    line\n", SanitizeLog(in))
}

func TestLines(t *testing.T) {
	require.Nil(t, Lines(""))
	require.Equal(t, []string{"a", "b"}, Lines("a\nb\n"))
	require.Equal(t, []string{"a", "", "b"}, Lines("a\n\nb"))
}
