package data

import (
	"regexp"
	"strings"
)

var (
	ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)
	control    = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
)

// SanitizeLog strips terminal escape sequences and control characters from
// log text so it can be laid out in a panel. Newlines and tabs survive, CRLF
// becomes LF.
func SanitizeLog(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = ansiEscape.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "\r", "")
	text = control.ReplaceAllString(text, "")
	return strings.ReplaceAll(text, "\t", "    ")
}

// Lines splits sanitized log text into lines, dropping one trailing empty line.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
