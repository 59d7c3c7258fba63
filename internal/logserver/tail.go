package logserver

import (
	"bufio"
	"os"
	"strings"
)

const maxLineSize = 1024 * 1024

// tail returns the last n lines of the file containing marker, oldest first.
// An empty marker keeps every line.
func tail(path string, n int, marker string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if n <= 0 {
		return nil, nil
	}
	// The ring grows with the matches, so a large n costs nothing up front.
	var ring []string
	count := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" || (marker != "" && !strings.Contains(line, marker)) {
			continue
		}
		if len(ring) < n {
			ring = append(ring, line)
		} else {
			ring[count%n] = line
		}
		count++
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if count <= n {
		return ring, nil
	}
	start := count % n
	out := make([]string, 0, n)
	out = append(out, ring[start:]...)
	return append(out, ring[:start]...), nil
}
