package parser

import (
	"bufio"
	"io"
	"strings"
)

// TextExtractor handles plain text reports. Line endings are normalized,
// trailing whitespace is dropped and runs of blank lines collapse to one.
type TextExtractor struct{}

func (e *TextExtractor) Extract(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var sb strings.Builder
	blank := false
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" {
			blank = sb.Len() > 0
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
			if blank {
				sb.WriteByte('\n')
			}
		}
		blank = false
		sb.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
