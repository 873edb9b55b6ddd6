package mdconv

import "strings"

// line is one line of source text together with its absolute byte range,
// including the trailing newline (if any) in End so concatenation of
// consecutive line ranges reconstructs the original source exactly.
type line struct {
	text  string
	start int
	end   int
}

func splitLines(src string) []line {
	var lines []line
	pos := 0
	for pos <= len(src) {
		nl := strings.IndexByte(src[pos:], '\n')
		if nl < 0 {
			if pos < len(src) {
				lines = append(lines, line{text: src[pos:], start: pos, end: len(src)})
			}
			break
		}
		end := pos + nl + 1
		lines = append(lines, line{text: src[pos : pos+nl], start: pos, end: end})
		pos = end
	}
	return lines
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func leadingSpaces(s string) int {
	n := 0
	for n < len(s) && s[n] == ' ' {
		n++
	}
	return n
}
