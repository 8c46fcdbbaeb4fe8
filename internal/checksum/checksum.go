// Package checksum computes the modulo-10 check digit of TLE element lines.
package checksum

import "strings"

// lineLength is the column count of a TLE element line; the check digit is
// the last column.
const lineLength = 69

// Line returns the check digit of the first 68 columns of line: digits count
// at face value, a minus sign counts as one, everything else as zero.
func Line(line string) int {
	body := line
	if len(body) > lineLength-1 {
		body = body[:lineLength-1]
	}
	sum := 0
	for _, c := range body {
		switch {
		case c >= '0' && c <= '9':
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	return sum % 10
}

// Verify reports whether the trailing check digit of line matches Line.
// Lines shorter than a full element line never verify.
func Verify(line string) bool {
	line = strings.TrimRight(line, " \r\n")
	if len(line) != lineLength {
		return false
	}
	last := line[lineLength-1]
	if last < '0' || last > '9' {
		return false
	}
	return int(last-'0') == Line(line)
}
