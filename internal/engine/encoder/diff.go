package encoder

import (
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	diffFileName = "code"
	noNewline    = `\ No newline at end of file`
)

var diffSeparator = strings.Repeat("=", 67)

// Diff returns a zero-context unified diff turning base into contents.
// Identical inputs yield "".
func Diff(base, contents string) string {
	if base == contents {
		return ""
	}

	a, b := splitLines(base), splitLines(contents)
	matcher := difflib.NewMatcherWithJunk(a, b, false, nil)

	var sb strings.Builder
	sb.WriteString("Index: " + diffFileName + "\n")
	sb.WriteString(diffSeparator + "\n")
	sb.WriteString("--- " + diffFileName + "\t\n")
	sb.WriteString("+++ " + diffFileName + "\t\n")

	for _, group := range matcher.GetGroupedOpCodes(0) {
		first, last := group[0], group[len(group)-1]
		sb.WriteString("@@ -" + hunkRange(first.I1, last.I2) + " +" + hunkRange(first.J1, last.J2) + " @@\n")
		for _, op := range group {
			switch op.Tag {
			case 'r', 'd':
				writeLines(&sb, '-', a[op.I1:op.I2])
			}
			switch op.Tag {
			case 'r', 'i':
				writeLines(&sb, '+', b[op.J1:op.J2])
			}
		}
	}

	return sb.String()
}

// hunkRange formats a range the way unified diffs do, where an empty range
// starts one line before its insertion point.
func hunkRange(start, end int) string {
	length := end - start
	if length > 0 {
		start++
	}
	return strconv.Itoa(start) + "," + strconv.Itoa(length)
}

func writeLines(sb *strings.Builder, prefix byte, lines []string) {
	for _, line := range lines {
		sb.WriteByte(prefix)
		if text, ok := strings.CutSuffix(line, "\n"); ok {
			sb.WriteString(text + "\n")
			continue
		}
		sb.WriteString(line + "\n" + noNewline + "\n")
	}
}

// splitLines splits s after every newline. The final line keeps no terminator
// when s does not end with one.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
