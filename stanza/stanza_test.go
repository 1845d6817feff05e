package stanza

import (
	"strings"
	"testing"
)

func checkFields(t *testing.T, line string, max int, expect ...string) {
	t.Helper()
	fields := Fields(line, max)
	if len(fields) != len(expect) {
		t.Fatalf("Line '%s': expected %d fields, got %d: %v", line, len(expect), len(fields), fields)
	}
	for i, e := range expect {
		if fields[i] != e {
			t.Fatalf("Line '%s' field %d: expected '%s', got '%s'", line, i, e, fields[i])
		}
	}
}

// This tests:
//  - leading and embedded whitespace runs
//  - comments, also comment-only and blank lines
//  - quoted fields with embedded whitespace
//  - the max-fields cutoff

func TestFields(t *testing.T) {
	checkFields(t, "cpu_us cpu_sy cpu_id", 8, "cpu_us", "cpu_sy", "cpu_id")
	checkFields(t, "   12.5\t 3  \t 99.9", 8, "12.5", "3", "99.9")
	checkFields(t, "sda 17 0 # trailing comment", 8, "sda", "17", "0")
	checkFields(t, "# only a comment", 8)
	checkFields(t, "", 8)
	checkFields(t, "    \t  ", 8)
	checkFields(t, "'a name with spaces' 42", 8, "a name with spaces", "42")
	checkFields(t, "x 'y z' w", 8, "x", "y z", "w")
	checkFields(t, "a b c d e", 3, "a", "b", "c")
	checkFields(t, "'unterminated quote", 8, "unterminated quote")
}

func TestFieldsMaxCount(t *testing.T) {
	// Two fields wanted, extras treated as a trailing comment.
	checkFields(t, "288 300 # count interval", 2, "288", "300")
	checkFields(t, "288 300 301 302", 2, "288", "300")
}

func TestLineScanner(t *testing.T) {
	text := `junk before
TIME_VALUES:
288 300

DATE:
1650000000
`
	ls := NewLineScanner(strings.NewReader(text))
	if !ls.SkipTo("TIME_VALUES:") {
		t.Fatal("TIME_VALUES: not found")
	}
	if ls.Lineno() != 2 {
		t.Fatalf("Expected line 2, got %d", ls.Lineno())
	}
	line, ok := ls.Next()
	if !ok || line != "288 300" {
		t.Fatalf("Unexpected line '%s'", line)
	}
	if !ls.SkipTo(Header("DATE")) {
		t.Fatal("DATE: not found")
	}
	line, ok = ls.Next()
	if !ok || line != "1650000000" {
		t.Fatalf("Unexpected line '%s'", line)
	}
	if ls.SkipTo("NOSUCH:") {
		t.Fatal("Found a stanza that is not there")
	}
}
