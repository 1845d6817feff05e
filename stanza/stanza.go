// Tokenizer for the stanza-based collector format.
//
// The input is line-oriented text.  Here is what we're parsing:
//
//   - a stanza is introduced by a header line `NAME:` with no other content
//     on the line, and its data lines run to the next blank line
//   - within a data line, fields are separated by runs of spaces and tabs
//   - a field that starts with the quote character extends to the next
//     occurrence of the quote character; the quotes are stripped and any
//     embedded whitespace is preserved
//   - the comment character at the start of a field discards it and the
//     rest of the line
//   - a blank or comment-only line yields zero fields, and zero fields is
//     the sentinel for "end of stanza" everywhere in the reader
//
// The same splitter is used for the data files and for the configuration
// overlay file, which is why it lives in its own package.

package stanza

const (
	CommentChar = '#'
	QuoteChar   = '\''
	StanzaTerm  = ':'
)

// Header returns the stanza header line that introduces the named stanza.
func Header(name string) string {
	return name + string(StanzaTerm)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Fields splits one input line into at most max fields.  Fields beyond max
// are silently dropped.  The returned slice has length equal to the number
// of fields found, zero for a blank or comment-only line.
func Fields(line string, max int) []string {
	fields := make([]string, 0, max)
	i := 0
	for i < len(line) && isSpace(line[i]) {
		i++
	}
	for i < len(line) && len(fields) < max {
		if line[i] == CommentChar {
			break
		}
		var field string
		if line[i] == QuoteChar {
			i++
			start := i
			for i < len(line) && line[i] != QuoteChar {
				i++
			}
			field = line[start:i]
			if i < len(line) {
				i++ // closing quote
			}
		} else {
			start := i
			for i < len(line) && !isSpace(line[i]) {
				i++
			}
			field = line[start:i]
		}
		fields = append(fields, field)
		for i < len(line) && isSpace(line[i]) {
			i++
		}
	}
	return fields
}
