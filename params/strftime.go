package params

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// The date format parameters use strftime(3) notation, which is what the
// collector's configuration files have always contained.  Rather than
// translating to a single Go layout string (fragile: literal text can
// collide with Go's reference-date tokens), each specifier is formatted on
// its own.
var strftimeLayouts = map[byte]string{
	'a': "Mon",
	'A': "Monday",
	'b': "Jan",
	'B': "January",
	'c': "Mon Jan  2 15:04:05 2006",
	'd': "02",
	'D': "01/02/06",
	'e': "_2",
	'F': "2006-01-02",
	'H': "15",
	'I': "03",
	'm': "01",
	'M': "04",
	'p': "PM",
	'r': "03:04:05 PM",
	'R': "15:04",
	'S': "05",
	'T': "15:04:05",
	'x': "01/02/06",
	'X': "15:04:05",
	'y': "06",
	'Y': "2006",
	'z': "-0700",
	'Z': "MST",
}

// FormatTime renders t according to an strftime-style format.  %s (Unix
// seconds) and %j (day of year) have no Go layout and are computed; an
// unknown specifier is passed through literally, which is also what a
// best-effort strftime does.
func FormatTime(t time.Time, format string) string {
	var sb strings.Builder
	for i := 0; i < len(format); i++ {
		if format[i] != '%' || i+1 == len(format) {
			sb.WriteByte(format[i])
			continue
		}
		i++
		switch c := format[i]; c {
		case '%':
			sb.WriteByte('%')
		case 's':
			sb.WriteString(strconv.FormatInt(t.Unix(), 10))
		case 'j':
			sb.WriteString(fmt.Sprintf("%03d", t.YearDay()))
		default:
			if layout, found := strftimeLayouts[c]; found {
				sb.WriteString(t.Format(layout))
			} else {
				sb.WriteByte('%')
				sb.WriteByte(c)
			}
		}
	}
	return sb.String()
}
