package present

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mungbai/rangecat/pkg/rangecat"
	"github.com/mungbai/rangecat/pkg/rangecat/errors"
)

var rtfPrinter = message.NewPrinter(language.English)

// WriteRTF renders records as a minimal RTF 1.x document: a Courier New
// font table, a title line naming the range, a blank separator line,
// and one paragraph per record in the same "N: L1, L2" shape the
// console uses.
func WriteRTF(w io.Writer, min, max int64, records []rangecat.Record) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("{\\rtf1\\ansi\\deff0\n")
	bw.WriteString("{\\fonttbl{\\f0\\fnil\\fcharset0 Courier New;}}\n")
	bw.WriteString("\\f0\\fs20\n")

	header := rtfPrinter.Sprintf("Number Analysis (%d to %d)", min, max)
	fmt.Fprintf(bw, "%s\\par\n", escapeRTF(header))
	bw.WriteString("\\par\n")

	for _, record := range records {
		line := rtfPrinter.Sprintf("%d: ", record.Number) + strings.Join(record.Labels, ", ")
		fmt.Fprintf(bw, "%s\\par\n", escapeRTF(line))
	}

	bw.WriteString("}")

	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrOutputWrite, "failed to write RTF document")
	}
	return nil
}

// escapeRTF protects the RTF control characters and encodes anything
// outside ASCII as \uN? escapes. \uN takes a signed 16-bit value;
// code points beyond the BMP become a surrogate pair.
func escapeRTF(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == '{':
			b.WriteString(`\{`)
		case r == '}':
			b.WriteString(`\}`)
		case r > 0xFFFF:
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&b, `\u%d?\u%d?`, int16(hi), int16(lo))
		case r > 0x7F:
			fmt.Fprintf(&b, `\u%d?`, int16(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
