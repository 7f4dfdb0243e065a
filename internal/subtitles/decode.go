package subtitles

import (
	"bufio"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const maxLineBytes = 1 << 20

// newLineScanner splits r into lines after stripping a byte order mark.
// UTF-16 input is only recognised when it carries a BOM; everything else is
// read as UTF-8.
func newLineScanner(r io.Reader) *bufio.Scanner {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return scanner
}
