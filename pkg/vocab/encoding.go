package vocab

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var ErrUnknownEncoding = errors.New("unknown encoding")

// Encoding names the character encoding of a word file.
type Encoding string

const (
	UTF8        Encoding = "utf-8"
	Latin1      Encoding = "latin1"
	Windows1252 Encoding = "windows-1252"
)

// ParseEncoding accepts the encoding names and their common aliases.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf-8", "utf8":
		return UTF8, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return Latin1, nil
	case "windows-1252", "cp1252":
		return Windows1252, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, s)
}

func (enc Encoding) encoding() encoding.Encoding {
	switch enc {
	case Latin1:
		return charmap.ISO8859_1
	case Windows1252:
		return charmap.Windows1252
	default:
		// strips a leading byte order mark
		return unicode.UTF8BOM
	}
}

// Reader decodes r into UTF-8.
func (enc Encoding) Reader(r io.Reader) io.Reader {
	return transform.NewReader(r, enc.encoding().NewDecoder())
}
