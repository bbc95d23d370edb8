package vocab

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

var ErrUnknownFormat = errors.New("unknown vocabulary format")

// Format is an on-disk vocabulary format.
type Format int

const (
	FormatAuto   Format = iota
	FormatText          // "word count" lines
	FormatList          // one word per line
	FormatBinary        // dict_NNNN.bin chunks
)

// maxChunkEntries bounds the header of a chunk file; larger counts mean a
// corrupt or foreign file.
const maxChunkEntries = 1000000

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatText:
		return "text"
	case FormatList:
		return "list"
	case FormatBinary:
		return "bin"
	default:
		return "unknown"
	}
}

// ParseFormat parses a format name as used in config and flags.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "text", "txt":
		return FormatText, nil
	case "list":
		return FormatList, nil
	case "bin", "binary":
		return FormatBinary, nil
	}
	return FormatAuto, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// DetectFormat guesses the format from the path alone. Text and list files
// cannot be told apart by name; FormatAuto is returned for them and Read
// decides from their content.
func DetectFormat(path string) Format {
	if stat, err := os.Stat(path); err == nil && stat.IsDir() {
		return FormatBinary
	}
	if strings.ToLower(filepath.Ext(path)) == ".bin" {
		return FormatBinary
	}
	return FormatAuto
}

// ValidateChunk checks the header of a binary chunk file.
func ValidateChunk(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	var wordCount int32
	if err := binary.Read(file, binary.LittleEndian, &wordCount); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	if wordCount < 0 {
		return fmt.Errorf("invalid word count in %s: %d (negative)", filename, wordCount)
	}
	if wordCount > maxChunkEntries {
		return fmt.Errorf("suspicious word count in %s: %d (too large)", filename, wordCount)
	}

	log.Debugf("Binary file %s validated: %d words", filename, wordCount)
	return nil
}
