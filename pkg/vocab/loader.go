package vocab

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/bastiangx/ringserve/internal/utils"
	"github.com/charmbracelet/log"
)

// DefaultWordPattern accepts German words of four or more letters with at
// most the first letter capitalized.
const DefaultWordPattern = `^[A-Za-zÄÖÜäöüß][a-zäöüß]{3,}$`

// DefaultCutoff drops words seen fewer than ten times.
const DefaultCutoff = 10

// Options controls how word files are read.
type Options struct {
	Format   Format
	Encoding Encoding
	// Cutoff drops text entries whose count is below it. Negative disables.
	Cutoff int
	// Pattern filters words of text files. Nil accepts every word.
	Pattern *regexp.Regexp
}

// DefaultOptions returns auto detection, UTF-8, DefaultCutoff and
// DefaultWordPattern.
func DefaultOptions() Options {
	return Options{
		Format:   FormatAuto,
		Encoding: UTF8,
		Cutoff:   DefaultCutoff,
		Pattern:  regexp.MustCompile(DefaultWordPattern),
	}
}

// Load reads a vocabulary from a file, or from a directory of binary chunks.
func Load(path string, opts Options) (*Vocab, error) {
	format := opts.Format
	if format == FormatAuto {
		format = DetectFormat(path)
	}

	var (
		v   *Vocab
		err error
	)
	if format == FormatBinary {
		v, err = loadBinary(path)
	} else {
		v, err = loadLines(path, format, opts)
	}
	if err != nil {
		return nil, err
	}
	v.stats.Source = path

	stats := v.Stats()
	log.Debug("vocabulary loaded", "source", path, "format", stats.Format,
		"words", stats.Loaded, "skipped", stats.Skipped, "below_cutoff", stats.BelowCutoff)
	return v, nil
}

func loadLines(path string, format Format, opts Options) (*Vocab, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word file %s: %w", path, err)
	}
	defer file.Close()

	opts.Format = format
	v, err := Read(file, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read word file %s: %w", path, err)
	}
	return v, nil
}

// sniffLines is how many data lines FormatAuto looks at before settling on
// the list format.
const sniffLines = 20

// Read parses text or list lines from r. With FormatAuto the file is text as
// soon as one of its first sniffLines data lines is a valid "word count"
// pair, otherwise it is a list. Lines starting with '#' and blank lines are
// ignored.
func Read(r io.Reader, opts Options) (*Vocab, error) {
	if opts.Format == FormatBinary {
		return nil, fmt.Errorf("%w: binary data must be read with ReadChunk", ErrUnknownFormat)
	}
	if opts.Encoding == "" {
		opts.Encoding = UTF8
	}

	v := New()
	format := opts.Format
	var pending [][]string
	scanner := bufio.NewScanner(opts.Encoding.Reader(r))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		v.stats.Lines++
		fields := strings.Fields(line)

		if format == FormatAuto {
			pending = append(pending, fields)
			if isTextEntry(fields) {
				format = FormatText
			} else if len(pending) < sniffLines {
				continue
			} else {
				format = FormatList
			}
			log.Debugf("Detected %s format after %d lines", format, len(pending))
			for _, f := range pending {
				v.addEntry(f, format, opts)
			}
			pending = nil
			continue
		}
		v.addEntry(fields, format, opts)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if format == FormatAuto {
		format = FormatText
		if len(pending) > 0 {
			format = FormatList
		}
		for _, f := range pending {
			v.addEntry(f, format, opts)
		}
	}
	v.stats.Format = format
	return v, nil
}

func (v *Vocab) addEntry(fields []string, format Format, opts Options) {
	switch format {
	case FormatText:
		v.addTextEntry(fields, opts)
	case FormatList:
		v.Add(fields[0], 0)
	}
}

// isTextEntry reports whether fields look like a "word count" line.
func isTextEntry(fields []string) bool {
	if len(fields) != 2 {
		return false
	}
	_, err := strconv.Atoi(fields[1])
	return err == nil
}

// addTextEntry adds one "word count" line, counting malformed and
// below-cutoff lines instead of failing.
func (v *Vocab) addTextEntry(fields []string, opts Options) {
	if len(fields) != 2 {
		v.stats.Skipped++
		return
	}
	word := utils.NFC(fields[0])
	if opts.Pattern != nil && !opts.Pattern.MatchString(word) {
		v.stats.Skipped++
		return
	}
	count, err := strconv.Atoi(fields[1])
	if err != nil || count < 0 {
		v.stats.Skipped++
		return
	}
	if opts.Cutoff >= 0 && count < opts.Cutoff {
		v.stats.BelowCutoff++
		return
	}
	v.Add(word, count)
}
