// Package lemma maps inflected word forms to their base form.
//
// A Table is loaded from a plain file of "form<TAB>lemma" lines and is used
// by the solver to drop conjugated verbs, plural nouns and similar forms.
package lemma

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bastiangx/ringserve/internal/utils"
	"github.com/charmbracelet/log"
)

// Table is an in-memory form to lemma lookup. It is safe for concurrent
// reads once loading is done.
type Table struct {
	exact map[string]string
	lower map[string]string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		exact: make(map[string]string),
		lower: make(map[string]string),
	}
}

// Add records lemma as the base form of form. Later entries win.
func (t *Table) Add(form, lemma string) {
	form, lemma = utils.NFC(form), utils.NFC(lemma)
	if form == "" || lemma == "" {
		return
	}
	t.exact[form] = lemma
	t.lower[utils.Lower(form)] = lemma
}

// Len returns the number of distinct forms.
func (t *Table) Len() int {
	return len(t.exact)
}

// Lemma returns the base form of word. A lemma that differs from word only
// by case is reported as word itself, whether it was found through the exact
// or the lowercase form, so "Rand" stays a base form when the table maps it
// to "rand".
func (t *Table) Lemma(word string) (string, bool) {
	word = utils.NFC(word)
	lemma, ok := t.exact[word]
	if !ok {
		lemma, ok = t.lower[utils.Lower(word)]
	}
	if !ok {
		return "", false
	}
	if utils.Lower(lemma) == utils.Lower(word) {
		return word, true
	}
	return lemma, true
}

// LoadTable reads a lemma file from path.
func LoadTable(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lemma file %s: %w", path, err)
	}
	defer file.Close()

	t, err := ReadTable(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read lemma file %s: %w", path, err)
	}
	log.Debug("lemma table loaded", "source", path, "forms", t.Len())
	return t, nil
}

// ReadTable parses "form<TAB>lemma" lines. Lines without a tab are split on
// whitespace instead. Blank lines, '#' comments and lines with fewer than two
// fields are skipped.
func ReadTable(r io.Reader) (*Table, error) {
	t := NewTable()
	scanner := bufio.NewScanner(r)
	skipped := 0

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var fields []string
		if strings.Contains(line, "\t") {
			fields = strings.Split(line, "\t")
		} else {
			fields = strings.Fields(line)
		}
		if len(fields) < 2 {
			skipped++
			continue
		}
		t.Add(strings.TrimSpace(fields[0]), strings.TrimSpace(fields[1]))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if skipped > 0 {
		log.Debugf("Skipped %d malformed lemma lines", skipped)
	}
	return t, nil
}
