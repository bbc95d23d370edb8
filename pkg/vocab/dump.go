package vocab

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
)

// Dump writes v as "word count" lines, highest frequency first, so the file
// can be loaded again as text without re-filtering the source list. A
// vocabulary without any counts, e.g. one read from a list, is written as a
// list so that reloading it does not drop every word below the cutoff.
func (v *Vocab) Dump(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	entries := v.Entries()
	counted := false
	for _, e := range entries {
		if e.Frequency > 0 {
			counted = true
			break
		}
	}

	w := bufio.NewWriter(file)
	for _, e := range entries {
		w.WriteString(e.Word)
		if counted {
			w.WriteByte(' ')
			w.WriteString(strconv.Itoa(e.Frequency))
		}
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}
