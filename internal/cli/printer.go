package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/bastiangx/ringserve/internal/utils"
	"github.com/bastiangx/ringserve/pkg/solver"
	"github.com/charmbracelet/lipgloss"
)

const separator = "================================"

type styles struct {
	header lipgloss.Style
	word   lipgloss.Style
	score  lipgloss.Style
	warn   lipgloss.Style
	faint  lipgloss.Style
}

// Printer writes solve results in a plain line format. Colors are only used
// when w is a terminal.
type Printer struct {
	w      io.Writer
	styles styles
}

// NewPrinter creates a printer for w.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w: w,
		styles: styles{
			header: r.NewStyle().Bold(true),
			word:   r.NewStyle().Foreground(lipgloss.Color("75")),
			score:  r.NewStyle().Faint(true),
			warn:   r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#b4637a", Dark: "#eb6f92"}),
			faint:  r.NewStyle().Faint(true),
		},
	}
}

// Loaded reports the vocabulary size after loading.
func (p *Printer) Loaded(words, cutoff int) {
	fmt.Fprintf(p.w, "loaded %s words [cutoff=%d]\n", utils.FormatWithCommas(words), cutoff)
}

// Wrote reports a written vocabulary dump.
func (p *Printer) Wrote(path string) {
	fmt.Fprintf(p.w, "wrote filtered vocab: %s\n", path)
}

// Result prints one solved ring followed by a separator line.
func (p *Printer) Result(res solver.Result) {
	s := p.styles
	fmt.Fprintf(p.w, "letters: %s\n", s.header.Render(res.Ring))

	switch res.Status {
	case solver.StatusInvalidRing:
		fmt.Fprintln(p.w, s.warn.Render(fmt.Sprintf("invalid ring: %v", res.Err)))
	case solver.StatusEmptyVocabulary:
		fmt.Fprintln(p.w, s.warn.Render("no results found! the vocabulary is empty"))
	default:
		fmt.Fprintf(p.w, "created %d bigrams, %d candidates\n", res.Bigrams, res.Candidates)
		if res.OK() {
			fmt.Fprintf(p.w, "showing %d/%d solutions:\n", len(res.Pairs), res.RawPairs)
			for i, pair := range res.Pairs {
				fmt.Fprintf(p.w, "%2d. %s %s %s\n", i+1,
					s.word.Render(pair.First), s.word.Render(pair.Second),
					s.score.Render(fmt.Sprintf("(%d)", pair.Score)))
			}
		} else {
			fmt.Fprintln(p.w, s.warn.Render(fmt.Sprintf("no results found! all %d sorted candidates:", res.Candidates)))
			fmt.Fprintf(p.w, "[%s]\n", strings.Join(res.CandidateWords, ", "))
		}
	}
	fmt.Fprintln(p.w, s.faint.Render(separator))
}
