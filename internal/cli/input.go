// Package cli handles cmd line input and result printing for testing rings interactively
package cli

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/bastiangx/ringserve/pkg/solver"
	"github.com/charmbracelet/log"
)

// InputHandler reads rings from an input stream, one or more per line, and
// prints their solutions.
type InputHandler struct {
	solver       *solver.Solver
	printer      *Printer
	reader       io.Reader
	limit        int
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(s *solver.Solver, r io.Reader, p *Printer, limit int) *InputHandler {
	return &InputHandler{
		solver:  s,
		printer: p,
		reader:  r,
		limit:   limit,
	}
}

// Start begins the interface loop. It returns nil when the input ends.
func (h *InputHandler) Start() error {
	log.Print("ringserve CLI")
	log.Print("type the letters of a ring and press Enter (Ctrl+C to exit):")
	reader := bufio.NewReader(h.reader)

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			h.handleInput(line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// handleInput solves every whitespace separated ring of line.
func (h *InputHandler) handleInput(line string) {
	for _, letters := range strings.Fields(line) {
		h.requestCount++
		log.Debug("Processing request", "ring", letters, "count", h.requestCount)
		h.printer.Result(h.solver.Solve(letters, h.limit))
	}
}
