package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bastiangx/ringserve/internal/logger"
	"github.com/bastiangx/ringserve/pkg/cache"
	"github.com/bastiangx/ringserve/pkg/config"
	"github.com/bastiangx/ringserve/pkg/metrics"
	"github.com/bastiangx/ringserve/pkg/solver"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// VocabInfo describes the loaded word data for info requests.
type VocabInfo struct {
	Words       int
	Source      string
	Format      string
	Fingerprint string
	Lemmas      int
}

// Server handles the IPC for ring solving
type Server struct {
	solver  *solver.Solver
	config  *config.Config
	cache   *cache.SolutionCache
	metrics *metrics.Metrics
	info    VocabInfo

	reader       io.Reader
	writer       *bufio.Writer
	encoder      *msgpack.Encoder
	logger       *log.Logger
	requestCount int
}

// Option configures a Server.
type Option func(*Server)

// WithCache serves repeated rings from c.
func WithCache(c *cache.SolutionCache) Option {
	return func(s *Server) {
		s.cache = c
	}
}

// WithMetrics records every solve in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithVocabInfo sets what info requests report about the vocabulary.
func WithVocabInfo(info VocabInfo) Option {
	return func(s *Server) {
		s.info = info
	}
}

// WithIO replaces stdin and stdout.
func WithIO(r io.Reader, w io.Writer) Option {
	return func(s *Server) {
		s.reader = r
		s.writer = bufio.NewWriter(w)
	}
}

// NewServer creates a server reading requests from stdin and writing
// responses to stdout.
func NewServer(sv *solver.Solver, cfg *config.Config, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Server{
		solver: sv,
		config: cfg,
		reader: os.Stdin,
		writer: bufio.NewWriter(os.Stdout),
		logger: logger.New("server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.encoder = msgpack.NewEncoder(s.writer)
	return s
}

// Start handles requests until the input ends, ctx is done or the stream
// can no longer be decoded. A clean end of input returns nil.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Debug("Starting server")
	decoder := msgpack.NewDecoder(bufio.NewReader(s.reader))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := decoder.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("Input closed, stopping server")
				return nil
			}
			s.logger.Errorf("Reading request: %v", err)
			return fmt.Errorf("failed to decode request stream: %w", err)
		}
		s.requestCount++

		var req request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.logger.Warnf("Malformed request: %v", err)
			s.sendError("", "Invalid request", 400)
			continue
		}
		s.handleRequest(ctx, req)
	}
}

// handleRequest dispatches on the action field; no action means solve.
func (s *Server) handleRequest(ctx context.Context, req request) {
	switch req.Action {
	case "", "solve":
		s.handleSolve(ctx, req)
	case "get_info":
		s.handleInfo(req)
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown action: %s", req.Action), 400)
	}
}

func (s *Server) handleSolve(ctx context.Context, req request) {
	if strings.TrimSpace(req.Ring) == "" {
		s.sendError(req.ID, "Missing 'r' parameter", 400)
		return
	}
	limit := s.limit(req.Limit)

	var (
		res    solver.Result
		cached bool
	)
	cacheStatus := "off"
	if s.cache != nil {
		res, cached = s.cache.Solve(ctx, req.Ring, limit, s.solver.Solve)
		cacheStatus = "miss"
		if cached {
			cacheStatus = "hit"
		}
	} else {
		res = s.solver.Solve(req.Ring, limit)
	}

	if s.metrics != nil {
		s.metrics.ObserveSolve(res, cacheStatus)
		if s.cache != nil {
			s.metrics.ObserveCache(cached)
		}
	}

	if res.Status == solver.StatusInvalidRing {
		s.sendError(req.ID, fmt.Sprintf("Invalid ring: %v", res.Err), 400)
		return
	}

	solutions := res.Pairs
	if solutions == nil {
		solutions = []solver.Pair{}
	}
	s.sendResponse(SolveResponse{
		ID:             req.ID,
		Status:         res.Status.String(),
		Solutions:      solutions,
		Bigrams:        res.Bigrams,
		Candidates:     res.Candidates,
		Pairs:          res.RawPairs,
		CandidateWords: res.CandidateWords,
		Cached:         cached,
		TimeTaken:      res.Elapsed.Microseconds(),
	})
}

// limit applies the nbest default and the max_limit cap.
func (s *Server) limit(n int) int {
	if n <= 0 {
		n = s.config.Solver.NBest
	}
	if maxLimit := s.config.Server.MaxLimit; maxLimit > 0 && (n <= 0 || n > maxLimit) {
		n = maxLimit
	}
	return n
}

func (s *Server) handleInfo(req request) {
	resp := InfoResponse{
		ID:          req.ID,
		Status:      "ok",
		Words:       s.info.Words,
		Source:      s.info.Source,
		Format:      s.info.Format,
		Fingerprint: s.info.Fingerprint,
		Lemmas:      s.info.Lemmas,
		MinWordLen:  s.config.Solver.MinWordLen,
		NBest:       s.config.Solver.NBest,
		MaxLimit:    s.config.Server.MaxLimit,
		Requests:    s.requestCount,
	}
	if s.cache != nil {
		resp.CacheHits, resp.CacheMisses = s.cache.Stats()
	}
	s.sendResponse(resp)
}

// sendResponse encodes one message and flushes it, so a client waiting for
// the answer is never stuck behind the buffer.
func (s *Server) sendResponse(response any) {
	if err := s.encoder.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.writer.Flush(); err != nil {
		s.logger.Errorf("Writing response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(SolveError{
		ID:    id,
		Error: message,
		Code:  code,
	})
}
