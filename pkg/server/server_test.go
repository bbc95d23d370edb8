package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bastiangx/ringserve/pkg/cache"
	"github.com/bastiangx/ringserve/pkg/config"
	"github.com/bastiangx/ringserve/pkg/metrics"
	"github.com/bastiangx/ringserve/pkg/solver"
	"github.com/bastiangx/ringserve/pkg/vocab"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

// testVocab is solvable for the ring "abcdef"; ranked pairs are
// bdfc+cace (105), aceb+bdfc (15), adfbe+ecad (10) and ecad+dbfb (4).
func testVocab() *vocab.Vocab {
	v := vocab.New()
	for word, freq := range map[string]int{
		"aceb":  10,
		"bdfc":  5,
		"adfbe": 7,
		"ecad":  3,
		"cace":  100,
		"dbfb":  1,
		"abce":  50,
	} {
		v.Add(word, freq)
	}
	return v
}

// run feeds msgs to a fresh server and returns the raw responses.
func run(t *testing.T, cfg *config.Config, opts []Option, msgs ...any) []msgpack.RawMessage {
	t.Helper()

	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, m := range msgs {
		require.NoError(t, enc.Encode(m))
	}

	opts = append(opts, WithIO(&in, &out))
	srv := NewServer(solver.New(testVocab()), cfg, opts...)
	require.NoError(t, srv.Start(context.Background()))

	var responses []msgpack.RawMessage
	dec := msgpack.NewDecoder(&out)
	for out.Len() > 0 {
		raw, err := dec.DecodeRaw()
		require.NoError(t, err)
		responses = append(responses, raw)
	}
	return responses
}

func decode[T any](t *testing.T, raw msgpack.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, msgpack.Unmarshal(raw, &v))
	return v
}

func TestSolve(t *testing.T) {
	resps := run(t, nil, nil, SolveRequest{ID: "r1", Ring: "abcdef", Limit: 2})
	require.Len(t, resps, 1)

	resp := decode[SolveResponse](t, resps[0])
	assert.Equal(t, "r1", resp.ID)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 12, resp.Bigrams)
	assert.Equal(t, 6, resp.Candidates)
	assert.Equal(t, 4, resp.Pairs)
	assert.Equal(t, []solver.Pair{
		{First: "bdfc", Second: "cace", Score: 105},
		{First: "aceb", Second: "bdfc", Score: 15},
	}, resp.Solutions)
	assert.False(t, resp.Cached)
}

func TestSolveLimits(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Solver.NBest = 10
	cfg.Server.MaxLimit = 3

	resps := run(t, cfg, nil,
		SolveRequest{ID: "default", Ring: "abcdef"},
		SolveRequest{ID: "capped", Ring: "abcdef", Limit: 50},
	)
	require.Len(t, resps, 2)
	assert.Len(t, decode[SolveResponse](t, resps[0]).Solutions, 3)
	assert.Len(t, decode[SolveResponse](t, resps[1]).Solutions, 3)

	cfg.Server.MaxLimit = 0
	resps = run(t, cfg, nil, SolveRequest{ID: "all", Ring: "abcdef"})
	assert.Len(t, decode[SolveResponse](t, resps[0]).Solutions, 4)
}

func TestSolveNoPairs(t *testing.T) {
	resps := run(t, nil, nil, SolveRequest{ID: "r1", Ring: "abcdefg"})
	resp := decode[SolveResponse](t, resps[0])

	assert.Equal(t, "no_pairs", resp.Status)
	assert.Empty(t, resp.Solutions)
	assert.Equal(t, []string{"aceb", "adfbe", "bdfc", "cace", "dbfb", "ecad"}, resp.CandidateWords)
}

func TestSolveErrors(t *testing.T) {
	resps := run(t, nil, nil,
		SolveRequest{ID: "dup", Ring: "aab"},
		SolveRequest{ID: "empty", Ring: "  "},
		InfoRequest{ID: "bad", Action: "set_size"},
		"not a request",
		SolveRequest{ID: "after", Ring: "abcdef"},
	)
	require.Len(t, resps, 5)

	for i, id := range []string{"dup", "empty", "bad", ""} {
		e := decode[SolveError](t, resps[i])
		assert.Equal(t, id, e.ID)
		assert.Equal(t, 400, e.Code)
		assert.NotEmpty(t, e.Error)
	}
	assert.Contains(t, decode[SolveError](t, resps[0]).Error, "Invalid ring")

	last := decode[SolveResponse](t, resps[4])
	assert.Equal(t, "ok", last.Status, "server keeps going after bad requests")
}

func TestSolveCachedAndMetrics(t *testing.T) {
	c := cache.New(cache.NewMemoryStore(16, 0), "test")
	m := metrics.New()

	resps := run(t, nil, []Option{WithCache(c), WithMetrics(m)},
		SolveRequest{ID: "1", Ring: "abcdef", Limit: 2},
		SolveRequest{ID: "2", Ring: "ABCDEF", Limit: 2},
		InfoRequest{ID: "3", Action: "get_info"},
	)
	require.Len(t, resps, 3)

	first := decode[SolveResponse](t, resps[0])
	second := decode[SolveResponse](t, resps[1])
	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Solutions, second.Solutions)

	info := decode[InfoResponse](t, resps[2])
	assert.Equal(t, int64(1), info.CacheHits)
	assert.Equal(t, int64(1), info.CacheMisses)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SolvesTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHitsTotal))
}

func TestSolveCacheHitTiming(t *testing.T) {
	c := cache.New(cache.NewMemoryStore(16, 0), "test")
	m := metrics.New()

	c.Solve(context.Background(), "abcdef", 2, func(letters string, limit int) solver.Result {
		return solver.Result{Ring: letters, Status: solver.StatusOK, Elapsed: 2 * time.Second}
	})

	resps := run(t, nil, []Option{WithCache(c), WithMetrics(m)},
		SolveRequest{ID: "1", Ring: "abcdef", Limit: 2},
	)
	require.Len(t, resps, 1)

	resp := decode[SolveResponse](t, resps[0])
	require.True(t, resp.Cached)
	assert.Less(t, resp.TimeTaken, (time.Second).Microseconds())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `ring_solve_duration_seconds_bucket{cache_status="hit",le="1"} 1`)
}

func TestInfo(t *testing.T) {
	info := VocabInfo{Words: 7, Source: "words.txt", Format: "text", Fingerprint: "abc", Lemmas: 2}
	resps := run(t, nil, []Option{WithVocabInfo(info)},
		SolveRequest{ID: "1", Ring: "abcdef"},
		InfoRequest{ID: "2", Action: "get_info"},
	)
	require.Len(t, resps, 2)

	resp := decode[InfoResponse](t, resps[1])
	assert.Equal(t, "2", resp.ID)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 7, resp.Words)
	assert.Equal(t, "words.txt", resp.Source)
	assert.Equal(t, 2, resp.Lemmas)
	assert.Equal(t, 2, resp.Requests)
	assert.Equal(t, config.DefaultConfig().Server.MaxLimit, resp.MaxLimit)
}

func TestStartCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	srv := NewServer(solver.New(testVocab()), nil, WithIO(bytes.NewReader(nil), &out))
	assert.ErrorIs(t, srv.Start(ctx), context.Canceled)
}

func TestStartTruncated(t *testing.T) {
	data, err := msgpack.Marshal(SolveRequest{ID: "1", Ring: "abcdef"})
	require.NoError(t, err)

	var out bytes.Buffer
	srv := NewServer(solver.New(testVocab()), nil, WithIO(bytes.NewReader(data[:len(data)-2]), &out))
	assert.Error(t, srv.Start(context.Background()))
}
