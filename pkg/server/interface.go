/*
Package server implements msgpack IPC for the ring solver.

Clients write msgpack messages to the server's stdin and read one response
per message from its stdout. Messages are handled in order, each response
carries the ID of its request and the solve time in microseconds.

# IPC

A solve request names the ring and optionally how many solutions to return:

	{"id": "req_001", "r": "arbeits", "n": 10}

The server responds with ranked word pairs and the counts of each stage:

	{"id": "req_001", "st": "ok", "s": [{"a": "Tabs", "b": "Sire", "sc": 4231}], "b": 14, "c": 31, "p": 2, "t": 845}

When no pair matches, "st" tells which stage came up empty and "w" lists the
candidate words that were found, if any.

Info requests report the loaded vocabulary and the server limits:

	{"id": "info_001", "action": "get_info"}

Malformed messages, unknown actions and invalid rings are answered with a
SolveError carrying a message and an HTTP-like code.

# Limits

n defaults to the configured nbest and is capped at max_limit. Results are
cached per vocabulary, ring and n when a cache is configured, and every
solve is recorded in the metrics when they are enabled.
*/
package server

import "github.com/bastiangx/ringserve/pkg/solver"

// SolveRequest asks for the solutions of one ring.
type SolveRequest struct {
	ID    string `msgpack:"id"`
	Ring  string `msgpack:"r"`
	Limit int    `msgpack:"n,omitempty"`
}

// SolveResponse carries the ranked solutions of a ring.
type SolveResponse struct {
	ID             string        `msgpack:"id"`
	Status         string        `msgpack:"st"`
	Solutions      []solver.Pair `msgpack:"s"`
	Bigrams        int           `msgpack:"b"`
	Candidates     int           `msgpack:"c"`
	Pairs          int           `msgpack:"p"`
	CandidateWords []string      `msgpack:"w,omitempty"`
	Cached         bool          `msgpack:"h,omitempty"`
	TimeTaken      int64         `msgpack:"t"`
}

// InfoRequest asks for server and vocabulary details. Action is "get_info".
type InfoRequest struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action"`
}

// InfoResponse describes the running server.
type InfoResponse struct {
	ID          string `msgpack:"id"`
	Status      string `msgpack:"status"`
	Words       int    `msgpack:"words"`
	Source      string `msgpack:"source,omitempty"`
	Format      string `msgpack:"format,omitempty"`
	Fingerprint string `msgpack:"fingerprint,omitempty"`
	Lemmas      int    `msgpack:"lemmas"`
	MinWordLen  int    `msgpack:"min_len"`
	NBest       int    `msgpack:"nbest"`
	MaxLimit    int    `msgpack:"max_limit"`
	Requests    int    `msgpack:"requests"`
	CacheHits   int64  `msgpack:"cache_hits"`
	CacheMisses int64  `msgpack:"cache_misses"`
}

// SolveError holds basic error information for any failed request
type SolveError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

// request is the union of all incoming messages.
type request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action"`
	Ring   string `msgpack:"r"`
	Limit  int    `msgpack:"n"`
}
