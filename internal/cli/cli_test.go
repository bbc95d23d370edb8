package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/bastiangx/ringserve/pkg/ring"
	"github.com/bastiangx/ringserve/pkg/solver"
	"github.com/bastiangx/ringserve/pkg/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSolver() *solver.Solver {
	v := vocab.New()
	v.Add("aceb", 10)
	v.Add("bdfc", 5)
	v.Add("cace", 100)
	return solver.New(v)
}

func TestPrinterResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Result(testSolver().Solve("abcdef", 10))

	want := "letters: abcdef\n" +
		"created 12 bigrams, 3 candidates\n" +
		"showing 2/2 solutions:\n" +
		" 1. bdfc cace (105)\n" +
		" 2. aceb bdfc (15)\n" +
		separator + "\n"
	assert.Equal(t, want, buf.String())
}

func TestPrinterNoPairs(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Result(testSolver().Solve("abcdefg", 10))

	out := buf.String()
	assert.Contains(t, out, "no results found! all 3 sorted candidates:\n")
	assert.Contains(t, out, "[aceb, bdfc, cace]\n")
}

func TestPrinterStatuses(t *testing.T) {
	tests := []struct {
		name string
		res  solver.Result
		want string
	}{
		{
			name: "invalid",
			res:  solver.Result{Ring: "aa", Status: solver.StatusInvalidRing, Err: ring.ErrDuplicateLetter},
			want: "invalid ring: " + ring.ErrDuplicateLetter.Error(),
		},
		{
			name: "empty vocabulary",
			res:  solver.Result{Ring: "abcd", Status: solver.StatusEmptyVocabulary},
			want: "the vocabulary is empty",
		},
		{
			name: "no candidates",
			res:  solver.Result{Ring: "abcd", Status: solver.StatusNoCandidates, Bigrams: 8},
			want: "created 8 bigrams, 0 candidates\nno results found! all 0 sorted candidates:\n[]\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf).Result(tt.res)
			assert.Contains(t, buf.String(), tt.want)
			assert.True(t, strings.HasSuffix(buf.String(), separator+"\n"))
		})
	}
}

func TestPrinterLoaded(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Loaded(1234567, 10)
	p.Wrote("out.txt")
	assert.Equal(t, "loaded 1,234,567 words [cutoff=10]\nwrote filtered vocab: out.txt\n", buf.String())
}

func TestInputHandler(t *testing.T) {
	var buf bytes.Buffer
	in := strings.NewReader("abcdef\n\n  abcdefg abcdef  \nabcdef")
	h := NewInputHandler(testSolver(), in, NewPrinter(&buf), 1)

	require.NoError(t, h.Start())
	assert.Equal(t, 4, h.requestCount, "the last line counts without a newline")
	assert.Equal(t, 3, strings.Count(buf.String(), "showing 1/2 solutions:"))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestInputHandlerReadError(t *testing.T) {
	h := NewInputHandler(testSolver(), failingReader{}, NewPrinter(&bytes.Buffer{}), 1)
	assert.EqualError(t, h.Start(), "broken pipe")
}
