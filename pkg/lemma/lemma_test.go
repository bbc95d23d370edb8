package lemma

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTable = "# form\tlemma\n" +
	"Häuser\tHaus\n" +
	"lief\tlaufen\n" +
	"rand\trand\n" +
	"broken\n" +
	"\n" +
	"ging gehen\n"

func TestReadTable(t *testing.T) {
	table, err := ReadTable(strings.NewReader(sampleTable))
	require.NoError(t, err)
	assert.Equal(t, 4, table.Len())
}

func TestLemma(t *testing.T) {
	table, err := ReadTable(strings.NewReader(sampleTable))
	require.NoError(t, err)

	tests := []struct {
		word   string
		want   string
		wantOK bool
	}{
		{"Häuser", "Haus", true},
		{"häuser", "Haus", true},
		{"lief", "laufen", true},
		{"ging", "gehen", true},
		{"rand", "rand", true},
		{"Rand", "Rand", true},
		{"Straße", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got, ok := table.Lemma(tt.word)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLemmaCaseOnlyDifference(t *testing.T) {
	table := NewTable()
	table.Add("Rand", "rand")
	table.Add("tor", "Tor")
	table.Add("Läufe", "lauf")

	tests := []struct {
		name string
		word string
		want string
	}{
		{"exact form", "Rand", "Rand"},
		{"lowercase form", "RAND", "RAND"},
		{"exact form lower", "tor", "tor"},
		{"lowercase form upper", "Tor", "Tor"},
		{"real lemma", "Läufe", "lauf"},
		{"real lemma through lowercase", "läufe", "lauf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := table.Lemma(tt.word)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLemmaNormalizes(t *testing.T) {
	table := NewTable()
	table.Add("Ha\u0308user", "Haus") // decomposed ä

	got, ok := table.Lemma("Häuser")
	require.True(t, ok)
	assert.Equal(t, "Haus", got)
}

func TestAddIgnoresEmpty(t *testing.T) {
	table := NewTable()
	table.Add("", "x")
	table.Add("x", "")
	assert.Zero(t, table.Len())
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lemmas.tsv")
	require.NoError(t, os.WriteFile(path, []byte(sampleTable), 0644))

	table, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, 4, table.Len())

	_, err = LoadTable(filepath.Join(t.TempDir(), "missing.tsv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
