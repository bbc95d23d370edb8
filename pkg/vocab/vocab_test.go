package vocab

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const sampleText = `# frequency list
Rand 120
rand 15
Dose 80
Rand 30
über 40
Über 9
xy 500
Dose12 99
lauf
Laufen abc
Straße 11
`

func TestReadText(t *testing.T) {
	v, err := Read(strings.NewReader(sampleText), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 5, v.Len())
	freq, ok := v.Frequency("Rand")
	require.True(t, ok)
	assert.Equal(t, 150, freq, "repeated words sum their counts")

	_, ok = v.Frequency("Über")
	assert.False(t, ok, "below cutoff")
	_, ok = v.Frequency("xy")
	assert.False(t, ok, "too short for the word pattern")

	stats := v.Stats()
	assert.Equal(t, FormatText, stats.Format)
	assert.Equal(t, 11, stats.Lines)
	assert.Equal(t, 1, stats.BelowCutoff)
	assert.Equal(t, 4, stats.Skipped)
	assert.Equal(t, 150, stats.MaxFrequency)
}

func TestWordsOrder(t *testing.T) {
	v, err := Read(strings.NewReader(sampleText), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Rand", "Dose", "über", "rand", "Straße"}, v.Words())
}

func TestReadTextNoCutoffNoPattern(t *testing.T) {
	opts := Options{Format: FormatText, Cutoff: -1}
	v, err := Read(strings.NewReader("xy 5\nÜber 9\nfoo bar\n"), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Len())
	assert.Equal(t, 1, v.Stats().Skipped)
}

func TestReadList(t *testing.T) {
	v, err := Read(strings.NewReader("Rand\nDose\n\nRand\nab cd\n"), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, FormatList, v.Stats().Format)
	assert.Equal(t, 3, v.Len())
	assert.Equal(t, []string{"Dose", "Rand", "ab"}, v.Words())
	assert.Zero(t, v.Score("Rand", "Dose"))
}

func TestReadAutoMalformedFirstLine(t *testing.T) {
	v, err := Read(strings.NewReader("Haus Maus 5\nArbeit 50\nRand 3\nxyz1 100\n"), DefaultOptions())
	require.NoError(t, err)

	stats := v.Stats()
	assert.Equal(t, FormatText, stats.Format)
	assert.Equal(t, 1, v.Len())
	freq, ok := v.Frequency("Arbeit")
	require.True(t, ok)
	assert.Equal(t, 50, freq)
	_, ok = v.Frequency("Rand")
	assert.False(t, ok, "below cutoff")
	_, ok = v.Frequency("xyz1")
	assert.False(t, ok, "fails the word pattern")
	assert.Equal(t, 2, stats.Skipped)
	assert.Equal(t, 1, stats.BelowCutoff)
}

func TestReadAutoSampleLimit(t *testing.T) {
	var b strings.Builder
	for i := 0; i < sniffLines; i++ {
		b.WriteString("Wort eins zwei\n")
	}
	b.WriteString("Arbeit 50\n")

	v, err := Read(strings.NewReader(b.String()), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, FormatList, v.Stats().Format)
	assert.Equal(t, []string{"Arbeit", "Wort"}, v.Words())
}

func TestDumpListReloads(t *testing.T) {
	v, err := Read(strings.NewReader("Rand\nDose\n"), DefaultOptions())
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "list.txt")
	require.NoError(t, v.Dump(out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Dose\nRand\n", string(data))

	reloaded, err := Load(out, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, FormatList, reloaded.Stats().Format)
	assert.Equal(t, v.Words(), reloaded.Words())
}

func TestReadRejectsBinary(t *testing.T) {
	_, err := Read(strings.NewReader(""), Options{Format: FormatBinary})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestScore(t *testing.T) {
	v := New()
	v.Add("Rand", 10)
	v.Add("Dose", 5)
	assert.Equal(t, 15, v.Score("Rand", "Dose"))
	assert.Equal(t, 10, v.Score("Rand", "missing"))
	assert.Zero(t, v.Score())
}

func TestAddNormalizes(t *testing.T) {
	v := New()
	v.Add("u\u0308ber", 3) // decomposed ü
	v.Add("über", 4)
	v.Add("", 9)
	v.Add("neg", -1)

	assert.Equal(t, 1, v.Len())
	freq, ok := v.Frequency("über")
	require.True(t, ok)
	assert.Equal(t, 7, freq)
}

func TestReadLatin1(t *testing.T) {
	encoded, err := charmap.ISO8859_1.NewEncoder().String("Straße 20\nÄpfel 30\n")
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Encoding = Latin1
	v, err := Read(strings.NewReader(encoded), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"Äpfel", "Straße"}, v.Words())
}

func TestReadUTF8BOM(t *testing.T) {
	v, err := Read(strings.NewReader("\ufeffRand 20\n"), DefaultOptions())
	require.NoError(t, err)
	_, ok := v.Frequency("Rand")
	assert.True(t, ok)
}

func TestParseEncoding(t *testing.T) {
	for in, want := range map[string]Encoding{
		"":           UTF8,
		"UTF8":       UTF8,
		"iso-8859-1": Latin1,
		"cp1252":     Windows1252,
	} {
		got, err := ParseEncoding(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseEncoding("euc-jp")
	assert.ErrorIs(t, err, ErrUnknownEncoding)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("BIN")
	require.NoError(t, err)
	assert.Equal(t, FormatBinary, f)
	assert.Equal(t, "bin", f.String())

	_, err = ParseFormat("csv")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadAndDump(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(src, []byte(sampleText), 0644))

	v, err := Load(src, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, src, v.Stats().Source)

	out := filepath.Join(dir, "filtered.txt")
	require.NoError(t, v.Dump(out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Rand 150\nDose 80\nüber 40\nrand 15\nStraße 11\n", string(data))

	reloaded, err := Load(out, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, v.Words(), reloaded.Words())
	assert.Equal(t, v.Fingerprint(), reloaded.Fingerprint())
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"), DefaultOptions())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestChunksRoundTrip(t *testing.T) {
	v := New()
	v.Add("Rand", 300)
	v.Add("Dose", 200)
	v.Add("Etat", 100)

	dir := filepath.Join(t.TempDir(), "chunks")
	require.NoError(t, v.WriteChunks(dir, 2))

	chunks, err := ListChunks(dir)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, 1, chunks[0].ChunkID)
	assert.Equal(t, 2, chunks[1].ChunkID)

	loaded, err := Load(dir, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, FormatBinary, loaded.Stats().Format)
	assert.Equal(t, []string{"Rand", "Dose", "Etat"}, loaded.Words())

	freq, _ := loaded.Frequency("Rand")
	assert.Equal(t, 65535, freq)
	freq, _ = loaded.Frequency("Etat")
	assert.Equal(t, 65533, freq)

	single, err := Load(chunks[1].Filename, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Etat"}, single.Words())
}

func TestReadChunkTruncated(t *testing.T) {
	var buf bytes.Buffer
	v := New()
	v.Add("Rand", 1)
	dir := t.TempDir()
	require.NoError(t, v.WriteChunks(dir, 10))
	data, err := os.ReadFile(filepath.Join(dir, "dict_0001.bin"))
	require.NoError(t, err)

	// claim two entries but carry one
	buf.Write([]byte{2, 0, 0, 0})
	buf.Write(data[4:])

	got := New()
	n, err := got.ReadChunk(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"Rand"}, got.Words())
}

func TestLoadEmptyChunkDir(t *testing.T) {
	_, err := Load(t.TempDir(), DefaultOptions())
	assert.Error(t, err)
}

func TestFingerprintDiffers(t *testing.T) {
	a, b := New(), New()
	a.Add("Rand", 1)
	b.Add("Rand", 2)
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
	assert.Len(t, a.Fingerprint(), 32)
}
