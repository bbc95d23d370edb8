package vocab

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	chunkGlob   = "dict_*.bin"
	chunkFormat = "dict_%04d.bin"
	// maxRank is the lowest rank a chunk can store; score = maxRank+1 - rank.
	maxRank = 65535
)

// ChunkInfo describes a chunk file in a directory.
type ChunkInfo struct {
	ChunkID  int
	Filename string
}

// ListChunks returns the chunk files of dir ordered by chunk ID.
func ListChunks(dir string) ([]ChunkInfo, error) {
	files, err := filepath.Glob(filepath.Join(dir, chunkGlob))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}

	var chunks []ChunkInfo
	for _, file := range files {
		// dict_0001.bin -> 1
		idStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(file), "dict_"), ".bin")
		chunkID, err := strconv.Atoi(idStr)
		if err != nil {
			log.Debugf("Ignoring chunk-like file %s", file)
			continue
		}
		chunks = append(chunks, ChunkInfo{ChunkID: chunkID, Filename: file})
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ChunkID < chunks[j].ChunkID
	})
	return chunks, nil
}

func loadBinary(path string) (*Vocab, error) {
	files := []string{path}
	if stat, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	} else if stat.IsDir() {
		chunks, err := ListChunks(path)
		if err != nil {
			return nil, err
		}
		if len(chunks) == 0 {
			return nil, fmt.Errorf("no chunk files found in %s", path)
		}
		files = files[:0]
		for _, c := range chunks {
			files = append(files, c.Filename)
		}
	}

	v := New()
	for _, file := range files {
		if err := ValidateChunk(file); err != nil {
			return nil, err
		}
		if err := v.loadChunkFile(file); err != nil {
			return nil, err
		}
	}
	v.stats.Format = FormatBinary
	return v, nil
}

func (v *Vocab) loadChunkFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open chunk file %s: %w", filename, err)
	}
	defer file.Close()

	n, err := v.ReadChunk(bufio.NewReader(file))
	if err != nil {
		return fmt.Errorf("chunk %s: %w", filename, err)
	}
	log.Debugf("Chunk %s loaded: %d words", filename, n)
	return nil
}

// ReadChunk adds the entries of one binary chunk to v and returns how many
// were read. A chunk that ends early keeps the entries read so far.
func (v *Vocab) ReadChunk(r io.Reader) (int, error) {
	var totalEntries int32
	if err := binary.Read(r, binary.LittleEndian, &totalEntries); err != nil {
		return 0, fmt.Errorf("failed to read chunk header: %w", err)
	}
	if totalEntries < 0 || totalEntries > maxChunkEntries {
		return 0, fmt.Errorf("invalid chunk entry count %d", totalEntries)
	}

	count := 0
	for count < int(totalEntries) {
		var wordLen uint16
		if err := binary.Read(r, binary.LittleEndian, &wordLen); err != nil {
			if errors.Is(err, io.EOF) {
				log.Warnf("Chunk ended after %d of %d entries", count, totalEntries)
				break
			}
			return count, fmt.Errorf("failed to read word length: %w", err)
		}

		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(r, wordBytes); err != nil {
			return count, fmt.Errorf("failed to read word: %w", err)
		}

		var rank uint16
		if err := binary.Read(r, binary.LittleEndian, &rank); err != nil {
			return count, fmt.Errorf("failed to read rank: %w", err)
		}
		v.stats.Lines++

		// rank 1 becomes 65535, rank 2 becomes 65534, ...
		v.Add(string(wordBytes), maxRank+1-int(rank))
		count++
	}
	return count, nil
}

// WriteChunks stores v in dir as binary chunks of chunkSize words. Ranks
// follow Entries order, so relative order survives a reload while the
// absolute frequencies do not; ranks past 65535 share the last rank.
func (v *Vocab) WriteChunks(dir string, chunkSize int) error {
	if chunkSize <= 0 {
		return fmt.Errorf("invalid chunk size %d", chunkSize)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create chunk dir %s: %w", dir, err)
	}

	entries := v.Entries()
	id := 1
	for start := 0; ; start += chunkSize {
		end := min(start+chunkSize, len(entries))
		filename := filepath.Join(dir, fmt.Sprintf(chunkFormat, id))
		if err := writeChunk(filename, entries[start:end], start); err != nil {
			return err
		}
		if end == len(entries) {
			return nil
		}
		id++
	}
}

func writeChunk(filename string, entries []Entry, offset int) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create chunk file %s: %w", filename, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := binary.Write(w, binary.LittleEndian, int32(len(entries))); err != nil {
		return err
	}
	for i, e := range entries {
		word := []byte(e.Word)
		if len(word) > maxRank {
			return fmt.Errorf("word too long for chunk format: %d bytes", len(word))
		}
		rank := uint16(min(offset+i+1, maxRank))
		if err := binary.Write(w, binary.LittleEndian, uint16(len(word))); err != nil {
			return err
		}
		if _, err := w.Write(word); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, rank); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write chunk file %s: %w", filename, err)
	}
	return nil
}
