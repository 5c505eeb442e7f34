// Package splitter cuts an ordered collection into fixed-size chunks.
package splitter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidChunkSize is returned for a chunk size below 1.
var ErrInvalidChunkSize = errors.New("chunk size must be positive")

// Placeholder is replaced by the chunk number in name patterns.
const Placeholder = "{n}"

// Chunk splits items into consecutive slices of size items; the last one
// holds the remainder. The chunks share the backing array of items.
func Chunk[T any](items []T, size int) ([][]T, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidChunkSize, size)
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end:end])
	}
	return chunks, nil
}

// ChunkCount returns how many chunks Chunk produces for n items.
func ChunkCount(n, size int) int {
	if size < 1 || n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// ChunkNames builds n file names from pattern, numbering from start:
// ChunkNames("ketquafinal-{n}.json", 2, 4) -> ketquafinal-4.json, ketquafinal-5.json.
// A pattern without {n} gets the number before its extension.
func ChunkNames(pattern string, n, start int) []string {
	names := make([]string, n)
	for i := range names {
		num := strconv.Itoa(start + i)
		if strings.Contains(pattern, Placeholder) {
			names[i] = strings.ReplaceAll(pattern, Placeholder, num)
			continue
		}
		if dot := strings.LastIndex(pattern, "."); dot > 0 {
			names[i] = pattern[:dot] + "-" + num + pattern[dot:]
		} else {
			names[i] = pattern + "-" + num
		}
	}
	return names
}
